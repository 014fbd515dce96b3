package analytics

import (
	"strings"
	"time"
)

// Report sections.
const (
	SectionOverview   = "network_overview"
	SectionDevices    = "device_summary"
	SectionInterfaces = "interface_summary"
	SectionBFD        = "bfd_summary"
	SectionTunnels    = "tunnel_summary"
	SectionAlerts     = "alerts"
)

// DefaultErrorThreshold is the error counter above which an interface is
// considered to have a high error rate.
const DefaultErrorThreshold = 100

// SectionFailure notes a report section that could not be collected.
type SectionFailure struct {
	Section string `json:"section"`
	Error   string `json:"error"`
}

// DeviceSummary counts devices by type and software version.
type DeviceSummary struct {
	TotalDevices     int            `json:"total_devices"`
	DeviceTypes      map[string]int `json:"device_types"`
	SoftwareVersions map[string]int `json:"software_versions"`
}

// InterfaceSummary counts interfaces by admin state and error rate.
type InterfaceSummary struct {
	TotalInterfaces     int `json:"total_interfaces"`
	ActiveInterfaces    int `json:"active_interfaces"`
	OperDownInterfaces  int `json:"oper_down_interfaces"`
	HighErrorInterfaces int `json:"high_error_interfaces"`
}

// TunnelSummary counts tunnels and how many are up.
type TunnelSummary struct {
	DevicesChecked int            `json:"devices_checked"`
	TotalTunnels   int            `json:"total_tunnels"`
	ActiveTunnels  int            `json:"active_tunnels"`
	FailedDevices  []FetchFailure `json:"failed_devices"`
}

// AlertCounts is the alert section of a report.
type AlertCounts struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Report is a network status report. Sections that were not requested are nil;
// sections whose data could not be fetched are nil and listed in Failures.
type Report struct {
	ReportID         string            `json:"report_id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	NetworkOverview  *HealthSummary    `json:"network_overview"`
	DeviceSummary    *DeviceSummary    `json:"device_summary"`
	InterfaceSummary *InterfaceSummary `json:"interface_summary,omitempty"`
	BFDSummary       *BFDHealthReport  `json:"bfd_summary,omitempty"`
	TunnelSummary    *TunnelSummary    `json:"tunnel_summary,omitempty"`
	Alerts           *AlertCounts      `json:"alerts,omitempty"`
	Recommendations  []string          `json:"recommendations"`
	Failures         []SectionFailure  `json:"failures"`
}

// ReportBuilder assembles a Report section by section.
type ReportBuilder struct {
	report         Report
	errorThreshold int64
}

// NewReportBuilder starts a report. errorThreshold below 1 uses DefaultErrorThreshold.
func NewReportBuilder(id string, generatedAt time.Time, errorThreshold int64) *ReportBuilder {
	if errorThreshold < 1 {
		errorThreshold = DefaultErrorThreshold
	}
	return &ReportBuilder{
		report: Report{
			ReportID:    id,
			GeneratedAt: generatedAt,
			Failures:    []SectionFailure{},
		},
		errorThreshold: errorThreshold,
	}
}

// Fail records that section could not be collected.
func (b *ReportBuilder) Fail(section string, err error) *ReportBuilder {
	b.report.Failures = append(b.report.Failures, SectionFailure{Section: section, Error: err.Error()})
	return b
}

// WithDevices adds the overview and device summary.
func (b *ReportBuilder) WithDevices(devices, counters []Record) *ReportBuilder {
	health := Summarize(devices, counters)
	b.report.NetworkOverview = &health
	b.report.DeviceSummary = &DeviceSummary{
		TotalDevices:     len(devices),
		DeviceTypes:      countBy(devices, fieldDeviceType),
		SoftwareVersions: countBy(devices, fieldVersion),
	}
	return b
}

// WithInterfaces adds the interface summary.
func (b *ReportBuilder) WithInterfaces(interfaces []Record) *ReportBuilder {
	summary := &InterfaceSummary{TotalInterfaces: len(interfaces)}
	for _, r := range interfaces {
		if strings.EqualFold(stringField(r, fieldAdminStatus), "up") {
			summary.ActiveInterfaces++
		}
		if strings.EqualFold(stringField(r, fieldOperStatus), "down") {
			summary.OperDownInterfaces++
		}
		if intField(r, fieldRxErrors) > b.errorThreshold || intField(r, fieldTxErrors) > b.errorThreshold {
			summary.HighErrorInterfaces++
		}
	}
	b.report.InterfaceSummary = summary
	return b
}

// WithBFD adds the BFD summary.
func (b *ReportBuilder) WithBFD(health BFDHealthReport) *ReportBuilder {
	b.report.BFDSummary = &health
	return b
}

// WithTunnels adds the tunnel summary from per-device tunnel statistics.
func (b *ReportBuilder) WithTunnels(tunnels []DeviceSessions) *ReportBuilder {
	summary := &TunnelSummary{FailedDevices: []FetchFailure{}}
	for _, d := range tunnels {
		summary.DevicesChecked++
		if d.Err != nil {
			summary.FailedDevices = append(summary.FailedDevices, FetchFailure{DeviceID: d.DeviceID, Error: d.Err.Error()})
			continue
		}
		summary.TotalTunnels += len(d.Sessions)
		for _, t := range d.Sessions {
			if strings.EqualFold(stringField(t, fieldState), "up") {
				summary.ActiveTunnels++
			}
		}
	}
	b.report.TunnelSummary = summary
	return b
}

// WithAlerts adds alert counts.
func (b *ReportBuilder) WithAlerts(alerts []Alert) *ReportBuilder {
	s := SummarizeAlerts(alerts, SeverityAll)
	b.report.Alerts = &AlertCounts{
		Total:    s.TotalAlerts,
		Critical: s.CriticalAlerts,
		Warning:  s.WarningAlerts,
		Info:     s.InfoAlerts,
	}
	return b
}

// Build derives recommendations and returns the report.
func (b *ReportBuilder) Build() Report {
	r := b.report
	var recs []string

	if r.NetworkOverview != nil {
		if r.NetworkOverview.DevicesDown > 0 {
			recs = append(recs, "Some devices are unreachable - check network connectivity")
		}
		if r.NetworkOverview.DevicesUnknown > 0 {
			recs = append(recs, "Some devices report no reachability state - verify their control connections")
		}
	}
	if r.InterfaceSummary != nil && r.InterfaceSummary.HighErrorInterfaces > 0 {
		recs = append(recs, "Some interfaces have high error rates - investigate potential issues")
	}
	if r.BFDSummary != nil && r.BFDSummary.InactiveSessions > 0 {
		recs = append(recs, "Some BFD sessions are inactive - verify network paths")
	}
	if r.TunnelSummary != nil && r.TunnelSummary.ActiveTunnels < r.TunnelSummary.TotalTunnels {
		recs = append(recs, "Some tunnels are not up - check transport links")
	}
	if r.Alerts != nil && r.Alerts.Critical > 0 {
		recs = append(recs, "Critical alerts are open - review get_device_alerts")
	}
	if len(r.Failures) > 0 {
		recs = append(recs, "Some report sections could not be collected - see failures")
	}
	if len(recs) == 0 {
		recs = append(recs, "Network appears to be operating normally")
	}

	r.Recommendations = recs
	return r
}
