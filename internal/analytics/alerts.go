package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// Severity of an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"

	// SeverityAll disables severity filtering.
	SeverityAll Severity = "all"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// ParseSeverity validates a severity filter. An empty value means all.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case "":
		return SeverityAll, nil
	case SeverityCritical, SeverityWarning, SeverityInfo, SeverityAll:
		return sev, nil
	default:
		return "", fmt.Errorf("unsupported severity %q", s)
	}
}

// Alert sources.
const (
	AlertSourceDevice    = "device"
	AlertSourceInterface = "interface"
	AlertSourceBFD       = "bfd"
)

// Alert is one finding of the alert rules.
type Alert struct {
	Severity  Severity `json:"severity"`
	Source    string   `json:"source"`
	DeviceID  string   `json:"device_id"`
	Hostname  string   `json:"hostname,omitempty"`
	Interface string   `json:"interface,omitempty"`
	Message   string   `json:"message"`
	Timestamp any      `json:"timestamp,omitempty"`
}

// AlertInput is the data the alert rules run over. Any part may be empty.
type AlertInput struct {
	Devices    []Record
	Interfaces []Record
	BFD        []DeviceSessions
}

// AlertOptions tunes the alert rules.
type AlertOptions struct {
	// Severity keeps only alerts of this severity; empty or SeverityAll keeps all.
	Severity Severity
	// UtilizationThreshold is the percentage at or above which an interface alerts.
	UtilizationThreshold float64
	// LinkCapacityMbps is the assumed capacity when a record carries no speed.
	LinkCapacityMbps float64
}

// GenerateAlerts applies the alert rules:
//
//	device unreachable                   -> critical
//	device status other than "normal"    -> warning if it mentions warning, else info
//	interface utilization >= threshold   -> warning
//	BFD session down                     -> critical
//
// The result is ordered critical, warning, info and keeps collection order
// within a severity.
func GenerateAlerts(in AlertInput, opts AlertOptions) []Alert {
	threshold := opts.UtilizationThreshold
	if threshold <= 0 {
		threshold = DefaultUtilizationThreshold
	}

	alerts := []Alert{}
	hostnames := make(map[string]string, len(in.Devices))

	for _, d := range in.Devices {
		id := stringField(d, fieldDeviceID)
		host := stringField(d, fieldHostname)
		hostnames[id] = host
		ts, _ := lookup(d, fieldLastUpdated)

		if ReachabilityOf(d) == Unreachable {
			alerts = append(alerts, Alert{
				Severity:  SeverityCritical,
				Source:    AlertSourceDevice,
				DeviceID:  id,
				Hostname:  host,
				Message:   "Device is unreachable",
				Timestamp: ts,
			})
		}

		status := stringField(d, fieldStatus)
		if status != "" && !strings.EqualFold(status, "normal") {
			sev := SeverityInfo
			if strings.Contains(strings.ToLower(status), "warning") {
				sev = SeverityWarning
			}
			alerts = append(alerts, Alert{
				Severity:  sev,
				Source:    AlertSourceDevice,
				DeviceID:  id,
				Hostname:  host,
				Message:   "Device status: " + status,
				Timestamp: ts,
			})
		}
	}

	for _, r := range in.Interfaces {
		value, _, ok := Utilization(r, opts.LinkCapacityMbps)
		if !ok || value < threshold {
			continue
		}
		id := stringField(r, fieldDeviceID)
		alerts = append(alerts, Alert{
			Severity:  SeverityWarning,
			Source:    AlertSourceInterface,
			DeviceID:  id,
			Hostname:  hostnames[id],
			Interface: stringField(r, fieldInterface),
			Message:   fmt.Sprintf("Interface utilization %.2f%% at or above %.2f%%", value, threshold),
		})
	}

	for _, d := range in.BFD {
		for _, s := range d.Sessions {
			if ClassifyBFDState(stringField(s, fieldState)) != BFDStateDown {
				continue
			}
			remote := stringField(s, fieldRemoteAddress)
			msg := "BFD session down"
			if remote != "" {
				msg += " to " + remote
			}
			alerts = append(alerts, Alert{
				Severity:  SeverityCritical,
				Source:    AlertSourceBFD,
				DeviceID:  d.DeviceID,
				Hostname:  hostnames[d.DeviceID],
				Interface: stringField(s, fieldColor),
				Message:   msg,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.rank() < alerts[j].Severity.rank()
	})

	if opts.Severity == "" || opts.Severity == SeverityAll {
		return alerts
	}
	filtered := []Alert{}
	for _, a := range alerts {
		if a.Severity == opts.Severity {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// AlertSummary counts alerts by severity.
type AlertSummary struct {
	SeverityFilter Severity `json:"severity_filter"`
	TotalAlerts    int      `json:"total_alerts"`
	CriticalAlerts int      `json:"critical_alerts"`
	WarningAlerts  int      `json:"warning_alerts"`
	InfoAlerts     int      `json:"info_alerts"`
	Alerts         []Alert  `json:"alerts"`
}

// SummarizeAlerts counts alerts by severity.
func SummarizeAlerts(alerts []Alert, filter Severity) AlertSummary {
	if filter == "" {
		filter = SeverityAll
	}
	summary := AlertSummary{SeverityFilter: filter, TotalAlerts: len(alerts), Alerts: alerts}
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			summary.CriticalAlerts++
		case SeverityWarning:
			summary.WarningAlerts++
		default:
			summary.InfoAlerts++
		}
	}
	return summary
}
