package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportBuilder_Healthy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	devices := []Record{
		{"deviceId": "1", "reachability": "reachable", "device-type": "vedge", "version": "20.9.1"},
		{"deviceId": "2", "reachability": "reachable", "device-type": "vedge", "version": "20.12.2"},
	}

	report := NewReportBuilder("r-1", now, 0).
		WithDevices(devices, nil).
		WithInterfaces([]Record{{"if-admin-status": "up", "rx_errors": 100.0}}).
		WithTunnels([]DeviceSessions{{DeviceID: "1", Sessions: []Record{{"state": "UP"}}}}).
		Build()

	assert.Equal(t, "r-1", report.ReportID)
	assert.Equal(t, now, report.GeneratedAt)
	require.NotNil(t, report.DeviceSummary)
	assert.Equal(t, map[string]int{"vedge": 2}, report.DeviceSummary.DeviceTypes)
	assert.Equal(t, map[string]int{"20.9.1": 1, "20.12.2": 1}, report.DeviceSummary.SoftwareVersions)
	assert.Equal(t, &InterfaceSummary{TotalInterfaces: 1, ActiveInterfaces: 1}, report.InterfaceSummary)
	assert.Equal(t, 1, report.TunnelSummary.ActiveTunnels)
	assert.Nil(t, report.BFDSummary)
	assert.Empty(t, report.Failures)
	assert.Equal(t, []string{"Network appears to be operating normally"}, report.Recommendations)
}

func TestReportBuilder_ProblemsAndFailures(t *testing.T) {
	devices := []Record{
		{"deviceId": "1", "reachability": "unreachable"},
		{"deviceId": "2", "reachability": "reachable"},
	}

	report := NewReportBuilder("r-2", time.Now(), 100).
		WithDevices(devices, nil).
		WithInterfaces([]Record{
			{"if-admin-status": "up", "tx_errors": 101.0},
			{"if-admin-status": "down", "if-oper-status": "down"},
		}).
		WithBFD(BFDHealth([]DeviceSessions{{DeviceID: "2", Sessions: []Record{{"state": "down"}}}}, false)).
		WithTunnels([]DeviceSessions{
			{DeviceID: "2", Sessions: []Record{{"state": "up"}, {"state": "down"}}},
			{DeviceID: "1", Err: errors.New("request timed out")},
		}).
		WithAlerts([]Alert{{Severity: SeverityCritical}, {Severity: SeverityInfo}}).
		Fail(SectionAlerts, errors.New("network error")).
		Build()

	assert.Equal(t, 1, report.InterfaceSummary.HighErrorInterfaces)
	assert.Equal(t, 1, report.InterfaceSummary.OperDownInterfaces)
	assert.Equal(t, 2, report.TunnelSummary.DevicesChecked)
	assert.Len(t, report.TunnelSummary.FailedDevices, 1)
	assert.Equal(t, &AlertCounts{Total: 2, Critical: 1, Info: 1}, report.Alerts)
	assert.Equal(t, []SectionFailure{{Section: SectionAlerts, Error: "network error"}}, report.Failures)
	assert.Equal(t, []string{
		"Some devices are unreachable - check network connectivity",
		"Some interfaces have high error rates - investigate potential issues",
		"Some BFD sessions are inactive - verify network paths",
		"Some tunnels are not up - check transport links",
		"Critical alerts are open - review get_device_alerts",
		"Some report sections could not be collected - see failures",
	}, report.Recommendations)
}
