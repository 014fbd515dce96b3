package tools

import (
	"context"
	"fmt"

	"sdwan-mcp/internal/analytics"
)

const defaultTopLimit = 10

type deviceFetch func(ctx context.Context, deviceID string) ([]map[string]any, error)

// perDevice fetches for every device with an id, one device at a time in
// inventory order. A failing device is recorded in its result and does not
// stop the others.
func (p *Provider) perDevice(ctx context.Context, devices []analytics.Record, fetch deviceFetch) []analytics.DeviceSessions {
	var results []analytics.DeviceSessions
	for _, d := range devices {
		id := analytics.DeviceID(d)
		if id == "" {
			continue
		}
		records, err := fetch(ctx, id)
		results = append(results, analytics.DeviceSessions{DeviceID: id, Sessions: records, Err: err})
	}
	return results
}

func warning(section string, err error) string {
	return fmt.Sprintf("%s unavailable: %v", section, err)
}

type healthResult struct {
	analytics.HealthSummary
	Warnings []string `json:"warnings,omitempty"`
}

func (p *Provider) handleHealthSummary(ctx context.Context, _ map[string]interface{}) (any, error) {
	devices, err := p.client.Devices(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []string
	counters, err := p.client.DeviceCounters(ctx)
	if err != nil {
		warnings = append(warnings, warning("device counters", err))
		counters = nil
	}

	return healthResult{HealthSummary: analytics.Summarize(devices, counters), Warnings: warnings}, nil
}

type filterResult struct {
	FilterCriteria string             `json:"filter_criteria"`
	TotalDevices   int                `json:"total_devices"`
	FilteredCount  int                `json:"filtered_count"`
	Devices        []analytics.Record `json:"devices"`
}

func (p *Provider) handleFilterDevices(ctx context.Context, args map[string]interface{}) (any, error) {
	status, err := requiredString(args, "status")
	if err != nil {
		return nil, err
	}

	devices, err := p.client.Devices(ctx)
	if err != nil {
		return nil, err
	}

	filtered := analytics.FilterByStatus(devices, status)
	return filterResult{
		FilterCriteria: status,
		TotalDevices:   len(devices),
		FilteredCount:  len(filtered),
		Devices:        filtered,
	}, nil
}

type topInterfacesResult struct {
	Metric          analytics.Metric             `json:"metric"`
	Limit           int                          `json:"limit"`
	TotalInterfaces int                          `json:"total_interfaces"`
	TopInterfaces   []analytics.InterfaceTraffic `json:"top_interfaces"`
}

func (p *Provider) handleTopInterfaces(ctx context.Context, args map[string]interface{}) (any, error) {
	limit, err := optionalInt(args, "limit", defaultTopLimit)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}
	metricName, err := optionalString(args, "metric", "")
	if err != nil {
		return nil, err
	}
	metric, err := analytics.ParseMetric(metricName)
	if err != nil {
		return nil, invalid("metric", err.Error())
	}

	interfaces, err := p.client.InterfaceStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return topInterfacesResult{
		Metric:          metric,
		Limit:           limit,
		TotalInterfaces: len(interfaces),
		TopInterfaces:   analytics.TopInterfaces(interfaces, metric, limit),
	}, nil
}

func (p *Provider) handleBFDHealth(ctx context.Context, args map[string]interface{}) (any, error) {
	includeDetails, err := optionalBool(args, "include_details", false)
	if err != nil {
		return nil, err
	}

	devices, err := p.client.Devices(ctx)
	if err != nil {
		return nil, err
	}

	sessions := p.perDevice(ctx, devices, p.client.BFDSessions)
	return analytics.BFDHealth(sessions, includeDetails), nil
}

type alertsResult struct {
	analytics.AlertSummary
	ThresholdPercent float64  `json:"threshold_percent"`
	Warnings         []string `json:"warnings,omitempty"`
}

func (p *Provider) handleDeviceAlerts(ctx context.Context, args map[string]interface{}) (any, error) {
	severityName, err := optionalString(args, "severity", string(analytics.SeverityAll))
	if err != nil {
		return nil, err
	}
	severity, err := analytics.ParseSeverity(severityName)
	if err != nil {
		return nil, invalid("severity", err.Error())
	}
	threshold, err := p.thresholdArg(args)
	if err != nil {
		return nil, err
	}

	devices, err := p.client.Devices(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []string
	interfaces, err := p.client.InterfaceStatistics(ctx)
	if err != nil {
		warnings = append(warnings, warning("interface statistics", err))
		interfaces = nil
	}

	bfd := p.perDevice(ctx, devices, p.client.BFDSessions)
	for _, d := range bfd {
		if d.Err != nil {
			warnings = append(warnings, warning("BFD sessions of "+d.DeviceID, d.Err))
		}
	}

	alerts := analytics.GenerateAlerts(analytics.AlertInput{
		Devices:    devices,
		Interfaces: interfaces,
		BFD:        bfd,
	}, analytics.AlertOptions{
		Severity:             severity,
		UtilizationThreshold: threshold,
		LinkCapacityMbps:     p.analytics.LinkCapacityMbps,
	})

	return alertsResult{
		AlertSummary:     analytics.SummarizeAlerts(alerts, severity),
		ThresholdPercent: threshold,
		Warnings:         warnings,
	}, nil
}

func (p *Provider) thresholdArg(args map[string]interface{}) (float64, error) {
	def := p.analytics.UtilizationThreshold
	if def <= 0 {
		def = analytics.DefaultUtilizationThreshold
	}
	threshold, err := optionalFloat(args, "threshold", def)
	if err != nil {
		return 0, err
	}
	if threshold < 0 || threshold > 100 {
		return 0, invalid("threshold", "must be between 0 and 100")
	}
	return threshold, nil
}

func (p *Provider) handleUtilization(ctx context.Context, args map[string]interface{}) (any, error) {
	threshold, err := p.thresholdArg(args)
	if err != nil {
		return nil, err
	}

	interfaces, err := p.client.InterfaceStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return analytics.MonitorUtilization(interfaces, threshold, p.analytics.LinkCapacityMbps), nil
}

type topologyResult struct {
	analytics.Topology
	Warnings []string `json:"warnings,omitempty"`
}

func (p *Provider) handleTopology(ctx context.Context, _ map[string]interface{}) (any, error) {
	devices, err := p.client.Devices(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []string
	interfaces, err := p.client.InterfaceStatistics(ctx)
	if err != nil {
		warnings = append(warnings, warning("interface statistics", err))
		interfaces = nil
	}

	return topologyResult{Topology: analytics.BuildTopology(devices, interfaces), Warnings: warnings}, nil
}

// handleNetworkReport collects every section it can. A failed fetch is noted
// in the report's failures and never aborts the report.
func (p *Provider) handleNetworkReport(ctx context.Context, args map[string]interface{}) (any, error) {
	includeInterfaces, err := optionalBool(args, "include_interfaces", true)
	if err != nil {
		return nil, err
	}
	includeBFD, err := optionalBool(args, "include_bfd", true)
	if err != nil {
		return nil, err
	}
	includeTunnels, err := optionalBool(args, "include_tunnels", true)
	if err != nil {
		return nil, err
	}

	builder := analytics.NewReportBuilder(p.newID(), p.now().UTC(), p.analytics.ErrorThreshold)

	devices, devicesErr := p.client.Devices(ctx)
	if devicesErr != nil {
		builder.Fail(analytics.SectionOverview, devicesErr).Fail(analytics.SectionDevices, devicesErr)
	} else {
		counters, err := p.client.DeviceCounters(ctx)
		if err != nil {
			builder.Fail(analytics.SectionOverview+".counters", err)
			counters = nil
		}
		builder.WithDevices(devices, counters)
	}

	var interfaces []analytics.Record
	if includeInterfaces {
		interfaces, err = p.client.InterfaceStatistics(ctx)
		if err != nil {
			builder.Fail(analytics.SectionInterfaces, err)
			interfaces = nil
		} else {
			builder.WithInterfaces(interfaces)
		}
	}

	var bfd []analytics.DeviceSessions
	if includeBFD {
		if devicesErr != nil {
			builder.Fail(analytics.SectionBFD, devicesErr)
		} else {
			bfd = p.perDevice(ctx, devices, p.client.BFDSessions)
			builder.WithBFD(analytics.BFDHealth(bfd, false))
		}
	}

	if includeTunnels {
		if devicesErr != nil {
			builder.Fail(analytics.SectionTunnels, devicesErr)
		} else {
			builder.WithTunnels(p.perDevice(ctx, devices, p.client.TunnelStatistics))
		}
	}

	if devicesErr == nil {
		builder.WithAlerts(analytics.GenerateAlerts(analytics.AlertInput{
			Devices:    devices,
			Interfaces: interfaces,
			BFD:        bfd,
		}, analytics.AlertOptions{
			UtilizationThreshold: p.analytics.UtilizationThreshold,
			LinkCapacityMbps:     p.analytics.LinkCapacityMbps,
		}))
	} else {
		builder.Fail(analytics.SectionAlerts, devicesErr)
	}

	return builder.Build(), nil
}
