package tools

import (
	"context"
	"fmt"
	"time"

	"sdwan-mcp/internal/analytics"
	"sdwan-mcp/internal/api"
	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/controller"
	"sdwan-mcp/pkg/logging"

	"github.com/google/uuid"
)

type handlerFunc func(ctx context.Context, args map[string]interface{}) (any, error)

type tool struct {
	meta    api.ToolMetadata
	handler handlerFunc
}

// Provider serves the SD-WAN tools.
type Provider struct {
	client    *controller.Client
	analytics config.AnalyticsConfig
	now       func() time.Time
	newID     func() string

	tools []tool
	index map[string]handlerFunc
}

// NewProvider creates the tool provider on top of a controller client.
func NewProvider(client *controller.Client, cfg *config.Config) *Provider {
	p := &Provider{
		client:    client,
		analytics: cfg.Analytics,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	p.tools = p.definitions()
	p.index = make(map[string]handlerFunc, len(p.tools))
	for _, t := range p.tools {
		p.index[t.meta.Name] = t.handler
	}
	return p
}

// GetTools returns metadata for all tools this provider offers.
func (p *Provider) GetTools() []api.ToolMetadata {
	metas := make([]api.ToolMetadata, 0, len(p.tools))
	for _, t := range p.tools {
		metas = append(metas, t.meta)
	}
	return metas
}

// ExecuteTool runs a tool by name. Tool failures are returned as an error
// envelope with IsError set; only an unknown name is a Go error.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	handler, ok := p.index[toolName]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	start := p.now()
	data, err := handler(ctx, args)
	if err != nil {
		logging.Warn("Tools", "Tool %s failed after %s: %v", toolName, p.now().Sub(start).Round(time.Millisecond), err)
		return errorResult(toolName, err), nil
	}

	logging.Debug("Tools", "Tool %s completed in %s", toolName, p.now().Sub(start).Round(time.Millisecond))
	return successResult(toolName, data), nil
}

func deviceIDArg() api.ArgMetadata {
	return api.ArgMetadata{
		Name:        "device_id",
		Type:        "string",
		Required:    true,
		Description: "Device ID, the device's system IP (e.g., 10.10.1.11)",
	}
}

func (p *Provider) definitions() []tool {
	metrics := make([]string, 0, len(analytics.Metrics))
	for _, m := range analytics.Metrics {
		metrics = append(metrics, string(m))
	}

	return []tool{
		{
			meta:    api.ToolMetadata{Name: "get_fabric_devices", Description: "Get list of all fabric devices"},
			handler: p.handleFabricDevices,
		},
		{
			meta:    api.ToolMetadata{Name: "get_device_monitor", Description: "Get device monitoring information"},
			handler: p.handleDeviceMonitor,
		},
		{
			meta:    api.ToolMetadata{Name: "get_device_counters", Description: "Get device counters and statistics"},
			handler: p.handleDeviceCounters,
		},
		{
			meta:    api.ToolMetadata{Name: "get_interface_statistics", Description: "Get interface statistics for all devices"},
			handler: p.handleInterfaceStatistics,
		},
		{
			meta:    api.ToolMetadata{Name: "get_device_config", Description: "Get device configuration", Args: []api.ArgMetadata{deviceIDArg()}},
			handler: p.handleDeviceConfig,
		},
		{
			meta:    api.ToolMetadata{Name: "get_bfd_state", Description: "Get BFD (Bidirectional Forwarding Detection) state for a device", Args: []api.ArgMetadata{deviceIDArg()}},
			handler: p.handleBFDState,
		},
		{
			meta:    api.ToolMetadata{Name: "get_bfd_sessions", Description: "Get BFD sessions for a device", Args: []api.ArgMetadata{deviceIDArg()}},
			handler: p.handleBFDSessions,
		},
		{
			meta:    api.ToolMetadata{Name: "get_tunnel_statistics", Description: "Get tunnel statistics for a device", Args: []api.ArgMetadata{deviceIDArg()}},
			handler: p.handleTunnelStatistics,
		},
		{
			meta:    api.ToolMetadata{Name: "get_device_health_summary", Description: "Get comprehensive health summary across all devices"},
			handler: p.handleHealthSummary,
		},
		{
			meta: api.ToolMetadata{
				Name:        "filter_devices_by_status",
				Description: "Filter devices by operational status",
				Args: []api.ArgMetadata{{
					Name:        "status",
					Type:        "string",
					Required:    true,
					Description: "Device status to filter by: 'up' and 'down' match reachability, other values (e.g., 'normal', 'warning') match the device status",
				}},
			},
			handler: p.handleFilterDevices,
		},
		{
			meta: api.ToolMetadata{
				Name:        "get_top_interfaces_by_traffic",
				Description: "Get top interfaces ranked by traffic utilization",
				Args: []api.ArgMetadata{
					{Name: "limit", Type: "integer", Description: "Number of top interfaces to return (default: 10)", Default: defaultTopLimit},
					{Name: "metric", Type: "string", Description: "Traffic metric to sort by", Default: metrics[0], Enum: metrics},
				},
			},
			handler: p.handleTopInterfaces,
		},
		{
			meta: api.ToolMetadata{
				Name:        "check_bfd_session_health",
				Description: "Monitor BFD session health across all devices",
				Args: []api.ArgMetadata{
					{Name: "include_details", Type: "boolean", Description: "Include detailed session information", Default: false},
				},
			},
			handler: p.handleBFDHealth,
		},
		{
			meta: api.ToolMetadata{
				Name:        "generate_network_report",
				Description: "Generate comprehensive network status report",
				Args: []api.ArgMetadata{
					{Name: "include_interfaces", Type: "boolean", Description: "Include interface statistics in report", Default: true},
					{Name: "include_bfd", Type: "boolean", Description: "Include BFD session information", Default: true},
					{Name: "include_tunnels", Type: "boolean", Description: "Include tunnel statistics", Default: true},
				},
			},
			handler: p.handleNetworkReport,
		},
		{
			meta: api.ToolMetadata{
				Name:        "get_device_alerts",
				Description: "Get alerts and warnings for devices",
				Args: []api.ArgMetadata{
					{Name: "severity", Type: "string", Description: "Alert severity level", Default: "all", Enum: []string{"critical", "warning", "info", "all"}},
					{Name: "threshold", Type: "number", Description: "Interface utilization percentage that raises a warning", Default: p.analytics.UtilizationThreshold},
				},
			},
			handler: p.handleDeviceAlerts,
		},
		{
			meta: api.ToolMetadata{
				Name:        "monitor_interface_utilization",
				Description: "Monitor interface utilization and identify high-usage interfaces",
				Args: []api.ArgMetadata{
					{Name: "threshold", Type: "number", Description: "Utilization threshold percentage (0-100)", Default: p.analytics.UtilizationThreshold},
				},
			},
			handler: p.handleUtilization,
		},
		{
			meta:    api.ToolMetadata{Name: "get_network_topology", Description: "Get network topology information based on device connections"},
			handler: p.handleTopology,
		},
		{
			meta: api.ToolMetadata{
				Name:        "authenticate",
				Description: "Authenticate with the SD-WAN controller (uses the configured credentials when none are given)",
				Args: []api.ArgMetadata{
					{Name: "username", Type: "string", Description: "Username for authentication (optional)"},
					{Name: "password", Type: "string", Description: "Password for authentication (optional)"},
				},
			},
			handler: p.handleAuthenticate,
		},
		{
			meta:    api.ToolMetadata{Name: "get_session_status", Description: "Get current session status"},
			handler: p.handleSessionStatus,
		},
	}
}
