package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sdwan-mcp/internal/api"
)

// Data endpoint paths relative to the API prefix.
const (
	PathDevices             = "/device"
	PathDeviceMonitor       = "/device/monitor"
	PathDeviceCounters      = "/device/counters"
	PathInterfaceStatistics = "/statistics/interface"
	PathDeviceConfig        = "/device/config"
	PathBFDState            = "/device/bfd/state/device"
	PathBFDSessions         = "/device/bfd/sessions"
	PathTunnelStatistics    = "/device/tunnel/statistics"
)

// deviceIDParam is the query parameter the device-scoped endpoints expect.
const deviceIDParam = "deviceId"

// FetchData performs a GET under the API prefix and unwraps the controller's
// {"data": ...} envelope.
func (c *Client) FetchData(ctx context.Context, path string, params url.Values) (any, error) {
	fullPath := c.apiPrefix + path
	result, err := c.Call(ctx, http.MethodGet, fullPath, params, nil)
	if err != nil {
		return nil, err
	}

	envelope, ok := result.(map[string]any)
	if !ok {
		return nil, &RequestError{Cause: CauseParse, Method: http.MethodGet, Path: fullPath, Err: fmt.Errorf("expected a JSON object, got %T", result)}
	}
	data, ok := envelope["data"]
	if !ok {
		return nil, &RequestError{Cause: CauseParse, Method: http.MethodGet, Path: fullPath, Err: fmt.Errorf("key 'data' not found in response")}
	}
	return data, nil
}

// FetchRecords is FetchData for endpoints whose data is a list of objects.
// A single object is returned as a one-element list.
func (c *Client) FetchRecords(ctx context.Context, path string, params url.Values) ([]map[string]any, error) {
	data, err := c.FetchData(ctx, path, params)
	if err != nil {
		return nil, err
	}
	records, err := toRecords(data)
	if err != nil {
		return nil, &RequestError{Cause: CauseParse, Method: http.MethodGet, Path: c.apiPrefix + path, Err: err}
	}
	return records, nil
}

func toRecords(data any) ([]map[string]any, error) {
	switch v := data.(type) {
	case nil:
		return []map[string]any{}, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		records := make([]map[string]any, 0, len(v))
		for i, item := range v {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("data[%d]: expected an object, got %T", i, item)
			}
			records = append(records, record)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("expected a list of objects, got %T", data)
	}
}

// Devices lists the fabric devices.
func (c *Client) Devices(ctx context.Context) ([]map[string]any, error) {
	return c.FetchRecords(ctx, PathDevices, nil)
}

// DeviceMonitor returns device monitoring records.
func (c *Client) DeviceMonitor(ctx context.Context) ([]map[string]any, error) {
	return c.FetchRecords(ctx, PathDeviceMonitor, nil)
}

// DeviceCounters returns per-device counters (BFD, OMP, crashes, reboots).
func (c *Client) DeviceCounters(ctx context.Context) ([]map[string]any, error) {
	return c.FetchRecords(ctx, PathDeviceCounters, nil)
}

// InterfaceStatistics returns interface statistics for all devices.
func (c *Client) InterfaceStatistics(ctx context.Context) ([]map[string]any, error) {
	return c.FetchRecords(ctx, PathInterfaceStatistics, nil)
}

// DeviceConfig returns the configuration of one device. The shape of the
// data differs between controller versions, so it is returned as is.
func (c *Client) DeviceConfig(ctx context.Context, deviceID string) (any, error) {
	params, err := deviceParams(deviceID)
	if err != nil {
		return nil, err
	}
	return c.FetchData(ctx, PathDeviceConfig, params)
}

// BFDState returns the BFD state of one device.
func (c *Client) BFDState(ctx context.Context, deviceID string) ([]map[string]any, error) {
	params, err := deviceParams(deviceID)
	if err != nil {
		return nil, err
	}
	return c.FetchRecords(ctx, PathBFDState, params)
}

// BFDSessions returns the BFD sessions of one device.
func (c *Client) BFDSessions(ctx context.Context, deviceID string) ([]map[string]any, error) {
	params, err := deviceParams(deviceID)
	if err != nil {
		return nil, err
	}
	return c.FetchRecords(ctx, PathBFDSessions, params)
}

// TunnelStatistics returns tunnel statistics of one device.
func (c *Client) TunnelStatistics(ctx context.Context, deviceID string) ([]map[string]any, error) {
	params, err := deviceParams(deviceID)
	if err != nil {
		return nil, err
	}
	return c.FetchRecords(ctx, PathTunnelStatistics, params)
}

func deviceParams(deviceID string) (url.Values, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, api.NewRequiredError("device_id")
	}
	return url.Values{deviceIDParam: {deviceID}}, nil
}
