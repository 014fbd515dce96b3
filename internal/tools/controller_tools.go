package tools

import (
	"context"

	"sdwan-mcp/internal/controller"
)

func (p *Provider) handleFabricDevices(ctx context.Context, _ map[string]interface{}) (any, error) {
	return p.client.Devices(ctx)
}

func (p *Provider) handleDeviceMonitor(ctx context.Context, _ map[string]interface{}) (any, error) {
	return p.client.DeviceMonitor(ctx)
}

func (p *Provider) handleDeviceCounters(ctx context.Context, _ map[string]interface{}) (any, error) {
	return p.client.DeviceCounters(ctx)
}

func (p *Provider) handleInterfaceStatistics(ctx context.Context, _ map[string]interface{}) (any, error) {
	return p.client.InterfaceStatistics(ctx)
}

func (p *Provider) handleDeviceConfig(ctx context.Context, args map[string]interface{}) (any, error) {
	id, err := requiredString(args, "device_id")
	if err != nil {
		return nil, err
	}
	return p.client.DeviceConfig(ctx, id)
}

func (p *Provider) handleBFDState(ctx context.Context, args map[string]interface{}) (any, error) {
	id, err := requiredString(args, "device_id")
	if err != nil {
		return nil, err
	}
	return p.client.BFDState(ctx, id)
}

func (p *Provider) handleBFDSessions(ctx context.Context, args map[string]interface{}) (any, error) {
	id, err := requiredString(args, "device_id")
	if err != nil {
		return nil, err
	}
	return p.client.BFDSessions(ctx, id)
}

func (p *Provider) handleTunnelStatistics(ctx context.Context, args map[string]interface{}) (any, error) {
	id, err := requiredString(args, "device_id")
	if err != nil {
		return nil, err
	}
	return p.client.TunnelStatistics(ctx, id)
}

// handleAuthenticate logs in with the given credentials. A missing username
// or password is taken from the configured credentials.
func (p *Provider) handleAuthenticate(ctx context.Context, args map[string]interface{}) (any, error) {
	username, err := optionalString(args, "username", "")
	if err != nil {
		return nil, err
	}
	password, err := optionalString(args, "password", "")
	if err != nil {
		return nil, err
	}

	sessions := p.client.Sessions()
	if username == "" && password == "" {
		if _, err := sessions.Authenticate(ctx); err != nil {
			return nil, err
		}
	} else {
		creds := sessions.Credentials()
		if username != "" {
			creds.Username = username
		}
		if password != "" {
			creds.Password = password
		}
		if _, err := sessions.AuthenticateWith(ctx, creds); err != nil {
			return nil, err
		}
	}

	return authenticateResult{Message: "Authentication successful", SessionStatus: sessions.Status()}, nil
}

type authenticateResult struct {
	Message string `json:"message"`
	controller.SessionStatus
}

func (p *Provider) handleSessionStatus(_ context.Context, _ map[string]interface{}) (any, error) {
	return p.client.Sessions().Status(), nil
}
