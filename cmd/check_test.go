package cmd

import (
	"bytes"
	"context"
	"testing"

	"sdwan-mcp/internal/controller"
	"sdwan-mcp/internal/testing/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckClient(t *testing.T) (*controller.Client, *mock.Controller) {
	t.Helper()
	stub := mock.NewController()
	t.Cleanup(stub.Close)
	stub.LoadFabric()
	return controller.NewClient(stub.Config()), stub
}

func TestCheckController_Success(t *testing.T) {
	client, stub := newCheckClient(t)

	var out bytes.Buffer
	require.NoError(t, checkController(context.Background(), client, &out, false))

	output := out.String()
	assert.Contains(t, output, "Controller Session")
	assert.Contains(t, output, "Authenticated")
	assert.Contains(t, output, "Fabric Health")
	assert.Contains(t, output, "Devices Requiring Attention")
	assert.Contains(t, output, mock.FabricEdgeBr2)
	assert.NotContains(t, output, "Device counters unavailable")

	assert.Equal(t, 1, stub.Hits(mock.HitLogin))
	assert.Equal(t, 1, stub.Hits(mock.HitLogout), "check must log out")
}

func TestCheckController_AuthFailure(t *testing.T) {
	client, stub := newCheckClient(t)
	stub.SetCredentials("admin", "changed")

	var out bytes.Buffer
	err := checkController(context.Background(), client, &out, false)
	require.Error(t, err)

	authErr, ok := controller.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, controller.AuthStepCredentials, authErr.Step)
	assert.Equal(t, ExitCodeAuthFailed, getExitCode(err))

	assert.Contains(t, out.String(), "Authentication failed")
	assert.Contains(t, out.String(), "Not authenticated")
	assert.Zero(t, stub.Hits("/device"))
	assert.Zero(t, stub.Hits(mock.HitLogout))
}

func TestCheckController_CountersUnavailable(t *testing.T) {
	client, stub := newCheckClient(t)
	stub.SetStatus("/device/counters", 500)

	var out bytes.Buffer
	require.NoError(t, checkController(context.Background(), client, &out, false))
	assert.Contains(t, out.String(), "Fabric Health")
	assert.Contains(t, out.String(), "Device counters unavailable")
}

func TestCheckController_DevicesFail(t *testing.T) {
	stub := mock.NewController()
	t.Cleanup(stub.Close)
	stub.SetStatus("/device", 500)
	client := controller.NewClient(stub.Config())

	var out bytes.Buffer
	err := checkController(context.Background(), client, &out, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch devices")
	assert.Equal(t, ExitCodeError, getExitCode(err))
}

func TestGradeColor(t *testing.T) {
	for _, grade := range []string{"excellent", "good", "fair", "poor", "unknown"} {
		assert.NotEmpty(t, gradeColor(grade).Sprint(grade))
	}
}
