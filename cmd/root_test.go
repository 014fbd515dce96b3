package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"sdwan-mcp/internal/config"
	"sdwan-mcp/internal/controller"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "sdwan-mcp", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "check", "tools", "console", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "sdwan-mcp version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())

	assert.Equal(t, "sdwan-mcp version 1.0.0\n", buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitCodeSuccess},
		{name: "generic", err: errors.New("boom"), want: ExitCodeError},
		{
			name: "auth error",
			err:  &controller.AuthError{Step: controller.AuthStepCredentials},
			want: ExitCodeAuthFailed,
		},
		{
			name: "wrapped auth error",
			err:  fmt.Errorf("check: %w", &controller.AuthError{Step: controller.AuthStepTokenFetch}),
			want: ExitCodeAuthFailed,
		},
		{
			name: "request failed on auth",
			err:  &controller.RequestError{Cause: controller.CauseAuth, Err: errors.New("login")},
			want: ExitCodeAuthFailed,
		},
		{
			name: "request failed on http",
			err:  &controller.RequestError{Cause: controller.CauseHTTP, Status: 500},
			want: ExitCodeError,
		},
		{
			name: "config validation errors",
			err:  config.ValidationErrors{{Field: "baseURL", Message: "is required"}},
			want: ExitCodeConfig,
		},
		{
			name: "single config validation error",
			err:  fmt.Errorf("load: %w", config.ValidationError{Field: "server.transport", Message: "must be one of"}),
			want: ExitCodeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
