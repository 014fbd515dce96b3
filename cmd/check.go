package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"sdwan-mcp/internal/analytics"
	"sdwan-mcp/internal/controller"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var checkQuiet bool

// checkCmd authenticates once and prints the session and fabric health.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify controller connectivity and print a health summary",
	Long: `Authenticates against the configured controller, prints the session
status and a device health summary, then logs out.

Exit codes:
  0  controller reachable and authenticated
  2  configuration invalid
  3  authentication failed`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 4*cfg.RequestTimeoutDuration())
	defer cancel()

	return checkController(ctx, client, cmd.OutOrStdout(), !checkQuiet)
}

// checkController runs the check against client and renders the result to out.
func checkController(ctx context.Context, client *controller.Client, out io.Writer, showSpinner bool) error {
	sessions := client.Sessions()
	defer func() {
		if err := sessions.Logout(context.Background()); err != nil {
			fmt.Fprintf(out, "%s %v\n", text.FgYellow.Sprint("Logout failed:"), err)
		}
	}()

	var s *spinner.Spinner
	if showSpinner {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Authenticating with " + client.BaseURL() + "..."
		s.Start()
	}
	stopSpinner := func() {
		if s != nil {
			s.Stop()
		}
	}

	if _, err := sessions.Authenticate(ctx); err != nil {
		stopSpinner()
		fmt.Fprintf(out, "%s\n", text.FgRed.Sprint("Authentication failed"))
		renderSessionStatus(out, sessions.Status())
		return err
	}

	if s != nil {
		s.Suffix = " Collecting device inventory..."
	}
	devices, err := client.Devices(ctx)
	if err != nil {
		stopSpinner()
		renderSessionStatus(out, sessions.Status())
		return fmt.Errorf("failed to fetch devices: %w", err)
	}
	counters, counterErr := client.DeviceCounters(ctx)
	stopSpinner()

	renderSessionStatus(out, sessions.Status())
	summary := analytics.Summarize(devices, counters)
	renderHealthSummary(out, summary)
	if counterErr != nil {
		fmt.Fprintf(out, "%s %v\n", text.FgYellow.Sprint("Device counters unavailable:"), counterErr)
	}
	return nil
}

func renderSessionStatus(out io.Writer, status controller.SessionStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Controller Session")

	state := text.FgRed.Sprint("Not authenticated")
	if status.Authenticated {
		state = text.FgGreen.Sprint("Authenticated")
	}
	t.AppendRow(table.Row{"Controller", status.BaseURL})
	t.AppendRow(table.Row{"User", status.Username})
	t.AppendRow(table.Row{"Status", state})
	if status.SessionID != "" {
		t.AppendRow(table.Row{"Session", status.SessionID})
	}
	if status.ExpiresAt != nil {
		t.AppendRow(table.Row{"Expires", status.ExpiresAt.Format(time.RFC3339)})
	}
	if status.LastError != "" {
		t.AppendRow(table.Row{"Last error", status.LastError})
	}
	t.Render()
}

func renderHealthSummary(out io.Writer, summary analytics.HealthSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Fabric Health")
	t.AppendHeader(table.Row{"Devices", "Up", "Down", "Unknown", "Up %", "Health"})
	t.AppendRow(table.Row{
		summary.TotalDevices,
		summary.DevicesUp,
		summary.DevicesDown,
		summary.DevicesUnknown,
		fmt.Sprintf("%.2f", summary.UpPercentage),
		gradeColor(summary.OverallHealth).Sprint(summary.OverallHealth),
	})
	t.Render()

	if len(summary.RequireAttention) == 0 {
		return
	}

	attention := table.NewWriter()
	attention.SetOutputMirror(out)
	attention.SetStyle(table.StyleRounded)
	attention.SetTitle("Devices Requiring Attention")
	attention.AppendHeader(table.Row{"Device", "Hostname", "Type", "Reachability", "Status"})
	for _, d := range summary.RequireAttention {
		attention.AppendRow(table.Row{d.DeviceID, d.Hostname, d.DeviceType, d.Reachability, d.Status})
	}
	attention.Render()
}

func gradeColor(grade string) *color.Color {
	switch grade {
	case analytics.GradeExcellent:
		return color.New(color.FgGreen, color.Bold)
	case analytics.GradeGood:
		return color.New(color.FgGreen)
	case analytics.GradeFair:
		return color.New(color.FgYellow)
	case analytics.GradePoor:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgHiBlack)
	}
}

func init() {
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Do not show a progress spinner")
}
