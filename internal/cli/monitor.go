package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

func newMonitorCmd() *cobra.Command {
	var duration, interval time.Duration

	cmd := &cobra.Command{
		Use:   "monitor <node>",
		Short: "Monitor one node's egress IP rules for changes",
		Long: `Monitor samples a node's OVN rule state at a fixed interval for a
bounded window and reports every detected change plus an overall
stability assessment. Interrupting with Ctrl-C yields a partial report
over the snapshots taken so far.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if duration == 0 {
				duration = app.cfg.Monitor.Duration
			}
			if interval == 0 {
				interval = app.cfg.Monitor.Interval
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result := app.monitor.Monitor(ctx, args[0], duration, interval)
			if result.Status == analysis.StatusError {
				return fmt.Errorf("monitoring of %s failed: %s", result.Node, result.Error)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			fmt.Printf("Node: %s  Session: %s\n\n", result.Node, result.SessionID)

			t := NewTable("TIME", "SNAT", "LRP", "EGRESSIP SNAT", "EGRESSIP LRP")
			for _, snap := range result.Snapshots {
				t.AddRow(snap.Timestamp.Format("15:04:05"),
					strconv.Itoa(snap.NATCount),
					strconv.Itoa(snap.PolicyCount),
					strconv.Itoa(snap.RelevantNATCount),
					strconv.Itoa(snap.RelevantPolicyCount))
			}
			t.Render()

			fmt.Printf("\nChange events: %d\n", len(result.Changes))
			fmt.Printf("Stability: %s (%s confidence) - %s\n",
				formatStatus(result.Assessment.Stability),
				result.Assessment.Confidence,
				result.Assessment.Assessment)
			if result.Interrupted {
				fmt.Println("Session was interrupted; results are partial")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "monitoring window (default from MONITOR_DURATION)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "snapshot interval (default from MONITOR_INTERVAL)")
	return cmd
}
