package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ovn-tools/egresswatch/internal/repository/sqlite"
)

func newSummaryCmd() *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize stored metrics over a recent window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireStore(); err != nil {
				return err
			}

			store := sqlite.NewMetricRepository(app.db)
			summary, err := store.Summary(context.Background(), hours)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(summary)
			}

			fmt.Printf("Window: last %dh\n\n", summary.WindowHours)

			t := NewTable("METRIC", "VALUE")
			t.AddRow("status records", strconv.Itoa(summary.StatusRecords))
			t.AddRow("unique egress IPs", strconv.Itoa(summary.UniqueEgressIPs))
			t.AddRow("rule metric records", strconv.Itoa(summary.RuleRecords))
			t.AddRow("unique nodes", strconv.Itoa(summary.UniqueNodes))
			t.AddRow("avg snat rules", fmt.Sprintf("%.1f", summary.AvgNATRules))
			t.AddRow("avg lrp rules", fmt.Sprintf("%.1f", summary.AvgPolicyRules))
			t.AddRow("avg consistency", fmt.Sprintf("%.2f", summary.AvgConsistency))
			t.AddRow("tests run", strconv.Itoa(summary.TestsRun))
			t.AddRow("tests passed", strconv.Itoa(summary.TestsPassed))
			t.AddRow("network records", strconv.Itoa(summary.NetworkRecords))
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 24, "window size in hours")
	return cmd
}
