package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <node>...",
		Short: "Compare egress IP rule state across nodes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			result := app.analysis.CompareNodes(context.Background(), args)
			if result.Status == analysis.StatusError {
				return fmt.Errorf("comparison failed: %s", result.Error)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			t := NewTable("NODE", "STATUS", "SNAT", "LRP", "MISSING IPS")
			for _, node := range result.Nodes {
				report := result.Reports[node]
				missing := result.Comparison.PerNodeMissing[node]
				t.AddRow(node,
					formatStatus(report.Status),
					strconv.Itoa(report.NATRuleCount),
					strconv.Itoa(report.PolicyRuleCount),
					truncate(strings.Join(missing, ","), 40))
			}
			t.Render()

			if result.Comparison.Consistent {
				fmt.Println("\nRule state is consistent across nodes")
			} else {
				fmt.Printf("\n%d inconsistencies detected:\n", len(result.Comparison.Inconsistencies))
				for _, inc := range result.Comparison.Inconsistencies {
					fmt.Printf("  - [%s] %s\n", inc.Type, inc.Description)
				}
			}

			fmt.Println("\nRecommendations:")
			for _, rec := range result.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
			return nil
		},
	}
	return cmd
}
