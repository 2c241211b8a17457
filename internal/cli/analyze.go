package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <node>",
		Short: "Analyze one node's egress IP rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			result := app.analysis.AnalyzeNode(context.Background(), args[0])
			if result.Status == analysis.StatusError {
				return fmt.Errorf("analysis of %s failed: %s", result.Node, result.Error)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			renderAnalysis(result)
			return nil
		},
	}
	return cmd
}

func renderAnalysis(result *analysis.NodeAnalysis) {
	fmt.Printf("Node: %s\n\n", result.Node)

	t := NewTable("KIND", "TOTAL", "PARSED", "EGRESSIP", "ISSUES")
	t.AddRow("snat",
		strconv.Itoa(result.Analysis.NAT.TotalRules),
		strconv.Itoa(result.Analysis.NAT.Parsed),
		strconv.Itoa(result.Analysis.NAT.Relevant),
		strconv.Itoa(len(result.Analysis.NAT.Issues)))
	t.AddRow("lrp",
		strconv.Itoa(result.Analysis.Policy.TotalRules),
		strconv.Itoa(result.Analysis.Policy.Parsed),
		strconv.Itoa(result.Analysis.Policy.Relevant),
		strconv.Itoa(len(result.Analysis.Policy.Issues)))
	t.Render()

	corr := result.Analysis.Correlation
	fmt.Printf("\nConsistency: %s (score %s)\n",
		formatStatus(corr.Label), formatScore(corr.Determined, corr.Score))

	if result.Validation.Possible {
		fmt.Printf("Validation: declared=%d observed=%d missing=%d unexpected=%d\n",
			result.Validation.Declared, result.Validation.Observed,
			len(result.Validation.Missing), len(result.Validation.Unexpected))
	} else {
		fmt.Printf("Validation: not possible (%s)\n", result.Validation.Error)
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range result.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
