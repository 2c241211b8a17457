package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ovn-tools/egresswatch/internal/domain/trend"
)

func newTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Analyze metric trends",
	}

	cmd.AddCommand(newTrendAnalyzeCmd())
	cmd.AddCommand(newTrendListCmd())
	return cmd
}

func newTrendAnalyzeCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analyze <metric-type>",
		Short: "Compute and store the trend of one metric type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireStore(); err != nil {
				return err
			}

			result, err := app.trends.AnalyzeTrend(context.Background(), args[0], days)
			if err != nil && result == nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			fmt.Printf("Metric: %s  Window: %dd  Points: %d\n",
				result.MetricType, result.PeriodDays, result.DataPoints)
			fmt.Printf("Direction: %s  Confidence: %.2f\n\n",
				result.Direction, result.Confidence)

			if len(result.Fields) > 0 {
				t := NewTable("FIELD", "DIRECTION", "LATEST")
				for _, f := range result.Fields {
					t.AddRow(f.Field, f.Direction, fmt.Sprintf("%.2f", f.Latest))
				}
				t.Render()
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "analysis window in days")
	return cmd
}

func newTrendListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <metric-type>",
		Short: "List stored trend analyses, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireStore(); err != nil {
				return err
			}

			analyses, err := app.trends.RecentAnalyses(context.Background(), args[0], limit)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(analyses)
			}

			t := NewTable("TIME", "DIRECTION", "CONFIDENCE", "POINTS", "WINDOW")
			for _, a := range analyses {
				t.AddRow(a.Timestamp.Format("2006-01-02 15:04"),
					formatDirection(a.Direction),
					fmt.Sprintf("%.2f", a.Confidence),
					strconv.Itoa(a.DataPoints),
					fmt.Sprintf("%dd", a.PeriodDays))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum analyses to list")
	return cmd
}

func formatDirection(direction string) string {
	switch direction {
	case trend.Increasing:
		return "^ " + direction
	case trend.Decreasing:
		return "v " + direction
	default:
		return direction
	}
}
