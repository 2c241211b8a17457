package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ovn-tools/egresswatch/internal/runner"
)

func newPerfTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perftest",
		Short: "Run egress IP connectivity stress tests",
	}

	cmd.AddCommand(newPerfTestRunCmd())
	return cmd
}

func newPerfTestRunCmd() *cobra.Command {
	var (
		suiteDir   string
		focus      string
		eipObjects int
		podsPerEIP int
		iterations int
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <test-name>",
		Short: "Execute a stress test suite and store the outcome",
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

			cfg := runner.DefaultConfig(args[0], suiteDir)
			cfg.Focus = focus
			if eipObjects > 0 {
				cfg.EIPObjectCount = eipObjects
			}
			if podsPerEIP > 0 {
				cfg.PodsPerEIP = podsPerEIP
			}
			if iterations > 0 {
				cfg.Iterations = iterations
			}
			if timeout > 0 {
				cfg.Timeout = timeout
			}

			report, err := app.runner.RunTest(context.Background(), cfg)
			if err != nil {
				return fmt.Errorf("test execution failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(report)
			}

			fmt.Println(report.Result.Summary())
			if report.StorageError != "" {
				fmt.Printf("Warning: result not stored: %s\n", report.StorageError)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&suiteDir, "suite-dir", ".", "directory containing the test suite")
	cmd.Flags().StringVar(&focus, "focus", "", "run only tests matching this pattern")
	cmd.Flags().IntVar(&eipObjects, "eip-objects", 0, "number of egress IP objects to create")
	cmd.Flags().IntVar(&podsPerEIP, "pods-per-eip", 0, "pods per egress IP object")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "connectivity check iterations")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "suite timeout")
	return cmd
}
