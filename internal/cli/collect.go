package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCollectCmd() *cobra.Command {
	var nodes []string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one metric collection cycle",
		Long: `Collect samples the declared egress IP assignments, the cluster
shape and per-node network rates and appends them to the metric store.
The same cycle runs on a schedule inside the API server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireStore(); err != nil {
				return err
			}

			if len(nodes) == 0 {
				nodes = app.cfg.Collector.Nodes
			}

			if err := app.collector.Collect(context.Background(), nodes); err != nil {
				return fmt.Errorf("collection cycle failed: %w", err)
			}
			fmt.Println("Collection cycle complete")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&nodes, "nodes", nil, "nodes to sample network metrics for (default from COLLECTOR_NODES)")
	return cmd
}
