package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ovn-tools/egresswatch/internal/config"
	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/repository/sqlite"
	"github.com/ovn-tools/egresswatch/internal/runner"
	"github.com/ovn-tools/egresswatch/internal/services"
	"github.com/ovn-tools/egresswatch/internal/source"
)

var (
	outputFormat string
	routerName   string
	noStore      bool
)

var rootCmd = &cobra.Command{
	Use:   "egresswatch",
	Short: "Egresswatch CLI - OVN egress IP rule consistency and drift detection",
	Long: `Egresswatch inspects the OVN northbound rules backing egress IP
assignments: it parses NAT and logical router policy dumps, validates
them against the declared egress IP objects, compares rule state across
nodes, monitors rules for drift over time and tracks metric trends.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&routerName, "router", "", "OVN cluster router name (overrides OVN_CLUSTER_ROUTER)")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "skip persisting results to the metric store")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newMonitorCmd())
	rootCmd.AddCommand(newCollectCmd())
	rootCmd.AddCommand(newTrendCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newPerfTestCmd())
}

func getOutputFormat() string {
	return viper.GetString("output")
}

// app bundles the configured services behind the CLI commands.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *sqlite.DB
	analysis  *services.AnalysisService
	monitor   *services.MonitorService
	collector *services.CollectorService
	trends    *services.TrendService
	runner    *services.RunnerService
}

// newApp loads configuration and wires the services. The metric store
// is opened unless --no-store is set; sampling commands which require
// it fail fast without one.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if routerName != "" {
		cfg.OVN.Router = routerName
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: "console"})

	a := &app{cfg: cfg, log: log}

	if !noStore {
		db, err := sqlite.New(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open metric store: %w", err)
		}
		if err := sqlite.InitSchema(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
		a.db = db
	}

	execRunner := source.ExecRunner{}
	rules := source.NewDebugNodeSource(cfg.OVN, execRunner, log)
	desired := source.NewKubeDesiredStateSource(cfg.OVN, execRunner)
	cluster := source.NewKubeClusterSource(cfg.OVN, execRunner)

	var prom source.MetricsSource
	if p, err := source.NewPrometheusSource(cfg.Prometheus); err == nil {
		prom = p
	} else {
		log.ErrorWithErr(err, "prometheus source unavailable, network metrics disabled")
	}

	var store metric.Repository
	if a.db != nil {
		store = sqlite.NewMetricRepository(a.db)
		a.trends = services.NewTrendService(sqlite.NewTrendRepository(a.db), log)
	}

	a.analysis = services.NewAnalysisService(rules, desired, store, cfg.OVN.Router, log)
	a.monitor = services.NewMonitorService(rules, log)
	if store != nil {
		a.collector = services.NewCollectorService(desired, cluster, prom, store, log)
		a.runner = services.NewRunnerService(runner.NewGoTestRunner(log), store, log)
	}

	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// requireStore guards commands that cannot run without the metric store.
func (a *app) requireStore() error {
	if a.db == nil {
		return fmt.Errorf("this command requires the metric store; remove --no-store")
	}
	return nil
}
