package worker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/services"
)

// Collector schedules periodic metric collection and daily trend
// analysis on cron expressions.
type Collector struct {
	collectorService *services.CollectorService
	trendService     *services.TrendService
	nodes            []string
	metricsSchedule  string
	trendSchedule    string
	trendWindowDays  int
	logger           *logger.Logger

	cron *cron.Cron
}

// NewCollector creates a new collection scheduler. Schedules accept
// standard cron expressions plus the @every and @daily shorthands.
func NewCollector(
	collectorService *services.CollectorService,
	trendService *services.TrendService,
	nodes []string,
	metricsSchedule, trendSchedule string,
	trendWindowDays int,
	log *logger.Logger,
) *Collector {
	return &Collector{
		collectorService: collectorService,
		trendService:     trendService,
		nodes:            nodes,
		metricsSchedule:  metricsSchedule,
		trendSchedule:    trendSchedule,
		trendWindowDays:  trendWindowDays,
		logger:           log,
	}
}

// Start registers the schedules and runs until the context is
// cancelled. An initial collection runs immediately.
func (c *Collector) Start(ctx context.Context) error {
	c.cron = cron.New()

	if _, err := c.cron.AddFunc(c.metricsSchedule, func() { c.collect(ctx) }); err != nil {
		return err
	}
	if _, err := c.cron.AddFunc(c.trendSchedule, func() { c.analyzeTrends(ctx) }); err != nil {
		return err
	}

	c.logger.WithFields(map[string]interface{}{
		"metrics_schedule": c.metricsSchedule,
		"trend_schedule":   c.trendSchedule,
	}).Info("Starting metric collector worker")

	c.collect(ctx)
	c.cron.Start()

	<-ctx.Done()
	stopCtx := c.cron.Stop()
	<-stopCtx.Done()
	c.logger.Info("Metric collector worker stopped")
	return nil
}

func (c *Collector) collect(ctx context.Context) {
	if err := c.collectorService.Collect(ctx, c.nodes); err != nil {
		c.logger.ErrorWithErr(err, "Metric collection cycle failed")
		return
	}
	c.logger.Info("Completed metric collection cycle")
}

func (c *Collector) analyzeTrends(ctx context.Context) {
	results := c.trendService.AnalyzeAll(ctx, c.trendWindowDays)
	c.logger.Infof("Completed trend analysis for %d metric types", len(results))
}
