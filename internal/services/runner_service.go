package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/metrics"
	"github.com/ovn-tools/egresswatch/internal/runner"
)

// RunReport pairs a test result with its storage outcome. A failed
// store write does not discard the in-memory result.
type RunReport struct {
	Result       *runner.Result `json:"result"`
	RecordID     int64          `json:"record_id,omitempty"`
	StorageError string         `json:"storage_error,omitempty"`
}

// RunnerService executes connectivity stress tests and stores their
// outcomes.
type RunnerService struct {
	runner runner.Runner
	store  metric.Repository
	logger *logger.Logger
}

// NewRunnerService creates a runner service.
func NewRunnerService(r runner.Runner, store metric.Repository, log *logger.Logger) *RunnerService {
	return &RunnerService{runner: r, store: store, logger: log}
}

// RunTest validates the config, executes the suite and appends one
// performance test row. A failing suite is stored like a passing one;
// only a suite that could not execute at all is an error.
func (s *RunnerService) RunTest(ctx context.Context, cfg runner.Config) (*RunReport, error) {
	s.logger.WithFields(map[string]interface{}{
		"test":       cfg.TestName,
		"total_pods": cfg.TotalPods(),
	}).Info("starting performance test")

	result, err := s.runner.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	report := &RunReport{Result: result}

	record := &metric.PerformanceTest{
		Timestamp:          time.Now().UTC(),
		TestName:           cfg.TestName,
		ExecutionSeconds:   result.ExecutionTime.Seconds(),
		Passed:             result.Passed,
		ScenariosCompleted: result.ScenariosCompleted,
		TotalScenarios:     result.TotalScenarios,
	}
	if blob, err := json.Marshal(cfg); err == nil {
		record.Config = string(blob)
	}
	if blob, err := json.Marshal(result); err == nil {
		record.Record = string(blob)
	}

	id, err := s.store.AppendPerformanceTest(ctx, record)
	metrics.RecordStoreWrite("egress_performance_tests", err)
	if err != nil {
		report.StorageError = err.Error()
		s.logger.WithFields(map[string]interface{}{"test": cfg.TestName}).
			ErrorWithErr(err, "failed to persist performance test")
	} else {
		report.RecordID = id
	}

	s.logger.Infof("performance test %s: %s", cfg.TestName, result.Summary())
	return report, nil
}
