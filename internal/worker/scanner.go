package worker

import (
	"context"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/services"
)

// RuleScanner handles periodic per-node rule analysis scans
type RuleScanner struct {
	analysisService *services.AnalysisService
	nodes           []string
	interval        time.Duration
	logger          *logger.Logger
}

// NewRuleScanner creates a new rule scanner worker
func NewRuleScanner(analysisService *services.AnalysisService, nodes []string, interval time.Duration, log *logger.Logger) *RuleScanner {
	return &RuleScanner{
		analysisService: analysisService,
		nodes:           nodes,
		interval:        interval,
		logger:          log,
	}
}

// Start begins the periodic scanning process
func (s *RuleScanner) Start(ctx context.Context) {
	s.logger.Info("Starting rule scanner worker")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run initial scan
	s.scanAllNodes(ctx)

	for {
		select {
		case <-ticker.C:
			s.scanAllNodes(ctx)
		case <-ctx.Done():
			s.logger.Info("Rule scanner worker stopped")
			return
		}
	}
}

// scanAllNodes analyzes every configured node and, when more than one
// is configured, diffs their rule state.
func (s *RuleScanner) scanAllNodes(ctx context.Context) {
	if len(s.nodes) == 0 {
		s.logger.Warn("No nodes configured for rule scanning")
		return
	}

	s.logger.Infof("Starting rule analysis scan for %d nodes", len(s.nodes))

	if len(s.nodes) == 1 {
		result := s.analysisService.AnalyzeNode(ctx, s.nodes[0])
		if result.Status != analysis.StatusSuccess {
			s.logger.WithFields(map[string]interface{}{
				"node": s.nodes[0],
			}).Error("Node analysis failed: " + result.Error)
		}
		return
	}

	result := s.analysisService.CompareNodes(ctx, s.nodes)
	if result.Status != analysis.StatusSuccess {
		s.logger.Error("Node comparison failed: " + result.Error)
		return
	}
	if !result.Comparison.Consistent {
		s.logger.WithFields(map[string]interface{}{
			"inconsistencies": len(result.Comparison.Inconsistencies),
		}).Warn("Cross-node rule inconsistencies detected")
	}

	s.logger.Info("Completed rule analysis scan")
}

// SetInterval updates the scanning interval
func (s *RuleScanner) SetInterval(interval time.Duration) {
	s.interval = interval
	s.logger.WithFields(map[string]interface{}{
		"interval": interval.String(),
	}).Info("Updated rule scanner interval")
}
