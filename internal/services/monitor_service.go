package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ovn-tools/egresswatch/internal/analyzer"
	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	"github.com/ovn-tools/egresswatch/internal/domain/rule"
	"github.com/ovn-tools/egresswatch/internal/domain/snapshot"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/metrics"
	"github.com/ovn-tools/egresswatch/internal/source"
)

// MonitorResult is the tagged outcome of one monitoring session.
// Snapshots live only inside the result; nothing is persisted.
type MonitorResult struct {
	Status       string                 `json:"status"`
	Error        string                 `json:"error,omitempty"`
	SessionID    string                 `json:"session_id"`
	Node         string                 `json:"node_name"`
	StartedAt    time.Time              `json:"started_at"`
	Duration     time.Duration          `json:"-"`
	Interval     time.Duration          `json:"-"`
	Snapshots    []snapshot.Snapshot    `json:"snapshots"`
	Changes      []snapshot.ChangeEvent `json:"changes_detected"`
	Assessment   snapshot.Assessment    `json:"stability_assessment"`
	SourceErrors []string               `json:"source_errors,omitempty"`
	Interrupted  bool                   `json:"interrupted,omitempty"`
}

// MonitorService watches one node's rule state over a bounded window.
type MonitorService struct {
	rules  source.RuleSource
	logger *logger.Logger
}

// NewMonitorService creates a monitoring service.
func NewMonitorService(rules source.RuleSource, log *logger.Logger) *MonitorService {
	return &MonitorService{rules: rules, logger: log}
}

// TakeSnapshot captures one node's current rule state: counts, relevant
// counts and order-independent content hashes.
func (s *MonitorService) TakeSnapshot(ctx context.Context, node string) (snapshot.Snapshot, error) {
	natLines, err := s.rules.FetchRules(ctx, node, source.RuleKindNAT)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	policyLines, err := s.rules.FetchRules(ctx, node, source.RuleKindPolicy)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	natRules := analyzer.ParseNATRules(natLines, nil)
	policyRules := analyzer.ParsePolicyRules(policyLines, nil)

	// Hash the rules that survived filtering, not the raw dump, so
	// header chrome and unrelated NAT rows never register as change.
	snap := snapshot.Snapshot{
		Timestamp:   time.Now().UTC(),
		NATCount:    len(natRules),
		PolicyCount: len(policyRules),
		NATHash:     snapshot.HashRules(rawLines(natRules)),
		PolicyHash:  snapshot.HashRules(rawLines(policyRules)),
	}
	for _, r := range natRules {
		if r.ParseSuccess && r.Relevant {
			snap.RelevantNATCount++
		}
	}
	for _, r := range policyRules {
		if r.ParseSuccess && r.Relevant {
			snap.RelevantPolicyCount++
		}
	}

	metrics.RecordSnapshot(node)
	return snap, nil
}

func rawLines(rules []rule.ParsedRule) []string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, r.Raw)
	}
	return lines
}

// Monitor samples a node's rule state every interval until the duration
// elapses. Cancellation is honored at interval boundaries and yields a
// partial result over the snapshots taken so far; a session that never
// captured a snapshot is an error result.
func (s *MonitorService) Monitor(ctx context.Context, node string, duration, interval time.Duration) *MonitorResult {
	result := &MonitorResult{
		SessionID: uuid.New().String(),
		Node:      node,
		StartedAt: time.Now().UTC(),
		Duration:  duration,
		Interval:  interval,
	}

	log := s.logger.WithFields(map[string]interface{}{
		"node":    node,
		"session": result.SessionID,
	})
	log.Infof("starting rule monitoring for %s at %s intervals", duration, interval)

	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := s.TakeSnapshot(ctx, node)
		if err != nil {
			result.SourceErrors = append(result.SourceErrors, err.Error())
			log.ErrorWithErr(err, "snapshot failed")
		} else {
			result.Snapshots = append(result.Snapshots, snap)
		}

		if !time.Now().Add(interval).Before(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			result.Interrupted = true
			log.Warn("monitoring interrupted, returning partial results")
		case <-ticker.C:
			continue
		}
		break
	}

	if len(result.Snapshots) == 0 {
		result.Status = analysis.StatusError
		result.Error = "No snapshots could be captured"
		return result
	}

	result.Status = analysis.StatusSuccess
	result.Changes = snapshot.Changes(result.Snapshots)
	result.Assessment = snapshot.ClassifyStability(result.Changes)
	metrics.RecordChangeEvents(node, len(result.Changes))

	log.Infof("monitoring complete: %d snapshots, %d change events, %s",
		len(result.Snapshots), len(result.Changes), result.Assessment.Stability)
	return result
}
