package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ovn-tools/egresswatch/internal/analyzer"
	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	apperrors "github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/metrics"
	"github.com/ovn-tools/egresswatch/internal/source"
)

// maxConcurrentNodes bounds the fan-out of multi-node comparisons so a
// large node list cannot flood the cluster with debug sessions.
const maxConcurrentNodes = 4

// AnalysisService runs single-node rule analyses and cross-node
// comparisons. Results are tagged; an error result carries only the
// node, error and timestamp.
type AnalysisService struct {
	rules   source.RuleSource
	desired source.DesiredStateSource
	store   metric.Repository
	router  string
	logger  *logger.Logger
}

// NewAnalysisService creates an analysis service. The store may be nil,
// in which case analyses are not persisted.
func NewAnalysisService(rules source.RuleSource, desired source.DesiredStateSource, store metric.Repository, router string, log *logger.Logger) *AnalysisService {
	return &AnalysisService{
		rules:   rules,
		desired: desired,
		store:   store,
		router:  router,
		logger:  log,
	}
}

// AnalyzeNode fetches and analyzes one node's egress IP rules. Source
// failures degrade the result rather than abort it: a single failed
// dump is recorded under source_errors and analysis continues with the
// other, while both dumps failing yields an error result.
func (s *AnalysisService) AnalyzeNode(ctx context.Context, node string) *analysis.NodeAnalysis {
	started := time.Now()
	result := &analysis.NodeAnalysis{
		Node:      node,
		Timestamp: started.UTC(),
	}

	natLines, natErr := s.rules.FetchRules(ctx, node, source.RuleKindNAT)
	policyLines, policyErr := s.rules.FetchRules(ctx, node, source.RuleKindPolicy)

	if natErr != nil && policyErr != nil {
		result.Status = analysis.StatusError
		result.Error = "Failed to fetch OVN rules: " + natErr.Error()
		s.logger.WithFields(map[string]interface{}{"node": node}).
			ErrorWithErr(natErr, "node analysis failed")
		metrics.RecordAnalysis(node, result.Status, time.Since(started))
		return result
	}
	if natErr != nil {
		result.SourceErrors = append(result.SourceErrors, "nat: "+natErr.Error())
	}
	if policyErr != nil {
		result.SourceErrors = append(result.SourceErrors, "policy: "+policyErr.Error())
	}

	natRules := analyzer.ParseNATRules(natLines, nil)
	policyRules := analyzer.ParsePolicyRules(policyLines, nil)

	result.Status = analysis.StatusSuccess
	result.NATRuleCount = len(natRules)
	result.PolicyRuleCount = len(policyRules)
	result.Analysis = analyzer.Analyze(natRules, policyRules)

	metrics.RecordParseFailures("nat", result.Analysis.NAT.TotalRules-result.Analysis.NAT.Parsed)
	metrics.RecordParseFailures("policy", result.Analysis.Policy.TotalRules-result.Analysis.Policy.Parsed)
	if result.Analysis.Correlation.Determined {
		metrics.SetConsistencyScore(node, result.Analysis.Correlation.Score)
	}

	assignments, err := s.desired.ListAssignments(ctx)
	if err != nil {
		result.Validation = analysis.AssignmentValidation{
			Possible: false,
			Error:    apperrors.ValidationInconclusive("Failed to list egress IP assignments: " + err.Error()).Error(),
		}
	} else {
		result.Validation = analyzer.ValidateAssignments(natRules, assignments)
	}

	result.Database = s.databaseInfo(ctx, node)
	result.Recommendations = analyzer.Recommendations(result.Analysis, result.Validation)

	if s.store != nil {
		s.persist(ctx, result)
	}

	metrics.RecordAnalysis(node, result.Status, time.Since(started))
	return result
}

// databaseInfo takes a coarse health sample of the northbound database.
// Best-effort; failure never degrades the surrounding analysis.
func (s *AnalysisService) databaseInfo(ctx context.Context, node string) analysis.DatabaseInfo {
	lines, err := s.rules.FetchRules(ctx, node, source.RuleKindDatabaseInfo)
	if err != nil {
		return analysis.DatabaseInfo{Error: err.Error()}
	}

	info := analysis.DatabaseInfo{
		Available: true,
		LineCount: len(lines),
	}
	for _, line := range lines {
		if s.router != "" && strings.Contains(line, s.router) {
			info.ContainsRouter = true
		}
		if strings.Contains(strings.ToLower(line), "egress") {
			info.EgressReferences++
		}
	}
	return info
}

func (s *AnalysisService) persist(ctx context.Context, result *analysis.NodeAnalysis) {
	record := &metric.RuleMetric{
		Timestamp:       result.Timestamp,
		Node:            result.Node,
		NATRuleCount:    result.NATRuleCount,
		PolicyRuleCount: result.PolicyRuleCount,
		ParseFailures: (result.Analysis.NAT.TotalRules - result.Analysis.NAT.Parsed) +
			(result.Analysis.Policy.TotalRules - result.Analysis.Policy.Parsed),
	}
	if result.Analysis.Correlation.Determined {
		score := result.Analysis.Correlation.Score
		record.ConsistencyScore = &score
	}
	if blob, err := json.Marshal(result); err == nil {
		record.Record = string(blob)
	}

	_, err := s.store.AppendRuleMetric(ctx, record)
	metrics.RecordStoreWrite("egress_rule_metrics", err)
	if err != nil {
		result.StorageError = err.Error()
		s.logger.WithFields(map[string]interface{}{"node": result.Node}).
			ErrorWithErr(err, "failed to persist rule metric")
	}
}

// CompareNodes analyzes nodes concurrently and diffs their rule state.
// Per-node failures are carried inside the per-node reports; the
// comparison itself fails only when no node could be analyzed.
func (s *AnalysisService) CompareNodes(ctx context.Context, nodes []string) *analysis.ComparisonResult {
	result := &analysis.ComparisonResult{
		Nodes:     append([]string{}, nodes...),
		Timestamp: time.Now().UTC(),
	}
	sort.Strings(result.Nodes)

	if len(nodes) == 0 {
		result.Status = analysis.StatusError
		result.Error = "No nodes specified for comparison"
		return result
	}

	var mu sync.Mutex
	reports := make(map[string]analysis.NodeAnalysis, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentNodes)
	for _, node := range nodes {
		node := node
		g.Go(func() error {
			report := s.AnalyzeNode(gctx, node)
			mu.Lock()
			reports[node] = *report
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var nodeReports []analysis.NodeReport
	for _, node := range result.Nodes {
		report := reports[node]
		if report.Status != analysis.StatusSuccess {
			continue
		}
		nodeReports = append(nodeReports, analysis.NodeReport{
			Node:            node,
			NATRuleCount:    report.NATRuleCount,
			PolicyRuleCount: report.PolicyRuleCount,
			RelevantNATIPs:  report.Analysis.Correlation.NATIPs,
		})
	}

	result.Reports = reports
	if len(nodeReports) == 0 {
		result.Status = analysis.StatusError
		result.Error = "All node analyses failed"
		return result
	}

	result.Status = analysis.StatusSuccess
	result.Comparison = analyzer.CompareNodes(nodeReports)
	result.Recommendations = analyzer.ComparisonRecommendations(result.Comparison)
	return result
}
