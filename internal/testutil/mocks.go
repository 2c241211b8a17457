package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/assignment"
	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/domain/trend"
	"github.com/ovn-tools/egresswatch/internal/runner"
	"github.com/ovn-tools/egresswatch/internal/source"
)

// MockRuleSource is a mock implementation of source.RuleSource
type MockRuleSource struct {
	Rules      map[string]map[source.RuleKind][]string
	Errors     map[source.RuleKind]error
	NodeErrors map[string]error
	Calls      int
}

func NewMockRuleSource() *MockRuleSource {
	return &MockRuleSource{
		Rules:      make(map[string]map[source.RuleKind][]string),
		Errors:     make(map[source.RuleKind]error),
		NodeErrors: make(map[string]error),
	}
}

// SetRules registers a dump for a node and kind
func (m *MockRuleSource) SetRules(node string, kind source.RuleKind, lines []string) {
	if m.Rules[node] == nil {
		m.Rules[node] = make(map[source.RuleKind][]string)
	}
	m.Rules[node][kind] = lines
}

func (m *MockRuleSource) FetchRules(ctx context.Context, node string, kind source.RuleKind) ([]string, error) {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.NodeErrors[node]; err != nil {
		return nil, err
	}
	if err := m.Errors[kind]; err != nil {
		return nil, err
	}
	byKind, ok := m.Rules[node]
	if !ok {
		return nil, fmt.Errorf("no rules registered for node %s", node)
	}
	return byKind[kind], nil
}

// MockDesiredStateSource is a mock implementation of source.DesiredStateSource
type MockDesiredStateSource struct {
	Assignments []assignment.Assignment
	ListError   error
}

func (m *MockDesiredStateSource) ListAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Assignments, nil
}

// MockClusterSource is a mock implementation of source.ClusterSource
type MockClusterSource struct {
	Nodes        int
	CapableNodes int
	Network      string
	Err          error
}

func (m *MockClusterSource) NodeCount(ctx context.Context) (int, error) {
	return m.Nodes, m.Err
}

func (m *MockClusterSource) CapableNodeCount(ctx context.Context) (int, error) {
	return m.CapableNodes, m.Err
}

func (m *MockClusterSource) NetworkType(ctx context.Context) (string, error) {
	return m.Network, m.Err
}

// MockMetricsSource is a mock implementation of source.MetricsSource
type MockMetricsSource struct {
	Values map[string]float64
	Err    error
}

func (m *MockMetricsSource) Query(ctx context.Context, promql string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Values[promql], nil
}

// MockRunner is a mock implementation of runner.Runner
type MockRunner struct {
	Result   *runner.Result
	RunError error
	LastCfg  runner.Config
}

func (m *MockRunner) Run(ctx context.Context, cfg runner.Config) (*runner.Result, error) {
	m.LastCfg = cfg
	if m.RunError != nil {
		return nil, m.RunError
	}
	return m.Result, nil
}

// MockMetricRepository is an in-memory implementation of metric.Repository
type MockMetricRepository struct {
	StatusRecords    []*metric.StatusRecord
	RuleMetrics      []*metric.RuleMetric
	PerformanceTests []*metric.PerformanceTest
	ClusterMetrics   []*metric.ClusterMetric
	NetworkMetrics   []*metric.NetworkMetric
	AppendError      error
	NextID           int64
}

func NewMockMetricRepository() *MockMetricRepository {
	return &MockMetricRepository{NextID: 1}
}

func (m *MockMetricRepository) nextID() int64 {
	id := m.NextID
	m.NextID++
	return id
}

func (m *MockMetricRepository) AppendStatus(ctx context.Context, record *metric.StatusRecord) (int64, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	record.ID = m.nextID()
	m.StatusRecords = append(m.StatusRecords, record)
	return record.ID, nil
}

func (m *MockMetricRepository) AppendRuleMetric(ctx context.Context, record *metric.RuleMetric) (int64, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	record.ID = m.nextID()
	m.RuleMetrics = append(m.RuleMetrics, record)
	return record.ID, nil
}

func (m *MockMetricRepository) AppendPerformanceTest(ctx context.Context, record *metric.PerformanceTest) (int64, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	record.ID = m.nextID()
	m.PerformanceTests = append(m.PerformanceTests, record)
	return record.ID, nil
}

func (m *MockMetricRepository) AppendClusterMetric(ctx context.Context, record *metric.ClusterMetric) (int64, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	record.ID = m.nextID()
	m.ClusterMetrics = append(m.ClusterMetrics, record)
	return record.ID, nil
}

func (m *MockMetricRepository) AppendNetworkMetric(ctx context.Context, record *metric.NetworkMetric) (int64, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	record.ID = m.nextID()
	m.NetworkMetrics = append(m.NetworkMetrics, record)
	return record.ID, nil
}

func (m *MockMetricRepository) Summary(ctx context.Context, hoursBack int) (*metric.Summary, error) {
	return &metric.Summary{WindowHours: hoursBack}, nil
}

// MockTrendRepository is an in-memory implementation of trend.Repository
type MockTrendRepository struct {
	Points      map[string][]trend.Point
	Analyses    []*trend.Analysis
	WindowError error
	AppendError error
}

func NewMockTrendRepository() *MockTrendRepository {
	return &MockTrendRepository{Points: make(map[string][]trend.Point)}
}

func (m *MockTrendRepository) Window(ctx context.Context, metricType string, start, end time.Time) ([]trend.Point, error) {
	if m.WindowError != nil {
		return nil, m.WindowError
	}
	return m.Points[metricType], nil
}

func (m *MockTrendRepository) AppendAnalysis(ctx context.Context, analysis *trend.Analysis) (int64, error) {
	if m.AppendError != nil {
		return 0, m.AppendError
	}
	analysis.ID = int64(len(m.Analyses) + 1)
	m.Analyses = append(m.Analyses, analysis)
	return analysis.ID, nil
}

func (m *MockTrendRepository) RecentAnalyses(ctx context.Context, metricType string, limit int) ([]*trend.Analysis, error) {
	var out []*trend.Analysis
	for i := len(m.Analyses) - 1; i >= 0 && len(out) < limit; i-- {
		if m.Analyses[i].MetricType == metricType {
			out = append(out, m.Analyses[i])
		}
	}
	return out, nil
}
