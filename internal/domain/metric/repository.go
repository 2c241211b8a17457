package metric

import "context"

// Repository defines the append-only metric store. Every insert is a
// single atomic row, so concurrent writers need no external locking.
// Each row also carries the full original record as serialized JSON for
// forward-compatible replay.
type Repository interface {
	// AppendStatus appends an egress IP status sample
	AppendStatus(ctx context.Context, record *StatusRecord) (int64, error)

	// AppendRuleMetric appends a per-node rule analysis sample
	AppendRuleMetric(ctx context.Context, record *RuleMetric) (int64, error)

	// AppendPerformanceTest appends a stress-test outcome
	AppendPerformanceTest(ctx context.Context, record *PerformanceTest) (int64, error)

	// AppendClusterMetric appends a cluster-wide sample
	AppendClusterMetric(ctx context.Context, record *ClusterMetric) (int64, error)

	// AppendNetworkMetric appends a network throughput sample
	AppendNetworkMetric(ctx context.Context, record *NetworkMetric) (int64, error)

	// Summary aggregates the metric tables over the past hoursBack hours
	Summary(ctx context.Context, hoursBack int) (*Summary, error)
}
