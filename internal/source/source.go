package source

import (
	"context"

	"github.com/ovn-tools/egresswatch/internal/domain/assignment"
)

// RuleKind selects which dump a RuleSource fetches.
type RuleKind string

const (
	RuleKindNAT          RuleKind = "nat"
	RuleKindPolicy       RuleKind = "policy"
	RuleKindDatabaseInfo RuleKind = "database_info"
)

// RuleSource fetches raw, line-oriented rule dumps from one node's OVN
// northbound database. Output is free text from a versionless CLI; the
// caller owns all parsing.
type RuleSource interface {
	FetchRules(ctx context.Context, node string, kind RuleKind) ([]string, error)
}

// DesiredStateSource lists the declared egress IP assignment state.
// Read-only; the engine never writes back.
type DesiredStateSource interface {
	ListAssignments(ctx context.Context) ([]assignment.Assignment, error)
}

// ClusterSource reports coarse cluster shape for the collector.
type ClusterSource interface {
	NodeCount(ctx context.Context) (int, error)
	CapableNodeCount(ctx context.Context) (int, error)
	NetworkType(ctx context.Context) (string, error)
}

// MetricsSource answers instant PromQL queries with a single numeric
// value. Per-query failures are recorded as data by callers, never
// escalated.
type MetricsSource interface {
	Query(ctx context.Context, promql string) (float64, error)
}
