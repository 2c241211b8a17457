package analysis

import "time"

// Result status values; callers gate all further processing on the tag.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NATSummary aggregates the parsed NAT rules of one node.
type NATSummary struct {
	TotalRules  int      `json:"total_rules"`
	Parsed      int      `json:"parsed_successfully"`
	Relevant    int      `json:"egressip_related"`
	ExternalIPs []string `json:"external_ips"`
	LogicalIPs  []string `json:"logical_ips"`
	Issues      []string `json:"potential_issues"`
}

// PriorityStats summarizes policy rule priorities.
type PriorityStats struct {
	Min         int `json:"min"`
	Max         int `json:"max"`
	UniqueCount int `json:"unique_count"`
}

// PolicySummary aggregates the parsed policy rules of one node.
type PolicySummary struct {
	TotalRules    int            `json:"total_rules"`
	Parsed        int            `json:"parsed_successfully"`
	Relevant      int            `json:"egressip_related"`
	Priorities    []int          `json:"priorities"`
	PriorityStats PriorityStats  `json:"priority_stats"`
	ActionTypes   map[string]int `json:"action_types"`
	Issues        []string       `json:"potential_issues"`
}

// Correlation labels
const (
	CorrelationGood         = "good"
	CorrelationModerate     = "moderate"
	CorrelationPoor         = "poor"
	CorrelationUndetermined = "undetermined"
)

// Correlation is the NAT/policy consistency result. Score is meaningful
// only when Determined is true; an undetermined correlation is never
// coerced to zero.
type Correlation struct {
	Determined    bool     `json:"determined"`
	Score         float64  `json:"consistency_score"`
	Label         string   `json:"snat_lrp_correlation"`
	NATIPs        []string `json:"snat_external_ips"`
	PolicyIPs     []string `json:"lrp_ip_references"`
	CorrelatedIPs []string `json:"correlated_ips"`
	Issues        []string `json:"issues_found"`
}

// RuleAnalysis is the full single-node analysis over already-parsed rules.
type RuleAnalysis struct {
	NAT         NATSummary    `json:"snat_analysis"`
	Policy      PolicySummary `json:"lrp_analysis"`
	Correlation Correlation   `json:"consistency_check"`
}

// AssignmentValidation cross-checks NAT rules against declared state.
// Comparison is exact string match on normalized IP text; no CIDR or
// format coercion.
type AssignmentValidation struct {
	Possible   bool     `json:"validation_possible"`
	Error      string   `json:"error,omitempty"`
	Missing    []string `json:"missing_snat_rules"`
	Unexpected []string `json:"unexpected_snat_rules"`
	Passed     bool     `json:"validation_passed"`
	Declared   int      `json:"total_assigned_egressips"`
	Observed   int      `json:"total_snat_external_ips"`
}

// DatabaseInfo is a coarse health sample of the northbound database.
type DatabaseInfo struct {
	Available        bool   `json:"available"`
	Error            string `json:"error,omitempty"`
	LineCount        int    `json:"line_count,omitempty"`
	ContainsRouter   bool   `json:"contains_router_info,omitempty"`
	EgressReferences int    `json:"egressip_references,omitempty"`
}

// NodeAnalysis is the tagged top-level result of analyzing one node.
// On error no other field beyond Node, Error and Timestamp is populated.
type NodeAnalysis struct {
	Status          string               `json:"status"`
	Error           string               `json:"error,omitempty"`
	Node            string               `json:"node_name"`
	Timestamp       time.Time            `json:"timestamp"`
	NATRuleCount    int                  `json:"snat_rule_count"`
	PolicyRuleCount int                  `json:"lrp_rule_count"`
	Analysis        RuleAnalysis         `json:"analysis"`
	Validation      AssignmentValidation `json:"egressip_validation"`
	Database        DatabaseInfo         `json:"ovn_database_info"`
	Recommendations []string             `json:"recommendations"`
	SourceErrors    []string             `json:"source_errors,omitempty"`
	StorageError    string               `json:"storage_error,omitempty"`
}

// NodeReport is the per-node slice of state the comparator consumes.
type NodeReport struct {
	Node            string   `json:"node_name"`
	NATRuleCount    int      `json:"snat_rule_count"`
	PolicyRuleCount int      `json:"lrp_rule_count"`
	RelevantNATIPs  []string `json:"snat_external_ips"`
}

// Inconsistency types
const (
	InconsistencyCountMismatch = "rule_count_mismatch"
	InconsistencyMissingIPs    = "missing_snat_ips"
)

// Inconsistency is one cross-node divergence.
type Inconsistency struct {
	Type        string   `json:"type"`
	Node        string   `json:"node,omitempty"`
	Description string   `json:"description"`
	MissingIPs  []string `json:"missing_ips,omitempty"`
}

// NodeComparison is the cross-node diff result.
type NodeComparison struct {
	CountMismatch   bool                `json:"count_mismatch"`
	PerNodeMissing  map[string][]string `json:"per_node_missing"`
	Inconsistencies []Inconsistency     `json:"inconsistencies"`
	Consistent      bool                `json:"overall_consistency"`
}

// ComparisonResult is the tagged top-level result of a multi-node compare.
type ComparisonResult struct {
	Status          string                  `json:"status"`
	Error           string                  `json:"error,omitempty"`
	Nodes           []string                `json:"nodes_analyzed"`
	Timestamp       time.Time               `json:"timestamp"`
	Reports         map[string]NodeAnalysis `json:"node_analyses,omitempty"`
	Comparison      NodeComparison          `json:"comparison"`
	Recommendations []string                `json:"recommendations"`
}
