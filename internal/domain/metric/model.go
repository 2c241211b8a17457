package metric

import "time"

// Metric types accepted by the trend queries.
const (
	TypeStatus           = "egressip_status"
	TypeRuleMetrics      = "egressip_ovn_rules"
	TypeNetwork          = "egressip_network"
	TypePerformanceTests = "egressip_performance_tests"
)

// StatusRecord is one egress IP assignment status sample.
type StatusRecord struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Name          string    `json:"egressip_name"`
	Namespace     string    `json:"namespace"`
	Status        string    `json:"status"`
	AssignedNodes string    `json:"assigned_node"`
	AssignedIPs   string    `json:"assigned_ip"`
	PodCount      int       `json:"pod_count"`
	Record        string    `json:"-"`
}

// RuleMetric is one per-node rule analysis sample. ConsistencyScore is
// nil when the correlation was undetermined.
type RuleMetric struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Node             string    `json:"node_name"`
	NATRuleCount     int       `json:"snat_rules_count"`
	PolicyRuleCount  int       `json:"lrp_rules_count"`
	ParseFailures    int       `json:"parsing_errors"`
	ConsistencyScore *float64  `json:"consistency_score"`
	Record           string    `json:"-"`
}

// PerformanceTest is one stored stress-test outcome.
type PerformanceTest struct {
	ID                 int64     `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	TestName           string    `json:"test_name"`
	Config             string    `json:"test_config_json"`
	ExecutionSeconds   float64   `json:"execution_time_seconds"`
	Passed             bool      `json:"test_passed"`
	ScenariosCompleted int       `json:"scenarios_completed"`
	TotalScenarios     int       `json:"total_scenarios"`
	Record             string    `json:"-"`
}

// ClusterMetric is one cluster-wide sample.
type ClusterMetric struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	TotalNodes       int       `json:"total_nodes"`
	CapableNodes     int       `json:"egressip_capable_nodes"`
	TotalEgressIPs   int       `json:"total_egressips"`
	PodsWithEgressIP int       `json:"total_pods_with_egressip"`
	NetworkType      string    `json:"network_type"`
	PromMetrics      string    `json:"-"`
	Record           string    `json:"-"`
}

// NetworkMetric is one network throughput sample.
type NetworkMetric struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Node        string    `json:"node_name"`
	TxBytesRate float64   `json:"bytes_transmitted_rate"`
	RxBytesRate float64   `json:"bytes_received_rate"`
	TxPktsRate  float64   `json:"packets_transmitted_rate"`
	RxPktsRate  float64   `json:"packets_received_rate"`
	ErrorRate   float64   `json:"network_errors_rate"`
	TrafficRate float64   `json:"traffic_rate"`
	Record      string    `json:"-"`
}

// Summary is the aggregate view over a recent time window.
type Summary struct {
	WindowHours      int     `json:"time_range_hours"`
	StatusRecords    int     `json:"status_records"`
	UniqueEgressIPs  int     `json:"unique_egressips"`
	RuleRecords      int     `json:"rule_metric_records"`
	UniqueNodes      int     `json:"unique_nodes"`
	AvgNATRules      float64 `json:"avg_snat_rules"`
	AvgPolicyRules   float64 `json:"avg_lrp_rules"`
	AvgConsistency   float64 `json:"avg_consistency_score"`
	TestsRun         int     `json:"tests_run"`
	TestsPassed      int     `json:"tests_passed"`
	AvgExecutionTime float64 `json:"avg_execution_time"`
	NetworkRecords   int     `json:"network_records"`
	AvgTxRate        float64 `json:"avg_transmit_rate"`
	AvgRxRate        float64 `json:"avg_receive_rate"`
	AvgErrorRate     float64 `json:"avg_error_rate"`
}
