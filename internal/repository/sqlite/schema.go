package sqlite

import "fmt"

// InitSchema creates the append-only metric tables. Every table keeps
// the full original record as serialized JSON next to its structured
// columns, so old rows stay replayable when the schema grows.
func InitSchema(db *DB) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS egress_status (
		id %[1]s,
		timestamp TEXT NOT NULL,
		egressip_name TEXT NOT NULL,
		namespace TEXT,
		status TEXT,
		assigned_node TEXT,
		assigned_ip TEXT,
		pod_count INTEGER,
		record_json TEXT
	);

	CREATE TABLE IF NOT EXISTS egress_rule_metrics (
		id %[1]s,
		timestamp TEXT NOT NULL,
		node_name TEXT NOT NULL,
		snat_rules_count INTEGER,
		lrp_rules_count INTEGER,
		parsing_errors INTEGER,
		consistency_score REAL,
		record_json TEXT
	);

	CREATE TABLE IF NOT EXISTS egress_performance_tests (
		id %[1]s,
		timestamp TEXT NOT NULL,
		test_name TEXT NOT NULL,
		test_config_json TEXT,
		execution_time_seconds REAL,
		test_passed BOOLEAN,
		scenarios_completed INTEGER,
		total_scenarios INTEGER,
		record_json TEXT
	);

	CREATE TABLE IF NOT EXISTS egress_cluster_metrics (
		id %[1]s,
		timestamp TEXT NOT NULL,
		total_nodes INTEGER,
		egressip_capable_nodes INTEGER,
		total_egressips INTEGER,
		total_pods_with_egressip INTEGER,
		network_type TEXT,
		prometheus_metrics_json TEXT,
		record_json TEXT
	);

	CREATE TABLE IF NOT EXISTS egress_network_metrics (
		id %[1]s,
		timestamp TEXT NOT NULL,
		node_name TEXT,
		bytes_transmitted_rate REAL,
		bytes_received_rate REAL,
		packets_transmitted_rate REAL,
		packets_received_rate REAL,
		network_errors_rate REAL,
		traffic_rate REAL,
		record_json TEXT
	);

	CREATE TABLE IF NOT EXISTS egress_trend_analysis (
		id %[1]s,
		timestamp TEXT NOT NULL,
		metric_type TEXT NOT NULL,
		trend_direction TEXT,
		confidence_score REAL,
		data_points INTEGER,
		analysis_period_days INTEGER,
		record_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_egress_status_timestamp ON egress_status(timestamp);
	CREATE INDEX IF NOT EXISTS idx_egress_rule_timestamp ON egress_rule_metrics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_egress_perf_timestamp ON egress_performance_tests(timestamp);
	CREATE INDEX IF NOT EXISTS idx_egress_cluster_timestamp ON egress_cluster_metrics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_egress_network_timestamp ON egress_network_metrics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_egress_trend_timestamp ON egress_trend_analysis(timestamp);

	CREATE INDEX IF NOT EXISTS idx_egress_status_name ON egress_status(egressip_name);
	CREATE INDEX IF NOT EXISTS idx_egress_rule_node ON egress_rule_metrics(node_name);
	CREATE INDEX IF NOT EXISTS idx_egress_perf_name ON egress_performance_tests(test_name);
	`, db.idColumn())

	_, err := db.Exec(schema)
	return err
}
