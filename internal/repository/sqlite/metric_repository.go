package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/pkg/errors"
)

type MetricRepository struct {
	db *DB
}

func NewMetricRepository(db *DB) metric.Repository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) AppendStatus(ctx context.Context, rec *metric.StatusRecord) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO egress_status (timestamp, egressip_name, namespace, status, assigned_node, assigned_ip, pod_count, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query,
		rec.Timestamp.Format(time.RFC3339), rec.Name, rec.Namespace, rec.Status,
		rec.AssignedNodes, rec.AssignedIPs, rec.PodCount, rec.Record)
	if err != nil {
		return 0, errors.PersistenceFailure("egress_status", err)
	}

	return id, nil
}

func (r *MetricRepository) AppendRuleMetric(ctx context.Context, rec *metric.RuleMetric) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	// Undetermined scores are stored as NULL, never coerced to zero.
	var score sql.NullFloat64
	if rec.ConsistencyScore != nil {
		score = sql.NullFloat64{Float64: *rec.ConsistencyScore, Valid: true}
	}

	query := `INSERT INTO egress_rule_metrics (timestamp, node_name, snat_rules_count, lrp_rules_count, parsing_errors, consistency_score, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query,
		rec.Timestamp.Format(time.RFC3339), rec.Node, rec.NATRuleCount,
		rec.PolicyRuleCount, rec.ParseFailures, score, rec.Record)
	if err != nil {
		return 0, errors.PersistenceFailure("egress_rule_metrics", err)
	}

	return id, nil
}

func (r *MetricRepository) AppendPerformanceTest(ctx context.Context, rec *metric.PerformanceTest) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO egress_performance_tests (timestamp, test_name, test_config_json, execution_time_seconds, test_passed, scenarios_completed, total_scenarios, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query,
		rec.Timestamp.Format(time.RFC3339), rec.TestName, rec.Config,
		rec.ExecutionSeconds, rec.Passed, rec.ScenariosCompleted,
		rec.TotalScenarios, rec.Record)
	if err != nil {
		return 0, errors.PersistenceFailure("egress_performance_tests", err)
	}

	return id, nil
}

func (r *MetricRepository) AppendClusterMetric(ctx context.Context, rec *metric.ClusterMetric) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO egress_cluster_metrics (timestamp, total_nodes, egressip_capable_nodes, total_egressips, total_pods_with_egressip, network_type, prometheus_metrics_json, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query,
		rec.Timestamp.Format(time.RFC3339), rec.TotalNodes, rec.CapableNodes,
		rec.TotalEgressIPs, rec.PodsWithEgressIP, rec.NetworkType,
		rec.PromMetrics, rec.Record)
	if err != nil {
		return 0, errors.PersistenceFailure("egress_cluster_metrics", err)
	}

	return id, nil
}

func (r *MetricRepository) AppendNetworkMetric(ctx context.Context, rec *metric.NetworkMetric) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO egress_network_metrics (timestamp, node_name, bytes_transmitted_rate, bytes_received_rate, packets_transmitted_rate, packets_received_rate, network_errors_rate, traffic_rate, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query,
		rec.Timestamp.Format(time.RFC3339), rec.Node, rec.TxBytesRate,
		rec.RxBytesRate, rec.TxPktsRate, rec.RxPktsRate, rec.ErrorRate,
		rec.TrafficRate, rec.Record)
	if err != nil {
		return 0, errors.PersistenceFailure("egress_network_metrics", err)
	}

	return id, nil
}

func (r *MetricRepository) Summary(ctx context.Context, hoursBack int) (*metric.Summary, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hoursBack) * time.Hour).Format(time.RFC3339)
	summary := &metric.Summary{WindowHours: hoursBack}

	err := r.db.QueryRowContext(ctx,
		r.db.rebind(`SELECT COUNT(*), COUNT(DISTINCT egressip_name) FROM egress_status WHERE timestamp > ?`),
		cutoff).Scan(&summary.StatusRecords, &summary.UniqueEgressIPs)
	if err != nil {
		return nil, errors.PersistenceFailure("egress_status", err)
	}

	err = r.db.QueryRowContext(ctx,
		r.db.rebind(`SELECT COUNT(*), COUNT(DISTINCT node_name),
			COALESCE(AVG(snat_rules_count), 0),
			COALESCE(AVG(lrp_rules_count), 0),
			COALESCE(AVG(consistency_score), 0)
		FROM egress_rule_metrics WHERE timestamp > ?`),
		cutoff).Scan(&summary.RuleRecords, &summary.UniqueNodes,
		&summary.AvgNATRules, &summary.AvgPolicyRules, &summary.AvgConsistency)
	if err != nil {
		return nil, errors.PersistenceFailure("egress_rule_metrics", err)
	}

	err = r.db.QueryRowContext(ctx,
		r.db.rebind(`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN test_passed THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(execution_time_seconds), 0)
		FROM egress_performance_tests WHERE timestamp > ?`),
		cutoff).Scan(&summary.TestsRun, &summary.TestsPassed, &summary.AvgExecutionTime)
	if err != nil {
		return nil, errors.PersistenceFailure("egress_performance_tests", err)
	}

	err = r.db.QueryRowContext(ctx,
		r.db.rebind(`SELECT COUNT(*),
			COALESCE(AVG(bytes_transmitted_rate), 0),
			COALESCE(AVG(bytes_received_rate), 0),
			COALESCE(AVG(network_errors_rate), 0)
		FROM egress_network_metrics WHERE timestamp > ?`),
		cutoff).Scan(&summary.NetworkRecords, &summary.AvgTxRate,
		&summary.AvgRxRate, &summary.AvgErrorRate)
	if err != nil {
		return nil, errors.PersistenceFailure("egress_network_metrics", err)
	}

	return summary, nil
}
