package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/domain/trend"
	"github.com/ovn-tools/egresswatch/internal/pkg/errors"
)

type TrendRepository struct {
	db *DB
}

func NewTrendRepository(db *DB) trend.Repository {
	return &TrendRepository{db: db}
}

// windowQuery maps a metric type to its daily-aggregate query. Each
// query selects date, record count, then the numeric means in the
// order given by its field list.
type windowQuery struct {
	query  string
	fields []string
}

var windowQueries = map[string]windowQuery{
	metric.TypeStatus: {
		query: `SELECT SUBSTR(timestamp, 1, 10), COUNT(*),
				COUNT(DISTINCT egressip_name),
				COALESCE(AVG(pod_count), 0)
			FROM egress_status
			WHERE timestamp >= ? AND timestamp < ?
			GROUP BY SUBSTR(timestamp, 1, 10)
			ORDER BY SUBSTR(timestamp, 1, 10)`,
		fields: []string{"unique_egressips", "avg_pod_count"},
	},
	metric.TypeRuleMetrics: {
		query: `SELECT SUBSTR(timestamp, 1, 10), COUNT(*),
				COALESCE(AVG(snat_rules_count), 0),
				COALESCE(AVG(lrp_rules_count), 0),
				COALESCE(AVG(consistency_score), 0)
			FROM egress_rule_metrics
			WHERE timestamp >= ? AND timestamp < ?
			GROUP BY SUBSTR(timestamp, 1, 10)
			ORDER BY SUBSTR(timestamp, 1, 10)`,
		fields: []string{"avg_snat_rules", "avg_lrp_rules", "avg_consistency"},
	},
	metric.TypeNetwork: {
		query: `SELECT SUBSTR(timestamp, 1, 10), COUNT(*),
				COALESCE(AVG(bytes_transmitted_rate), 0),
				COALESCE(AVG(bytes_received_rate), 0),
				COALESCE(AVG(network_errors_rate), 0)
			FROM egress_network_metrics
			WHERE timestamp >= ? AND timestamp < ?
			GROUP BY SUBSTR(timestamp, 1, 10)
			ORDER BY SUBSTR(timestamp, 1, 10)`,
		fields: []string{"avg_transmit_rate", "avg_receive_rate", "avg_error_rate"},
	},
	metric.TypePerformanceTests: {
		query: `SELECT SUBSTR(timestamp, 1, 10), COUNT(*),
				COALESCE(SUM(CASE WHEN test_passed THEN 1 ELSE 0 END) * 1.0 / COUNT(*), 0),
				COALESCE(AVG(execution_time_seconds), 0)
			FROM egress_performance_tests
			WHERE timestamp >= ? AND timestamp < ?
			GROUP BY SUBSTR(timestamp, 1, 10)
			ORDER BY SUBSTR(timestamp, 1, 10)`,
		fields: []string{"pass_rate", "avg_execution_time"},
	},
}

func (r *TrendRepository) Window(ctx context.Context, metricType string, start, end time.Time) ([]trend.Point, error) {
	wq, ok := windowQueries[metricType]
	if !ok {
		return nil, errors.BadRequest("unknown metric type: " + metricType)
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(wq.query),
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.PersistenceFailure("trend window", err)
	}
	defer rows.Close()

	points := []trend.Point{}
	for rows.Next() {
		point := trend.Point{Values: make(map[string]float64, len(wq.fields))}

		dest := make([]interface{}, 0, len(wq.fields)+2)
		dest = append(dest, &point.Date, &point.Records)
		values := make([]float64, len(wq.fields))
		for i := range values {
			dest = append(dest, &values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, errors.PersistenceFailure("trend window", err)
		}
		for i, field := range wq.fields {
			point.Values[field] = values[i]
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.PersistenceFailure("trend window", err)
	}

	return points, nil
}

func (r *TrendRepository) AppendAnalysis(ctx context.Context, a *trend.Analysis) (int64, error) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	if a.Record == "" {
		blob, err := json.Marshal(a)
		if err != nil {
			return 0, errors.PersistenceFailure("egress_trend_analysis", err)
		}
		a.Record = string(blob)
	}

	query := `INSERT INTO egress_trend_analysis (timestamp, metric_type, trend_direction, confidence_score, data_points, analysis_period_days, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query,
		a.Timestamp.Format(time.RFC3339), a.MetricType, a.Direction,
		a.Confidence, a.DataPoints, a.PeriodDays, a.Record)
	if err != nil {
		return 0, errors.PersistenceFailure("egress_trend_analysis", err)
	}

	return id, nil
}

func (r *TrendRepository) RecentAnalyses(ctx context.Context, metricType string, limit int) ([]*trend.Analysis, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx,
		r.db.rebind(`SELECT id, timestamp, metric_type, trend_direction, confidence_score, data_points, analysis_period_days, record_json
		FROM egress_trend_analysis
		WHERE metric_type = ?
		ORDER BY timestamp DESC
		LIMIT ?`), metricType, limit)
	if err != nil {
		return nil, errors.PersistenceFailure("egress_trend_analysis", err)
	}
	defer rows.Close()

	var analyses []*trend.Analysis
	for rows.Next() {
		var a trend.Analysis
		var ts string
		if err := rows.Scan(&a.ID, &ts, &a.MetricType, &a.Direction,
			&a.Confidence, &a.DataPoints, &a.PeriodDays, &a.Record); err != nil {
			return nil, errors.PersistenceFailure("egress_trend_analysis", err)
		}
		a.Timestamp, _ = time.Parse(time.RFC3339, ts)
		if a.Record != "" {
			var stored trend.Analysis
			if err := json.Unmarshal([]byte(a.Record), &stored); err == nil {
				a.Fields = stored.Fields
			}
		}
		analyses = append(analyses, &a)
	}
	return analyses, rows.Err()
}
