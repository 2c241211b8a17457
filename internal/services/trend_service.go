package services

import (
	"context"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/domain/trend"
	"github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/metrics"
)

// Per-type confidence weights. Rule metrics come from direct dumps and
// weigh highest; network rates are the noisiest input.
var trendConfidence = map[string]float64{
	metric.TypeStatus:           0.8,
	metric.TypeNetwork:          0.7,
	metric.TypeRuleMetrics:      0.9,
	metric.TypePerformanceTests: 0.85,
}

// Fields analyzed per metric type, matching the window aggregates.
var trendFields = map[string][]string{
	metric.TypeStatus:           {"unique_egressips", "avg_pod_count"},
	metric.TypeRuleMetrics:      {"avg_snat_rules", "avg_lrp_rules", "avg_consistency"},
	metric.TypeNetwork:          {"avg_transmit_rate", "avg_receive_rate", "avg_error_rate"},
	metric.TypePerformanceTests: {"pass_rate", "avg_execution_time"},
}

// TrendService computes and stores trend analyses over the daily
// aggregates of the metric tables.
type TrendService struct {
	trends trend.Repository
	logger *logger.Logger
}

// NewTrendService creates a trend service.
func NewTrendService(trends trend.Repository, log *logger.Logger) *TrendService {
	return &TrendService{trends: trends, logger: log}
}

// AnalyzeTrend computes the trend of one metric type over the past
// periodDays and persists the result. Fewer than two daily points is an
// insufficient_data analysis, stored with zero confidence.
func (s *TrendService) AnalyzeTrend(ctx context.Context, metricType string, periodDays int) (*trend.Analysis, error) {
	fields, ok := trendFields[metricType]
	if !ok {
		return nil, errors.BadRequest("unknown metric type: " + metricType)
	}
	if periodDays <= 0 {
		periodDays = 7
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -periodDays)
	points, err := s.trends.Window(ctx, metricType, start, end)
	if err != nil {
		return nil, err
	}

	result := &trend.Analysis{
		Timestamp:  end,
		MetricType: metricType,
		DataPoints: len(points),
		PeriodDays: periodDays,
	}

	if len(points) < 2 {
		result.Direction = trend.InsufficientData
	} else {
		records := make([]float64, len(points))
		for i, p := range points {
			records[i] = float64(p.Records)
		}
		result.Direction = trend.Compute(records)
		result.Confidence = trendConfidence[metricType]

		for _, field := range fields {
			values := trend.Field(points, field)
			ft := trend.FieldTrend{
				Field:     field,
				Direction: trend.Compute(values),
			}
			if len(values) > 0 {
				ft.Latest = values[len(values)-1]
			}
			result.Fields = append(result.Fields, ft)
		}
	}

	_, err = s.trends.AppendAnalysis(ctx, result)
	metrics.RecordStoreWrite("egress_trend_analysis", err)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{"metric_type": metricType}).
			ErrorWithErr(err, "failed to persist trend analysis")
		return result, err
	}

	s.logger.Infof("trend for %s over %dd: %s (%d points)",
		metricType, periodDays, result.Direction, result.DataPoints)
	return result, nil
}

// AnalyzeAll computes trends for every metric type. Per-type failures
// are logged and the rest still run.
func (s *TrendService) AnalyzeAll(ctx context.Context, periodDays int) map[string]*trend.Analysis {
	results := make(map[string]*trend.Analysis, len(trendFields))
	for metricType := range trendFields {
		result, err := s.AnalyzeTrend(ctx, metricType, periodDays)
		if err != nil && result == nil {
			s.logger.WithFields(map[string]interface{}{"metric_type": metricType}).
				ErrorWithErr(err, "trend analysis failed")
			continue
		}
		results[metricType] = result
	}
	return results
}

// RecentAnalyses lists stored analyses for a metric type, newest first.
func (s *TrendService) RecentAnalyses(ctx context.Context, metricType string, limit int) ([]*trend.Analysis, error) {
	if _, ok := trendFields[metricType]; !ok {
		return nil, errors.NotFound("metric type " + metricType)
	}
	return s.trends.RecentAnalyses(ctx, metricType, limit)
}
