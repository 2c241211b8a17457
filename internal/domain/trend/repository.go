package trend

import (
	"context"
	"time"
)

// Repository provides windowed daily aggregates over the metric tables
// and append-only storage for computed analyses. Window re-runs its
// query on every call, so the returned sequence is restartable.
type Repository interface {
	// Window returns daily aggregates for a metric type in [start, end),
	// in ascending date order.
	Window(ctx context.Context, metricType string, start, end time.Time) ([]Point, error)

	// AppendAnalysis appends a computed trend analysis
	AppendAnalysis(ctx context.Context, analysis *Analysis) (int64, error)

	// RecentAnalyses lists stored analyses for a metric type, newest first
	RecentAnalyses(ctx context.Context, metricType string, limit int) ([]*Analysis, error)
}
