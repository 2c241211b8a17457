package trend

import "time"

// Direction of a metric over an analysis window.
const (
	Increasing       = "increasing"
	Decreasing       = "decreasing"
	Stable           = "stable"
	InsufficientData = "insufficient_data"
)

// Percent-change thresholds for calling a direction. An explainable
// heuristic, not a statistical test.
const changeThresholdPercent = 10.0

// Point is one daily aggregate of a metric table: the row count plus
// means of its numeric sub-fields keyed by column name.
type Point struct {
	Date    string             `json:"date"`
	Records int                `json:"total_records"`
	Values  map[string]float64 `json:"values"`
}

// FieldTrend is the computed direction of one numeric sub-field.
type FieldTrend struct {
	Field     string  `json:"field"`
	Direction string  `json:"direction"`
	Latest    float64 `json:"latest"`
}

// Analysis is a stored trend computation over a metric type.
type Analysis struct {
	ID         int64        `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	MetricType string       `json:"metric_type"`
	Direction  string       `json:"trend_direction"`
	Confidence float64      `json:"confidence_score"`
	DataPoints int          `json:"data_points"`
	PeriodDays int          `json:"analysis_period_days"`
	Fields     []FieldTrend `json:"field_trends"`
	Record     string       `json:"-"`
}

// Compute derives a direction from a value series. The series splits at
// midpoint = floor(len/2); the extra element of an odd-length series
// belongs to the second half. A zero first-half mean yields stable.
// Deterministic: identical input always yields the same direction.
func Compute(values []float64) string {
	if len(values) < 2 {
		return InsufficientData
	}

	mid := len(values) / 2
	firstHalf := mean(values[:mid])
	secondHalf := mean(values[mid:])

	if firstHalf <= 0 {
		return Stable
	}

	diffPercent := (secondHalf - firstHalf) / firstHalf * 100
	switch {
	case diffPercent > changeThresholdPercent:
		return Increasing
	case diffPercent < -changeThresholdPercent:
		return Decreasing
	default:
		return Stable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Field extracts one numeric sub-field across points, skipping points
// that do not carry it.
func Field(points []Point, field string) []float64 {
	var values []float64
	for _, p := range points {
		if v, ok := p.Values[field]; ok {
			values = append(values, v)
		}
	}
	return values
}
