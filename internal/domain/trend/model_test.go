package trend

import "testing"

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{
			name:   "increasing step",
			values: []float64{10, 10, 10, 20, 20},
			want:   Increasing,
		},
		{
			name:   "decreasing step",
			values: []float64{20, 20, 10, 10, 10},
			want:   Decreasing,
		},
		{
			name:   "flat series",
			values: []float64{10, 10, 10, 10},
			want:   Stable,
		},
		{
			name:   "within threshold",
			values: []float64{100, 100, 105, 105},
			want:   Stable,
		},
		{
			name:   "just over threshold",
			values: []float64{100, 100, 111, 111},
			want:   Increasing,
		},
		{
			name:   "single point",
			values: []float64{42},
			want:   InsufficientData,
		},
		{
			name:   "empty series",
			values: nil,
			want:   InsufficientData,
		},
		{
			name:   "zero first half",
			values: []float64{0, 0, 50, 50},
			want:   Stable,
		},
		{
			name:   "two points increasing",
			values: []float64{10, 20},
			want:   Increasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.values); got != tt.want {
				t.Errorf("Compute(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	first := Compute(values)
	for i := 0; i < 10; i++ {
		if got := Compute(values); got != first {
			t.Fatalf("Compute varies between runs: %q vs %q", got, first)
		}
	}
}

func TestComputeOddLengthMidpoint(t *testing.T) {
	// floor(5/2)=2: first half [10 10], second half [10 20 20].
	got := Compute([]float64{10, 10, 10, 20, 20})
	if got != Increasing {
		t.Errorf("Compute = %q, want %q", got, Increasing)
	}
}

func TestField(t *testing.T) {
	points := []Point{
		{Date: "2026-08-01", Values: map[string]float64{"avg_consistency": 0.9}},
		{Date: "2026-08-02", Values: map[string]float64{"other": 1}},
		{Date: "2026-08-03", Values: map[string]float64{"avg_consistency": 0.7}},
	}

	got := Field(points, "avg_consistency")
	if len(got) != 2 || got[0] != 0.9 || got[1] != 0.7 {
		t.Errorf("Field() = %v", got)
	}
}
