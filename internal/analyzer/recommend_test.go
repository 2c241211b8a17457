package analyzer

import (
	"strings"
	"testing"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name       string
		analysis   analysis.RuleAnalysis
		validation analysis.AssignmentValidation
		wantPart   string
	}{
		{
			name:     "no NAT rules",
			analysis: analysis.RuleAnalysis{},
			wantPart: "No egress IP SNAT rules found",
		},
		{
			name: "parse failures",
			analysis: analysis.RuleAnalysis{
				NAT: analysis.NATSummary{TotalRules: 2, Parsed: 1, Relevant: 1},
			},
			wantPart: "Some SNAT rules failed to parse",
		},
		{
			name: "poor correlation",
			analysis: analysis.RuleAnalysis{
				NAT:         analysis.NATSummary{TotalRules: 1, Parsed: 1, Relevant: 1},
				Policy:      analysis.PolicySummary{TotalRules: 1, Parsed: 1, Relevant: 1},
				Correlation: analysis.Correlation{Determined: true, Score: 0.2},
			},
			wantPart: "Poor correlation",
		},
		{
			name: "missing SNAT rules",
			analysis: analysis.RuleAnalysis{
				NAT:    analysis.NATSummary{TotalRules: 1, Parsed: 1, Relevant: 1},
				Policy: analysis.PolicySummary{TotalRules: 1, Parsed: 1, Relevant: 1},
			},
			validation: analysis.AssignmentValidation{
				Possible: true,
				Missing:  []string{"10.0.0.9"},
			},
			wantPart: "Missing SNAT rules for 1 egress IPs",
		},
		{
			name: "unexpected SNAT rules",
			analysis: analysis.RuleAnalysis{
				NAT:    analysis.NATSummary{TotalRules: 1, Parsed: 1, Relevant: 1},
				Policy: analysis.PolicySummary{TotalRules: 1, Parsed: 1, Relevant: 1},
			},
			validation: analysis.AssignmentValidation{
				Possible:   true,
				Unexpected: []string{"10.0.0.77"},
			},
			wantPart: "unexpected SNAT rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommendations(tt.analysis, tt.validation)
			if !containsPart(recs, tt.wantPart) {
				t.Errorf("recommendations %v miss %q", recs, tt.wantPart)
			}
		})
	}
}

func TestRecommendations_CleanAnalysis(t *testing.T) {
	a := analysis.RuleAnalysis{
		NAT:         analysis.NATSummary{TotalRules: 1, Parsed: 1, Relevant: 1},
		Policy:      analysis.PolicySummary{TotalRules: 1, Parsed: 1, Relevant: 1},
		Correlation: analysis.Correlation{Determined: true, Score: 1.0},
	}
	validation := analysis.AssignmentValidation{Possible: true, Passed: true, Missing: []string{}, Unexpected: []string{}}

	recs := Recommendations(a, validation)
	if len(recs) != 1 || !strings.Contains(recs[0], "no major issues") {
		t.Errorf("recommendations = %v, want single all-clear entry", recs)
	}
}

func TestRecommendations_Deterministic(t *testing.T) {
	a := analysis.RuleAnalysis{
		Policy: analysis.PolicySummary{TotalRules: 1, Parsed: 1, Relevant: 1},
	}
	validation := analysis.AssignmentValidation{Possible: true, Missing: []string{"10.0.0.9"}}

	first := Recommendations(a, validation)
	second := Recommendations(a, validation)
	if len(first) != len(second) {
		t.Fatal("recommendation count varies between runs")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("recommendation %d varies: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestComparisonRecommendations(t *testing.T) {
	comparison := analysis.NodeComparison{
		Inconsistencies: []analysis.Inconsistency{
			{Type: analysis.InconsistencyCountMismatch, Description: "Different rule counts across nodes"},
			{Type: analysis.InconsistencyMissingIPs, Node: "node1"},
		},
	}

	recs := ComparisonRecommendations(comparison)
	if len(recs) != 2 {
		t.Fatalf("recommendations = %v, want 2", recs)
	}
	if !strings.Contains(recs[1], "node1") {
		t.Errorf("missing-IP recommendation should name the node: %q", recs[1])
	}

	clean := ComparisonRecommendations(analysis.NodeComparison{Consistent: true})
	if len(clean) != 1 || !strings.Contains(clean[0], "consistent") {
		t.Errorf("clean recommendations = %v", clean)
	}
}

func containsPart(recs []string, part string) bool {
	for _, rec := range recs {
		if strings.Contains(rec, part) {
			return true
		}
	}
	return false
}
