package analyzer

import (
	"reflect"
	"testing"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	"github.com/ovn-tools/egresswatch/internal/domain/assignment"
)

func TestAnalyze_FullCorrelation(t *testing.T) {
	natRules := ParseNATRules([]string{"snat 10.0.0.5 192.168.1.10 port1"}, nil)
	policyRules := ParsePolicyRules([]string{"100 ip4.src==192.168.1.10 reroute 10.0.0.5"}, nil)

	got := Analyze(natRules, policyRules)

	if got.NAT.TotalRules != 1 || got.NAT.Parsed != 1 || got.NAT.Relevant != 1 {
		t.Errorf("NAT summary = %+v", got.NAT)
	}
	if got.Policy.TotalRules != 1 || got.Policy.Parsed != 1 || got.Policy.Relevant != 1 {
		t.Errorf("Policy summary = %+v", got.Policy)
	}

	corr := got.Correlation
	if !corr.Determined {
		t.Fatal("correlation should be determined")
	}
	if corr.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", corr.Score)
	}
	if corr.Label != analysis.CorrelationGood {
		t.Errorf("Label = %q, want %q", corr.Label, analysis.CorrelationGood)
	}
	if !reflect.DeepEqual(corr.CorrelatedIPs, []string{"10.0.0.5"}) {
		t.Errorf("CorrelatedIPs = %v", corr.CorrelatedIPs)
	}
}

func TestAnalyze_UndeterminedWithoutNATRules(t *testing.T) {
	policyRules := ParsePolicyRules([]string{"100 ip4.src==10.0.0.1 drop"}, nil)

	got := Analyze(nil, policyRules)

	corr := got.Correlation
	if corr.Determined {
		t.Error("correlation over an empty NAT set must stay undetermined")
	}
	if corr.Label != analysis.CorrelationUndetermined {
		t.Errorf("Label = %q, want %q", corr.Label, analysis.CorrelationUndetermined)
	}
	if corr.Score != 0 {
		t.Errorf("Score = %v, undetermined score must not carry a value", corr.Score)
	}
}

func TestAnalyze_CorrelationLabels(t *testing.T) {
	tests := []struct {
		name      string
		nat       []string
		policy    []string
		wantScore float64
		wantLabel string
	}{
		{
			name: "moderate when two of three match",
			nat: []string{
				"snat 10.0.0.1 192.168.1.1 p1",
				"snat 10.0.0.2 192.168.1.2 p2",
				"snat 10.0.0.3 192.168.1.3 p3",
			},
			policy: []string{
				"100 ip4.src==192.168.1.1 reroute 10.0.0.1",
				"100 ip4.src==192.168.1.2 reroute 10.0.0.2",
			},
			wantScore: 2.0 / 3.0,
			wantLabel: analysis.CorrelationModerate,
		},
		{
			name: "poor when nothing matches",
			nat: []string{
				"snat 10.0.0.1 192.168.1.1 p1",
				"snat 10.0.0.2 192.168.1.2 p2",
			},
			policy: []string{
				"100 ip4.src==172.16.0.1 reroute 172.16.0.9",
			},
			wantScore: 0,
			wantLabel: analysis.CorrelationPoor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(ParseNATRules(tt.nat, nil), ParsePolicyRules(tt.policy, nil))

			corr := got.Correlation
			if !corr.Determined {
				t.Fatal("correlation should be determined")
			}
			if corr.Score < 0 || corr.Score > 1 {
				t.Errorf("Score = %v, out of [0,1]", corr.Score)
			}
			if corr.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", corr.Score, tt.wantScore)
			}
			if corr.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", corr.Label, tt.wantLabel)
			}
			if tt.wantLabel == analysis.CorrelationPoor && len(corr.Issues) == 0 {
				t.Error("poor correlation should report an issue")
			}
		})
	}
}

func TestAnalyze_ParseFailureDiagnostics(t *testing.T) {
	got := Analyze(ParseNATRules([]string{"snat incomplete"}, nil), nil)

	if got.NAT.Parsed != 0 {
		t.Errorf("Parsed = %d, want 0", got.NAT.Parsed)
	}
	if len(got.NAT.Issues) != 1 {
		t.Fatalf("Issues = %v, want one entry", got.NAT.Issues)
	}
	if got.NAT.Issues[0] != "Failed to parse rule: snat incomplete" {
		t.Errorf("Issue = %q", got.NAT.Issues[0])
	}
}

func TestValidateAssignments(t *testing.T) {
	assignments := []assignment.Assignment{
		{Name: "egress-a", DeclaredIPs: []string{"10.0.0.5", "10.0.0.9"}},
	}

	tests := []struct {
		name           string
		nat            []string
		wantMissing    []string
		wantUnexpected []string
		wantPassed     bool
	}{
		{
			name:           "exact match",
			nat:            []string{"snat 10.0.0.5 192.168.1.10 p1", "snat 10.0.0.9 192.168.1.11 p2"},
			wantMissing:    []string{},
			wantUnexpected: []string{},
			wantPassed:     true,
		},
		{
			name:           "missing declared IP",
			nat:            []string{"snat 10.0.0.5 192.168.1.10 p1"},
			wantMissing:    []string{"10.0.0.9"},
			wantUnexpected: []string{},
			wantPassed:     false,
		},
		{
			name:           "unexpected observed IP",
			nat:            []string{"snat 10.0.0.5 192.168.1.10 p1", "snat 10.0.0.9 192.168.1.11 p2", "snat 10.0.0.77 192.168.1.12 p3"},
			wantMissing:    []string{},
			wantUnexpected: []string{"10.0.0.77"},
			wantPassed:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateAssignments(ParseNATRules(tt.nat, nil), assignments)

			if !got.Possible {
				t.Fatal("validation should be possible")
			}
			if !reflect.DeepEqual(got.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
			if !reflect.DeepEqual(got.Unexpected, tt.wantUnexpected) {
				t.Errorf("Unexpected = %v, want %v", got.Unexpected, tt.wantUnexpected)
			}
			if got.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", got.Passed, tt.wantPassed)
			}
		})
	}
}

func TestValidateAssignments_EmptyRuleSet(t *testing.T) {
	assignments := []assignment.Assignment{
		{Name: "egress-b", DeclaredIPs: []string{"10.0.0.9"}},
	}

	got := ValidateAssignments(nil, assignments)
	if !reflect.DeepEqual(got.Missing, []string{"10.0.0.9"}) {
		t.Errorf("Missing = %v, want [10.0.0.9]", got.Missing)
	}
	if len(got.Unexpected) != 0 {
		t.Errorf("Unexpected = %v, want empty", got.Unexpected)
	}
	if got.Passed {
		t.Error("validation must not pass with missing rules")
	}
}

func TestSummarizePolicy_PriorityStats(t *testing.T) {
	rules := ParsePolicyRules([]string{
		"100 ip4.src==192.168.1.1 reroute 10.0.0.1",
		"100 ip4.src==192.168.1.2 reroute 10.0.0.2",
		"90 ip4.src==192.168.1.3 allow",
	}, nil)

	got := summarizePolicy(rules)
	if got.PriorityStats.Min != 90 || got.PriorityStats.Max != 100 {
		t.Errorf("PriorityStats = %+v", got.PriorityStats)
	}
	if got.PriorityStats.UniqueCount != 2 {
		t.Errorf("UniqueCount = %d, want 2", got.PriorityStats.UniqueCount)
	}
	if got.ActionTypes["reroute"] != 2 || got.ActionTypes["allow"] != 1 {
		t.Errorf("ActionTypes = %v", got.ActionTypes)
	}
}
