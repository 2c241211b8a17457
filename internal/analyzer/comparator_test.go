package analyzer

import (
	"reflect"
	"testing"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

func TestCompareNodes_MissingIPs(t *testing.T) {
	reports := []analysis.NodeReport{
		{Node: "node1", NATRuleCount: 1, PolicyRuleCount: 1, RelevantNATIPs: []string{"10.0.0.5"}},
		{Node: "node2", NATRuleCount: 2, PolicyRuleCount: 2, RelevantNATIPs: []string{"10.0.0.5", "10.0.0.6"}},
	}

	got := CompareNodes(reports)

	if got.Consistent {
		t.Error("comparison should be inconsistent")
	}
	if !got.CountMismatch {
		t.Error("differing counts should flag a mismatch")
	}
	if !reflect.DeepEqual(got.PerNodeMissing["node1"], []string{"10.0.0.6"}) {
		t.Errorf("node1 missing = %v, want [10.0.0.6]", got.PerNodeMissing["node1"])
	}
	if _, flagged := got.PerNodeMissing["node2"]; flagged {
		t.Error("node2 holds the full union and must not be flagged")
	}
}

func TestCompareNodes_Consistent(t *testing.T) {
	reports := []analysis.NodeReport{
		{Node: "node1", NATRuleCount: 2, PolicyRuleCount: 2, RelevantNATIPs: []string{"10.0.0.5", "10.0.0.6"}},
		{Node: "node2", NATRuleCount: 2, PolicyRuleCount: 2, RelevantNATIPs: []string{"10.0.0.6", "10.0.0.5"}},
	}

	got := CompareNodes(reports)

	if !got.Consistent {
		t.Errorf("comparison should be consistent, got %+v", got.Inconsistencies)
	}
	if len(got.PerNodeMissing) != 0 {
		t.Errorf("PerNodeMissing = %v, want empty", got.PerNodeMissing)
	}
}

func TestCompareNodes_CountMismatchOnly(t *testing.T) {
	reports := []analysis.NodeReport{
		{Node: "node1", NATRuleCount: 3, PolicyRuleCount: 2, RelevantNATIPs: []string{"10.0.0.5"}},
		{Node: "node2", NATRuleCount: 2, PolicyRuleCount: 2, RelevantNATIPs: []string{"10.0.0.5"}},
	}

	got := CompareNodes(reports)

	if !got.CountMismatch {
		t.Error("count mismatch not detected")
	}
	if len(got.Inconsistencies) != 1 {
		t.Fatalf("Inconsistencies = %v, want exactly the count mismatch", got.Inconsistencies)
	}
	if got.Inconsistencies[0].Type != analysis.InconsistencyCountMismatch {
		t.Errorf("Type = %q", got.Inconsistencies[0].Type)
	}
}

func TestCompareNodes_DeterministicOrder(t *testing.T) {
	reports := []analysis.NodeReport{
		{Node: "node3", RelevantNATIPs: []string{"10.0.0.1"}},
		{Node: "node1", RelevantNATIPs: []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}},
		{Node: "node2", RelevantNATIPs: []string{"10.0.0.1"}},
	}

	first := CompareNodes(reports)
	second := CompareNodes(reports)
	if !reflect.DeepEqual(first, second) {
		t.Error("comparison output must be deterministic")
	}

	// Missing-IP inconsistencies come in node order.
	var nodes []string
	for _, inc := range first.Inconsistencies {
		if inc.Type == analysis.InconsistencyMissingIPs {
			nodes = append(nodes, inc.Node)
		}
	}
	if !reflect.DeepEqual(nodes, []string{"node2", "node3"}) {
		t.Errorf("flagged nodes = %v, want [node2 node3]", nodes)
	}
}
