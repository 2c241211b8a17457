package analyzer

import (
	"fmt"
	"sort"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

// CompareNodes diffs rule state across nodes. Egress IP NAT rules are
// expected to be replicated identically on every node, not partitioned,
// so detection is asymmetric: a node is flagged only for IPs it lacks
// relative to the union, never for carrying extras.
func CompareNodes(reports []analysis.NodeReport) analysis.NodeComparison {
	comparison := analysis.NodeComparison{
		PerNodeMissing:  map[string][]string{},
		Inconsistencies: []analysis.Inconsistency{},
	}

	// Count mismatch: more than one distinct (nat, policy) tuple.
	tuples := make(map[[2]int]struct{})
	for _, report := range reports {
		tuples[[2]int{report.NATRuleCount, report.PolicyRuleCount}] = struct{}{}
	}
	if len(tuples) > 1 {
		comparison.CountMismatch = true
		comparison.Inconsistencies = append(comparison.Inconsistencies, analysis.Inconsistency{
			Type:        analysis.InconsistencyCountMismatch,
			Description: "Different rule counts across nodes",
		})
	}

	union := make(map[string]struct{})
	for _, report := range reports {
		for _, ip := range report.RelevantNATIPs {
			union[ip] = struct{}{}
		}
	}

	sorted := make([]analysis.NodeReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Node < sorted[j].Node })

	for _, report := range sorted {
		nodeIPs := make(map[string]struct{}, len(report.RelevantNATIPs))
		for _, ip := range report.RelevantNATIPs {
			nodeIPs[ip] = struct{}{}
		}

		var missing []string
		for ip := range union {
			if _, ok := nodeIPs[ip]; !ok {
				missing = append(missing, ip)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)

		comparison.PerNodeMissing[report.Node] = missing
		comparison.Inconsistencies = append(comparison.Inconsistencies, analysis.Inconsistency{
			Type:        analysis.InconsistencyMissingIPs,
			Node:        report.Node,
			Description: fmt.Sprintf("Missing SNAT IPs on node %s", report.Node),
			MissingIPs:  missing,
		})
	}

	comparison.Consistent = len(comparison.Inconsistencies) == 0
	return comparison
}
