package analyzer

import (
	"fmt"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
)

// Recommendations derives ordered, deterministic guidance from a node
// analysis. Fixed condition-to-message table; identical inputs always
// produce identical output.
func Recommendations(a analysis.RuleAnalysis, validation analysis.AssignmentValidation) []string {
	var recs []string

	switch {
	case a.NAT.TotalRules == 0:
		recs = append(recs, "No egress IP SNAT rules found - check if egress IP objects are properly configured")
	case a.NAT.Parsed < a.NAT.TotalRules:
		recs = append(recs, "Some SNAT rules failed to parse - review OVN rule format")
	case a.NAT.Relevant == 0:
		recs = append(recs, "No egress IP related SNAT rules detected - verify egress IP assignments")
	}

	switch {
	case a.Policy.TotalRules == 0:
		recs = append(recs, "No egress IP LRP rules found - this may indicate OVN configuration issues")
	case a.Policy.Parsed < a.Policy.TotalRules:
		recs = append(recs, "Some LRP rules failed to parse - review OVN rule format")
	case a.Policy.Relevant == 0:
		recs = append(recs, "No egress IP related LRP rules detected - check logical router policies")
	}

	if a.Correlation.Determined && a.Correlation.Score < moderateCorrelationThreshold {
		recs = append(recs, "Poor correlation between SNAT and LRP rules - investigate OVN rule synchronization")
	}

	if validation.Possible {
		if n := len(validation.Missing); n > 0 {
			recs = append(recs, fmt.Sprintf("Missing SNAT rules for %d egress IPs - check OVN rule creation", n))
		}
		if n := len(validation.Unexpected); n > 0 {
			recs = append(recs, fmt.Sprintf("Found %d unexpected SNAT rules - check for stale rules", n))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Rule analysis shows no major issues - periodic validation recommended")
	}

	return recs
}

// ComparisonRecommendations derives guidance from cross-node
// inconsistencies, in inconsistency order.
func ComparisonRecommendations(comparison analysis.NodeComparison) []string {
	var recs []string

	for _, inc := range comparison.Inconsistencies {
		switch inc.Type {
		case analysis.InconsistencyCountMismatch:
			recs = append(recs, "Rule count mismatch detected across nodes - verify egress IP distribution")
		case analysis.InconsistencyMissingIPs:
			recs = append(recs, fmt.Sprintf("Missing SNAT IPs on %s - check egress IP assignment", inc.Node))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Egress IP rules are consistent across all analyzed nodes")
	}

	return recs
}
