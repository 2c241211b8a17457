package analyzer

import (
	"fmt"
	"sort"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	"github.com/ovn-tools/egresswatch/internal/domain/assignment"
	"github.com/ovn-tools/egresswatch/internal/domain/rule"
)

// Correlation label thresholds
const (
	goodCorrelationThreshold     = 0.8
	moderateCorrelationThreshold = 0.5
)

// Analyze summarizes parsed NAT and policy rules and correlates them.
// Pure and synchronous; safe under unbounded concurrent invocation.
func Analyze(natRules, policyRules []rule.ParsedRule) analysis.RuleAnalysis {
	return analysis.RuleAnalysis{
		NAT:         summarizeNAT(natRules),
		Policy:      summarizePolicy(policyRules),
		Correlation: correlate(natRules, policyRules),
	}
}

func summarizeNAT(rules []rule.ParsedRule) analysis.NATSummary {
	summary := analysis.NATSummary{
		TotalRules:  len(rules),
		ExternalIPs: []string{},
		LogicalIPs:  []string{},
		Issues:      []string{},
	}

	externalIPs := make(map[string]struct{})
	logicalIPs := make(map[string]struct{})

	for _, r := range rules {
		if !r.ParseSuccess {
			summary.Issues = append(summary.Issues, fmt.Sprintf("Failed to parse rule: %s", r.Raw))
			continue
		}
		summary.Parsed++
		if r.Relevant {
			summary.Relevant++
		}
		if r.ExternalIP != "" {
			externalIPs[r.ExternalIP] = struct{}{}
		}
		if r.LogicalIP != "" {
			logicalIPs[r.LogicalIP] = struct{}{}
		}
	}

	summary.ExternalIPs = sortedKeys(externalIPs)
	summary.LogicalIPs = sortedKeys(logicalIPs)
	return summary
}

func summarizePolicy(rules []rule.ParsedRule) analysis.PolicySummary {
	summary := analysis.PolicySummary{
		TotalRules:  len(rules),
		Priorities:  []int{},
		ActionTypes: map[string]int{},
		Issues:      []string{},
	}

	unique := make(map[int]struct{})

	for _, r := range rules {
		if !r.ParseSuccess {
			summary.Issues = append(summary.Issues, fmt.Sprintf("Failed to parse rule: %s", r.Raw))
			continue
		}
		summary.Parsed++
		if r.Relevant {
			summary.Relevant++
		}

		summary.Priorities = append(summary.Priorities, r.Priority)
		unique[r.Priority] = struct{}{}

		action := "unknown"
		if fields := splitFirst(r.Action); fields != "" {
			action = fields
		}
		summary.ActionTypes[action]++
	}

	if len(summary.Priorities) > 0 {
		stats := analysis.PriorityStats{
			Min:         summary.Priorities[0],
			Max:         summary.Priorities[0],
			UniqueCount: len(unique),
		}
		for _, p := range summary.Priorities[1:] {
			if p < stats.Min {
				stats.Min = p
			}
			if p > stats.Max {
				stats.Max = p
			}
		}
		summary.PriorityStats = stats
	}

	return summary
}

// correlate intersects the external IPs of relevant NAT rules with the
// IPv4 literals referenced by relevant policy rules. The score is
// |A∩B| / |A|, defined only when both sets are non-empty; otherwise the
// correlation is explicitly undetermined, never coerced to zero.
func correlate(natRules, policyRules []rule.ParsedRule) analysis.Correlation {
	natIPs := make(map[string]struct{})
	for _, r := range natRules {
		if r.ParseSuccess && r.Relevant && r.ExternalIP != "" {
			natIPs[r.ExternalIP] = struct{}{}
		}
	}

	policyIPs := make(map[string]struct{})
	for _, r := range policyRules {
		if !r.ParseSuccess || !r.Relevant {
			continue
		}
		for _, ip := range ExtractIPs(r.Match + " " + r.Action) {
			policyIPs[ip] = struct{}{}
		}
	}

	correlated := make(map[string]struct{})
	for ip := range natIPs {
		if _, ok := policyIPs[ip]; ok {
			correlated[ip] = struct{}{}
		}
	}

	corr := analysis.Correlation{
		Label:         analysis.CorrelationUndetermined,
		NATIPs:        sortedKeys(natIPs),
		PolicyIPs:     sortedKeys(policyIPs),
		CorrelatedIPs: sortedKeys(correlated),
		Issues:        []string{},
	}

	if len(natIPs) == 0 || len(policyIPs) == 0 {
		return corr
	}

	corr.Determined = true
	corr.Score = float64(len(correlated)) / float64(len(natIPs))

	switch {
	case corr.Score > goodCorrelationThreshold:
		corr.Label = analysis.CorrelationGood
	case corr.Score > moderateCorrelationThreshold:
		corr.Label = analysis.CorrelationModerate
	default:
		corr.Label = analysis.CorrelationPoor
		corr.Issues = append(corr.Issues, "Low correlation between egress IP SNAT and LRP rules")
	}

	return corr
}

// ValidateAssignments cross-checks relevant NAT rules against the
// declared assignment state. Missing and unexpected sets come back
// sorted so reports are reproducible. The assignments are read-only.
func ValidateAssignments(natRules []rule.ParsedRule, assignments []assignment.Assignment) analysis.AssignmentValidation {
	declared := assignment.DeclaredIPSet(assignments)

	observed := make(map[string]struct{})
	for _, r := range natRules {
		if r.ParseSuccess && r.Relevant && r.ExternalIP != "" {
			observed[r.ExternalIP] = struct{}{}
		}
	}

	var missing, unexpected []string
	for ip := range declared {
		if _, ok := observed[ip]; !ok {
			missing = append(missing, ip)
		}
	}
	for ip := range observed {
		if _, ok := declared[ip]; !ok {
			unexpected = append(unexpected, ip)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	if missing == nil {
		missing = []string{}
	}
	if unexpected == nil {
		unexpected = []string{}
	}

	return analysis.AssignmentValidation{
		Possible:   true,
		Missing:    missing,
		Unexpected: unexpected,
		Passed:     len(missing) == 0 && len(unexpected) == 0,
		Declared:   len(declared),
		Observed:   len(observed),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitFirst(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' {
			return s[:i]
		}
	}
	return s
}
