package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ovn-tools/egresswatch/internal/domain/rule"
)

var ipv4Pattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

// DefaultNATClassifier is the stock relatedness heuristic for NAT rules:
// an egressip keyword, the egress and ip words together, or any IPv4
// literal. Best-effort; callers may inject their own.
func DefaultNATClassifier(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "egressip") {
		return true
	}
	if strings.Contains(lower, "egress") && strings.Contains(lower, "ip") {
		return true
	}
	return ipv4Pattern.MatchString(line)
}

// DefaultPolicyClassifier additionally treats reroute policies as related.
func DefaultPolicyClassifier(line string) bool {
	if strings.Contains(strings.ToLower(line), "reroute") {
		return true
	}
	return DefaultNATClassifier(line)
}

// ParseNATLine parses one NAT rule line: at least 4 whitespace tokens
// with the first case-insensitively "snat". It never fails hard: a line
// that does not fit comes back with ParseSuccess false and the raw text
// preserved verbatim, so downstream counts keep their denominator.
func ParseNATLine(line string, relevant rule.Classifier) rule.ParsedRule {
	if relevant == nil {
		relevant = DefaultNATClassifier
	}

	parts := strings.Fields(line)
	if len(parts) >= 4 && strings.EqualFold(parts[0], "snat") {
		return rule.ParsedRule{
			Kind:         rule.KindNAT,
			ExternalIP:   parts[1],
			LogicalIP:    parts[2],
			LogicalPort:  parts[3],
			Raw:          line,
			ParseSuccess: true,
			Relevant:     relevant(line),
		}
	}

	return rule.ParsedRule{
		Kind: rule.KindNAT,
		Raw:  line,
	}
}

// ParsePolicyLine parses one logical router policy line: integer
// priority, match, and the rest of the line as action. Same guarantee
// as ParseNATLine: malformed input yields a failed record, never an
// error.
func ParsePolicyLine(line string, relevant rule.Classifier) rule.ParsedRule {
	if relevant == nil {
		relevant = DefaultPolicyClassifier
	}

	parts := strings.Fields(line)
	if len(parts) >= 3 {
		priority, err := strconv.Atoi(parts[0])
		if err == nil {
			return rule.ParsedRule{
				Kind:         rule.KindPolicy,
				Priority:     priority,
				Match:        parts[1],
				Action:       strings.Join(parts[2:], " "),
				Raw:          line,
				ParseSuccess: true,
				Relevant:     relevant(line),
			}
		}
	}

	return rule.ParsedRule{
		Kind: rule.KindPolicy,
		Raw:  line,
	}
}

// ParseNATRules parses a raw lr-nat-list dump. Only lines mentioning
// snat are rule lines; everything else is table chrome.
func ParseNATRules(lines []string, relevant rule.Classifier) []rule.ParsedRule {
	var rules []rule.ParsedRule
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(strings.ToLower(line), "snat") {
			continue
		}
		rules = append(rules, ParseNATLine(line, relevant))
	}
	return rules
}

// ParsePolicyRules parses a raw lr-policy-list dump, skipping the
// "Routing Policies" header.
func ParsePolicyRules(lines []string, relevant rule.Classifier) []rule.ParsedRule {
	var rules []rule.ParsedRule
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Routing") {
			continue
		}
		rules = append(rules, ParsePolicyLine(line, relevant))
	}
	return rules
}

// ExtractIPs returns the IPv4 literals found in text, in order of
// appearance.
func ExtractIPs(text string) []string {
	return ipv4Pattern.FindAllString(text, -1)
}
