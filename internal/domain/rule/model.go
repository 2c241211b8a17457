package rule

// Kind identifies which OVN rule family a raw line came from.
type Kind string

const (
	// KindNAT is a NAT entry from lr-nat-list output
	KindNAT Kind = "nat"
	// KindPolicy is a logical router policy from lr-policy-list output
	KindPolicy Kind = "policy"
)

// Classifier decides whether a raw rule line belongs to the egress IP
// feature. The relatedness heuristic is expected to evolve, so it is
// injected rather than hard-coded into the parser.
type Classifier func(line string) bool

// ParsedRule is the structured form of one raw rule line. A rule that
// failed to parse carries only the raw text and failure accounting; its
// structured fields must not be trusted.
type ParsedRule struct {
	Kind Kind `json:"kind"`

	// NAT fields
	ExternalIP  string `json:"external_ip,omitempty"`
	LogicalIP   string `json:"logical_ip,omitempty"`
	LogicalPort string `json:"logical_port,omitempty"`

	// Policy fields
	Priority int    `json:"priority,omitempty"`
	Match    string `json:"match,omitempty"`
	Action   string `json:"action,omitempty"`

	Raw          string `json:"raw_rule"`
	ParseSuccess bool   `json:"parsed_successfully"`
	Relevant     bool   `json:"egressip_related"`
}
