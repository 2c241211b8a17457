package assignment

// Item is one enforced egress IP placement reported by the control plane.
type Item struct {
	Node     string `json:"node"`
	EgressIP string `json:"egress_ip"`
}

// Assignment is the declared source-of-truth state for one egress IP
// object: the IPs the operator asked for and the placements the control
// plane reports. Read-only input; the engine never mutates it.
type Assignment struct {
	Name        string   `json:"name"`
	Namespace   string   `json:"namespace"`
	DeclaredIPs []string `json:"spec_ips"`
	Observed    []Item   `json:"status_items"`
}

// Assignment status values
const (
	StatusReady   = "ready"
	StatusPartial = "partial"
	StatusPending = "pending"
)

// Status reports how completely the declared IPs are placed.
func (a Assignment) Status() string {
	switch {
	case len(a.Observed) == len(a.DeclaredIPs) && len(a.DeclaredIPs) > 0:
		return StatusReady
	case len(a.Observed) > 0:
		return StatusPartial
	default:
		return StatusPending
	}
}

// AssignedNodes returns the distinct nodes holding placements.
func (a Assignment) AssignedNodes() []string {
	return distinct(a.Observed, func(i Item) string { return i.Node })
}

// AssignedIPs returns the distinct enforced egress IPs.
func (a Assignment) AssignedIPs() []string {
	return distinct(a.Observed, func(i Item) string { return i.EgressIP })
}

func distinct(items []Item, key func(Item) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// DeclaredIPSet collects every declared IP across assignments.
func DeclaredIPSet(assignments []Assignment) map[string]struct{} {
	set := make(map[string]struct{})
	for _, a := range assignments {
		for _, ip := range a.DeclaredIPs {
			if ip != "" {
				set[ip] = struct{}{}
			}
		}
	}
	return set
}
