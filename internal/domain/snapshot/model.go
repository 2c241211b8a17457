package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Snapshot captures one node's rule state at a point in time. Snapshots
// are cycle-scoped; only derived trend data is retained long-term.
type Snapshot struct {
	Timestamp           time.Time `json:"timestamp"`
	NATCount            int       `json:"snat_count"`
	PolicyCount         int       `json:"lrp_count"`
	RelevantNATCount    int       `json:"egressip_snat_count"`
	RelevantPolicyCount int       `json:"egressip_lrp_count"`
	NATHash             string    `json:"snat_rules_hash"`
	PolicyHash          string    `json:"lrp_rules_hash"`
}

// HashRules produces a deterministic digest over a rule set. The input
// is sorted first, so the hash is independent of line ordering and
// stable across process restarts.
func HashRules(lines []string) string {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])
}

// CountChange records a count attribute transition between snapshots.
type CountChange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ChangeEvent is the delta between two consecutive snapshots, one field
// per changed attribute. Counts are compared by value, rule content by
// hash equality.
type ChangeEvent struct {
	Timestamp            time.Time    `json:"timestamp"`
	NATCount             *CountChange `json:"snat_count_change,omitempty"`
	PolicyCount          *CountChange `json:"lrp_count_change,omitempty"`
	RelevantNATCount     *CountChange `json:"egressip_snat_count_change,omitempty"`
	RelevantPolicyCount  *CountChange `json:"egressip_lrp_count_change,omitempty"`
	NATContentChanged    bool         `json:"snat_content_change,omitempty"`
	PolicyContentChanged bool         `json:"lrp_content_change,omitempty"`
}

// HasChanges reports whether any attribute differed.
func (e ChangeEvent) HasChanges() bool {
	return e.NATCount != nil ||
		e.PolicyCount != nil ||
		e.RelevantNATCount != nil ||
		e.RelevantPolicyCount != nil ||
		e.NATContentChanged ||
		e.PolicyContentChanged
}

// Diff compares two consecutive snapshots.
func Diff(prev, curr Snapshot) ChangeEvent {
	event := ChangeEvent{Timestamp: curr.Timestamp}

	if prev.NATCount != curr.NATCount {
		event.NATCount = &CountChange{From: prev.NATCount, To: curr.NATCount}
	}
	if prev.PolicyCount != curr.PolicyCount {
		event.PolicyCount = &CountChange{From: prev.PolicyCount, To: curr.PolicyCount}
	}
	if prev.RelevantNATCount != curr.RelevantNATCount {
		event.RelevantNATCount = &CountChange{From: prev.RelevantNATCount, To: curr.RelevantNATCount}
	}
	if prev.RelevantPolicyCount != curr.RelevantPolicyCount {
		event.RelevantPolicyCount = &CountChange{From: prev.RelevantPolicyCount, To: curr.RelevantPolicyCount}
	}
	event.NATContentChanged = prev.NATHash != curr.NATHash
	event.PolicyContentChanged = prev.PolicyHash != curr.PolicyHash

	return event
}

// Stability classifications
const (
	Stable       = "stable"
	MostlyStable = "mostly_stable"
	Unstable     = "unstable"
)

// Stability thresholds over one monitoring window.
const (
	mostlyStableMaxEvents = 2
)

// Assessment is the stability classification for a monitoring window.
type Assessment struct {
	Stability  string `json:"stability"`
	Assessment string `json:"assessment"`
	Confidence string `json:"confidence"`
	EventCount int    `json:"total_change_events"`
}

// ClassifyStability classifies a window of change events.
func ClassifyStability(events []ChangeEvent) Assessment {
	count := len(events)
	switch {
	case count == 0:
		return Assessment{
			Stability:  Stable,
			Assessment: "No rule changes detected during monitoring period",
			Confidence: "high",
		}
	case count <= mostlyStableMaxEvents:
		return Assessment{
			Stability:  MostlyStable,
			Assessment: "Minor rule changes detected",
			Confidence: "medium",
			EventCount: count,
		}
	default:
		return Assessment{
			Stability:  Unstable,
			Assessment: "Frequent rule changes detected",
			Confidence: "high",
			EventCount: count,
		}
	}
}

// Changes derives the change events of an ordered snapshot sequence,
// keeping only deltas where at least one attribute moved.
func Changes(snapshots []Snapshot) []ChangeEvent {
	var events []ChangeEvent
	for i := 1; i < len(snapshots); i++ {
		if event := Diff(snapshots[i-1], snapshots[i]); event.HasChanges() {
			events = append(events, event)
		}
	}
	return events
}
