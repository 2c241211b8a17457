package snapshot

import (
	"testing"
	"time"
)

func TestHashRules_OrderIndependent(t *testing.T) {
	a := HashRules([]string{"snat 10.0.0.5 192.168.1.10 p1", "snat 10.0.0.6 192.168.1.11 p2"})
	b := HashRules([]string{"snat 10.0.0.6 192.168.1.11 p2", "snat 10.0.0.5 192.168.1.10 p1"})
	if a != b {
		t.Error("hash must be independent of line order")
	}
}

func TestHashRules_ContentSensitive(t *testing.T) {
	a := HashRules([]string{"snat 10.0.0.5 192.168.1.10 p1"})
	b := HashRules([]string{"snat 10.0.0.6 192.168.1.10 p1"})
	if a == b {
		t.Error("differing content must produce differing hashes")
	}
}

func TestHashRules_DoesNotMutateInput(t *testing.T) {
	lines := []string{"b", "a"}
	HashRules(lines)
	if lines[0] != "b" || lines[1] != "a" {
		t.Error("input slice was reordered")
	}
}

func TestDiff(t *testing.T) {
	base := Snapshot{
		Timestamp:        time.Now(),
		NATCount:         2,
		PolicyCount:      3,
		RelevantNATCount: 1,
		NATHash:          "aaa",
		PolicyHash:       "bbb",
	}

	t.Run("no changes", func(t *testing.T) {
		event := Diff(base, base)
		if event.HasChanges() {
			t.Errorf("identical snapshots produced changes: %+v", event)
		}
	})

	t.Run("count change", func(t *testing.T) {
		curr := base
		curr.NATCount = 3
		curr.NATHash = "ccc"

		event := Diff(base, curr)
		if !event.HasChanges() {
			t.Fatal("changes not detected")
		}
		if event.NATCount == nil || event.NATCount.From != 2 || event.NATCount.To != 3 {
			t.Errorf("NATCount = %+v", event.NATCount)
		}
		if !event.NATContentChanged {
			t.Error("content change not detected")
		}
		if event.PolicyCount != nil || event.PolicyContentChanged {
			t.Error("unchanged attributes were flagged")
		}
	})

	t.Run("content change with stable counts", func(t *testing.T) {
		curr := base
		curr.PolicyHash = "ddd"

		event := Diff(base, curr)
		if !event.HasChanges() {
			t.Fatal("content-only change not detected")
		}
		if event.PolicyCount != nil {
			t.Error("count change flagged without a count change")
		}
		if !event.PolicyContentChanged {
			t.Error("policy content change not detected")
		}
	})
}

func TestChanges_StableWindow(t *testing.T) {
	var snapshots []Snapshot
	for i := 0; i < 5; i++ {
		snapshots = append(snapshots, Snapshot{
			Timestamp:   time.Now().Add(time.Duration(i) * time.Second),
			NATCount:    2,
			PolicyCount: 3,
			NATHash:     "aaa",
			PolicyHash:  "bbb",
		})
	}

	events := Changes(snapshots)
	if len(events) != 0 {
		t.Fatalf("events = %d, want 0", len(events))
	}

	assessment := ClassifyStability(events)
	if assessment.Stability != Stable {
		t.Errorf("Stability = %q, want %q", assessment.Stability, Stable)
	}
	if assessment.Confidence != "high" {
		t.Errorf("Confidence = %q, want high", assessment.Confidence)
	}
}

func TestChanges_DetectsDrift(t *testing.T) {
	snapshots := []Snapshot{
		{NATCount: 2, NATHash: "aaa", PolicyHash: "bbb"},
		{NATCount: 2, NATHash: "aaa", PolicyHash: "bbb"},
		{NATCount: 3, NATHash: "ccc", PolicyHash: "bbb"},
	}

	events := Changes(snapshots)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].NATCount == nil {
		t.Error("count transition missing from event")
	}
}

func TestClassifyStability(t *testing.T) {
	tests := []struct {
		events         int
		wantStability  string
		wantConfidence string
	}{
		{0, Stable, "high"},
		{1, MostlyStable, "medium"},
		{2, MostlyStable, "medium"},
		{3, Unstable, "high"},
		{10, Unstable, "high"},
	}

	for _, tt := range tests {
		events := make([]ChangeEvent, tt.events)
		got := ClassifyStability(events)
		if got.Stability != tt.wantStability {
			t.Errorf("ClassifyStability(%d events) = %q, want %q", tt.events, got.Stability, tt.wantStability)
		}
		if got.Confidence != tt.wantConfidence {
			t.Errorf("ClassifyStability(%d events) confidence = %q, want %q", tt.events, got.Confidence, tt.wantConfidence)
		}
		if got.EventCount != tt.events && tt.events > 0 {
			t.Errorf("EventCount = %d, want %d", got.EventCount, tt.events)
		}
	}
}
