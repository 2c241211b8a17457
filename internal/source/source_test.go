package source

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ovn-tools/egresswatch/internal/config"
	apperrors "github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
)

type fakeRunner struct {
	output   []byte
	err      error
	lastName string
	lastArgs []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.lastName = name
	f.lastArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func testOVNConfig() config.OVNConfig {
	return config.OVNConfig{
		Router:            "ovn_cluster_router",
		OCBinary:          "oc",
		RequestsPerSecond: 100,
		Burst:             10,
	}
}

func TestDebugNodeSource_FetchRules(t *testing.T) {
	tests := []struct {
		name     string
		kind     RuleKind
		wantTail []string
	}{
		{name: "nat", kind: RuleKindNAT, wantTail: []string{"lr-nat-list", "ovn_cluster_router"}},
		{name: "policy", kind: RuleKindPolicy, wantTail: []string{"lr-policy-list", "ovn_cluster_router"}},
		{name: "database info", kind: RuleKindDatabaseInfo, wantTail: []string{"show"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: []byte("line one\nline two\n")}
			src := NewDebugNodeSource(testOVNConfig(), runner, logger.Nop())

			lines, err := src.FetchRules(context.Background(), "node1", tt.kind)
			if err != nil {
				t.Fatalf("FetchRules: %v", err)
			}

			if runner.lastName != "oc" {
				t.Errorf("binary = %q, want oc", runner.lastName)
			}
			wantHead := []string{"debug", "node/node1", "--", "chroot", "/host", "ovn-nbctl", "--no-leader-only"}
			want := append(wantHead, tt.wantTail...)
			if !reflect.DeepEqual(runner.lastArgs, want) {
				t.Errorf("args = %v, want %v", runner.lastArgs, want)
			}
			if len(lines) != 2 || lines[0] != "line one" {
				t.Errorf("lines = %v", lines)
			}
		})
	}
}

func TestDebugNodeSource_UnknownKind(t *testing.T) {
	src := NewDebugNodeSource(testOVNConfig(), &fakeRunner{}, logger.Nop())

	_, err := src.FetchRules(context.Background(), "node1", RuleKind("flows"))
	if err == nil {
		t.Fatal("expected error for unknown rule kind")
	}
	if apperrors.Code(err) != apperrors.ErrCodeBadRequest {
		t.Errorf("code = %q, want bad request", apperrors.Code(err))
	}
}

func TestDebugNodeSource_CommandFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("debug pod failed to start")}
	src := NewDebugNodeSource(testOVNConfig(), runner, logger.Nop())

	_, err := src.FetchRules(context.Background(), "node1", RuleKindNAT)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.Code(err) != apperrors.ErrCodeSourceUnavailable {
		t.Errorf("code = %q, want source unavailable", apperrors.Code(err))
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{name: "trailing newline", output: "a\nb\n", want: []string{"a", "b"}},
		{name: "blank and padded lines", output: "  a  \n\n   \nb", want: []string{"a", "b"}},
		{name: "empty output", output: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.output); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

func TestListAssignments(t *testing.T) {
	runner := &fakeRunner{output: []byte(`{
		"items": [
			{
				"metadata": {"name": "egress-prod", "namespace": "prod"},
				"spec": {"egressIPs": ["10.0.0.5", "10.0.0.6"]},
				"status": {"items": [
					{"node": "node1", "egressIP": "10.0.0.5"},
					{"node": "node2", "egressIP": "10.0.0.6"}
				]}
			},
			{
				"metadata": {"name": "egress-pending"},
				"spec": {"egressIPs": ["10.0.0.7"]},
				"status": {}
			}
		]
	}`)}
	src := NewKubeDesiredStateSource(testOVNConfig(), runner)

	assignments, err := src.ListAssignments(context.Background())
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}

	if want := []string{"get", "egressips", "-o", "json"}; !reflect.DeepEqual(runner.lastArgs, want) {
		t.Errorf("args = %v, want %v", runner.lastArgs, want)
	}
	if len(assignments) != 2 {
		t.Fatalf("got %d assignments, want 2", len(assignments))
	}
	prod := assignments[0]
	if prod.Name != "egress-prod" {
		t.Errorf("Name = %q", prod.Name)
	}
	if prod.Namespace != "prod" {
		t.Errorf("Namespace = %q, want %q", prod.Namespace, "prod")
	}
	if !reflect.DeepEqual(prod.DeclaredIPs, []string{"10.0.0.5", "10.0.0.6"}) {
		t.Errorf("DeclaredIPs = %v", prod.DeclaredIPs)
	}
	if len(prod.Observed) != 2 || prod.Observed[1].Node != "node2" {
		t.Errorf("Observed = %v", prod.Observed)
	}
	if len(assignments[1].Observed) != 0 {
		t.Errorf("pending assignment should carry no placements: %v", assignments[1].Observed)
	}
}

func TestListAssignments_BadJSON(t *testing.T) {
	src := NewKubeDesiredStateSource(testOVNConfig(), &fakeRunner{output: []byte("not json")})

	if _, err := src.ListAssignments(context.Background()); err == nil {
		t.Fatal("expected error for malformed output")
	}
}

func TestClusterSource_NodeCounts(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
	}{
		{name: "three nodes", output: "node1 Ready\nnode2 Ready\nnode3 Ready\n", want: 3},
		{name: "trailing newline only", output: "node1 Ready\n", want: 1},
		{name: "no nodes", output: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewKubeClusterSource(testOVNConfig(), &fakeRunner{output: []byte(tt.output)})
			got, err := src.NodeCount(context.Background())
			if err != nil {
				t.Fatalf("NodeCount: %v", err)
			}
			if got != tt.want {
				t.Errorf("NodeCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClusterSource_CapableNodeCountSelector(t *testing.T) {
	runner := &fakeRunner{output: []byte("node2 Ready\n")}
	src := NewKubeClusterSource(testOVNConfig(), runner)

	if _, err := src.CapableNodeCount(context.Background()); err != nil {
		t.Fatalf("CapableNodeCount: %v", err)
	}
	found := false
	for _, arg := range runner.lastArgs {
		if arg == "k8s.ovn.org/egress-assignable=true" {
			found = true
		}
	}
	if !found {
		t.Errorf("args = %v, want egress-assignable label selector", runner.lastArgs)
	}
}

func TestClusterSource_NetworkType(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "ovn", output: `{"spec": {"defaultNetwork": {"type": "OVNKubernetes"}}}`, want: "OVNKubernetes"},
		{name: "missing type", output: `{"spec": {}}`, want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewKubeClusterSource(testOVNConfig(), &fakeRunner{output: []byte(tt.output)})
			got, err := src.NetworkType(context.Background())
			if err != nil {
				t.Fatalf("NetworkType: %v", err)
			}
			if got != tt.want {
				t.Errorf("NetworkType = %q, want %q", got, tt.want)
			}
		})
	}
}
