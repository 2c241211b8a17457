package source

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ovn-tools/egresswatch/internal/config"
	"github.com/ovn-tools/egresswatch/internal/domain/assignment"
	"github.com/ovn-tools/egresswatch/internal/pkg/errors"
)

// KubeDesiredStateSource reads declared egress IP assignments from the
// cluster API.
type KubeDesiredStateSource struct {
	ocBinary string
	runner   CommandRunner
}

// NewKubeDesiredStateSource creates a desired-state source backed by oc.
func NewKubeDesiredStateSource(cfg config.OVNConfig, runner CommandRunner) *KubeDesiredStateSource {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &KubeDesiredStateSource{ocBinary: cfg.OCBinary, runner: runner}
}

type egressIPList struct {
	Items []struct {
		Metadata struct {
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
		} `json:"metadata"`
		Spec struct {
			EgressIPs []string `json:"egressIPs"`
		} `json:"spec"`
		Status struct {
			Items []struct {
				Node     string `json:"node"`
				EgressIP string `json:"egressIP"`
			} `json:"items"`
		} `json:"status"`
	} `json:"items"`
}

// ListAssignments lists the current egress IP objects.
func (s *KubeDesiredStateSource) ListAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	output, err := s.runner.Run(ctx, s.ocBinary, "get", "egressips", "-o", "json")
	if err != nil {
		return nil, errors.SourceUnavailable("egress IP objects", err)
	}

	var list egressIPList
	if err := json.Unmarshal(output, &list); err != nil {
		return nil, errors.SourceUnavailable("egress IP objects", err)
	}

	assignments := make([]assignment.Assignment, 0, len(list.Items))
	for _, item := range list.Items {
		a := assignment.Assignment{
			Name:        item.Metadata.Name,
			Namespace:   item.Metadata.Namespace,
			DeclaredIPs: item.Spec.EgressIPs,
		}
		for _, status := range item.Status.Items {
			a.Observed = append(a.Observed, assignment.Item{
				Node:     status.Node,
				EgressIP: status.EgressIP,
			})
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// KubeClusterSource reports cluster shape via oc queries.
type KubeClusterSource struct {
	ocBinary string
	runner   CommandRunner
}

// NewKubeClusterSource creates a cluster source backed by oc.
func NewKubeClusterSource(cfg config.OVNConfig, runner CommandRunner) *KubeClusterSource {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &KubeClusterSource{ocBinary: cfg.OCBinary, runner: runner}
}

// NodeCount counts cluster nodes.
func (s *KubeClusterSource) NodeCount(ctx context.Context) (int, error) {
	return s.countLines(ctx, "get", "nodes", "--no-headers")
}

// CapableNodeCount counts nodes labeled as egress-assignable.
func (s *KubeClusterSource) CapableNodeCount(ctx context.Context) (int, error) {
	return s.countLines(ctx, "get", "nodes", "-l", "k8s.ovn.org/egress-assignable=true", "--no-headers")
}

// NetworkType reports the default cluster network plugin.
func (s *KubeClusterSource) NetworkType(ctx context.Context) (string, error) {
	output, err := s.runner.Run(ctx, s.ocBinary, "get", "network.operator", "cluster", "-o", "json")
	if err != nil {
		return "", errors.SourceUnavailable("cluster network configuration", err)
	}

	var network struct {
		Spec struct {
			DefaultNetwork struct {
				Type string `json:"type"`
			} `json:"defaultNetwork"`
		} `json:"spec"`
	}
	if err := json.Unmarshal(output, &network); err != nil {
		return "", errors.SourceUnavailable("cluster network configuration", err)
	}
	if network.Spec.DefaultNetwork.Type == "" {
		return "unknown", nil
	}
	return network.Spec.DefaultNetwork.Type, nil
}

func (s *KubeClusterSource) countLines(ctx context.Context, args ...string) (int, error) {
	output, err := s.runner.Run(ctx, s.ocBinary, args...)
	if err != nil {
		return 0, errors.SourceUnavailable("cluster nodes", err)
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return 0, nil
	}
	return len(strings.Split(trimmed, "\n")), nil
}
