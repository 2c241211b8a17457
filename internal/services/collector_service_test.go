package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ovn-tools/egresswatch/internal/domain/assignment"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/testutil"
)

func TestCollectStatus(t *testing.T) {
	desired := &testutil.MockDesiredStateSource{
		Assignments: []assignment.Assignment{
			{
				Name:        "egress-prod",
				Namespace:   "prod",
				DeclaredIPs: []string{"10.0.0.5", "10.0.0.6"},
				Observed: []assignment.Item{
					{Node: "node1", EgressIP: "10.0.0.5"},
					{Node: "node2", EgressIP: "10.0.0.6"},
				},
			},
			{
				Name:        "egress-pending",
				DeclaredIPs: []string{"10.0.0.7"},
			},
		},
	}
	store := testutil.NewMockMetricRepository()
	svc := NewCollectorService(desired, nil, nil, store, logger.Nop())

	if err := svc.CollectStatus(context.Background()); err != nil {
		t.Fatalf("CollectStatus: %v", err)
	}

	if len(store.StatusRecords) != 2 {
		t.Fatalf("stored %d status records, want 2", len(store.StatusRecords))
	}
	prod := store.StatusRecords[0]
	if prod.Status != assignment.StatusReady {
		t.Errorf("status = %q, want %q", prod.Status, assignment.StatusReady)
	}
	if prod.Namespace != "prod" {
		t.Errorf("Namespace = %q, want %q", prod.Namespace, "prod")
	}
	if prod.AssignedNodes != "node1,node2" {
		t.Errorf("AssignedNodes = %q", prod.AssignedNodes)
	}
	if prod.AssignedIPs != "10.0.0.5,10.0.0.6" {
		t.Errorf("AssignedIPs = %q", prod.AssignedIPs)
	}
	if prod.Record == "" {
		t.Error("record blob should hold the marshaled assignment")
	}
	if store.StatusRecords[1].Status != assignment.StatusPending {
		t.Errorf("status = %q, want %q", store.StatusRecords[1].Status, assignment.StatusPending)
	}
}

func TestCollectStatus_ListFailure(t *testing.T) {
	desired := &testutil.MockDesiredStateSource{ListError: errors.New("api unreachable")}
	svc := NewCollectorService(desired, nil, nil, testutil.NewMockMetricRepository(), logger.Nop())

	if err := svc.CollectStatus(context.Background()); err == nil {
		t.Fatal("expected error when assignments cannot be listed")
	}
}

func TestCollectClusterMetrics(t *testing.T) {
	desired := &testutil.MockDesiredStateSource{
		Assignments: []assignment.Assignment{{Name: "egress-prod"}},
	}
	cluster := &testutil.MockClusterSource{Nodes: 6, CapableNodes: 3, Network: "OVNKubernetes"}
	prom := &testutil.MockMetricsSource{Values: map[string]float64{
		clusterQueries["pods_with_egressip"]: 12,
		clusterQueries["ovnkube_pods_ready"]: 6,
	}}
	store := testutil.NewMockMetricRepository()
	svc := NewCollectorService(desired, cluster, prom, store, logger.Nop())

	if err := svc.CollectClusterMetrics(context.Background()); err != nil {
		t.Fatalf("CollectClusterMetrics: %v", err)
	}

	if len(store.ClusterMetrics) != 1 {
		t.Fatalf("stored %d cluster metrics, want 1", len(store.ClusterMetrics))
	}
	rec := store.ClusterMetrics[0]
	if rec.TotalEgressIPs != 1 || rec.TotalNodes != 6 || rec.CapableNodes != 3 {
		t.Errorf("cluster record = %+v", rec)
	}
	if rec.NetworkType != "OVNKubernetes" {
		t.Errorf("NetworkType = %q", rec.NetworkType)
	}
	if rec.PodsWithEgressIP != 12 {
		t.Errorf("PodsWithEgressIP = %d, want 12", rec.PodsWithEgressIP)
	}
	if rec.PromMetrics == "" {
		t.Error("prometheus values should be stored as a blob")
	}
}

func TestCollectClusterMetrics_NilSources(t *testing.T) {
	desired := &testutil.MockDesiredStateSource{}
	store := testutil.NewMockMetricRepository()
	svc := NewCollectorService(desired, nil, nil, store, logger.Nop())

	if err := svc.CollectClusterMetrics(context.Background()); err != nil {
		t.Fatalf("CollectClusterMetrics without cluster/prom sources: %v", err)
	}
	if len(store.ClusterMetrics) != 1 {
		t.Fatal("a row should still be appended")
	}
	if store.ClusterMetrics[0].PodsWithEgressIP != 0 {
		t.Error("pod count should stay zero without prometheus")
	}
}

func TestCollectNetworkMetrics(t *testing.T) {
	prom := &testutil.MockMetricsSource{Values: map[string]float64{
		fmt.Sprintf(networkQueries["bytes_transmitted_rate"], "node1"): 1000,
		fmt.Sprintf(networkQueries["bytes_received_rate"], "node1"):    500,
		fmt.Sprintf(networkQueries["network_errors_rate"], "node1"):    2,
	}}
	store := testutil.NewMockMetricRepository()
	svc := NewCollectorService(&testutil.MockDesiredStateSource{}, nil, prom, store, logger.Nop())

	if err := svc.CollectNetworkMetrics(context.Background(), []string{"node1", "node2"}); err != nil {
		t.Fatalf("CollectNetworkMetrics: %v", err)
	}

	if len(store.NetworkMetrics) != 2 {
		t.Fatalf("stored %d network metrics, want one per node", len(store.NetworkMetrics))
	}
	n1 := store.NetworkMetrics[0]
	if n1.TxBytesRate != 1000 || n1.RxBytesRate != 500 {
		t.Errorf("node1 rates = %v/%v", n1.TxBytesRate, n1.RxBytesRate)
	}
	if n1.TrafficRate != 1500 {
		t.Errorf("TrafficRate = %v, want tx+rx", n1.TrafficRate)
	}
	if n1.ErrorRate != 2 {
		t.Errorf("ErrorRate = %v, want 2", n1.ErrorRate)
	}
	if store.NetworkMetrics[1].TrafficRate != 0 {
		t.Error("node without samples should record zero rates")
	}
}

func TestCollectNetworkMetrics_NoPrometheus(t *testing.T) {
	store := testutil.NewMockMetricRepository()
	svc := NewCollectorService(&testutil.MockDesiredStateSource{}, nil, nil, store, logger.Nop())

	if err := svc.CollectNetworkMetrics(context.Background(), []string{"node1"}); err != nil {
		t.Fatalf("CollectNetworkMetrics: %v", err)
	}
	if len(store.NetworkMetrics) != 0 {
		t.Error("no rows should be appended without a prometheus source")
	}
}

func TestCollect_RunsAllSamplers(t *testing.T) {
	desired := &testutil.MockDesiredStateSource{
		Assignments: []assignment.Assignment{{Name: "egress-prod", DeclaredIPs: []string{"10.0.0.5"}}},
	}
	prom := &testutil.MockMetricsSource{Values: map[string]float64{}}
	store := testutil.NewMockMetricRepository()
	svc := NewCollectorService(desired, &testutil.MockClusterSource{Nodes: 3}, prom, store, logger.Nop())

	if err := svc.Collect(context.Background(), []string{"node1"}); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(store.StatusRecords) != 1 || len(store.ClusterMetrics) != 1 || len(store.NetworkMetrics) != 1 {
		t.Errorf("records = %d status, %d cluster, %d network",
			len(store.StatusRecords), len(store.ClusterMetrics), len(store.NetworkMetrics))
	}
}
