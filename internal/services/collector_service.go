package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/metrics"
	"github.com/ovn-tools/egresswatch/internal/source"
)

// Per-node network rate queries. The %s is the node name. Per-query
// failures are recorded as data, never escalated.
var networkQueries = map[string]string{
	"bytes_transmitted_rate":   `sum(rate(node_network_transmit_bytes_total{instance=~"%s.*"}[5m]))`,
	"bytes_received_rate":      `sum(rate(node_network_receive_bytes_total{instance=~"%s.*"}[5m]))`,
	"packets_transmitted_rate": `sum(rate(node_network_transmit_packets_total{instance=~"%s.*"}[5m]))`,
	"packets_received_rate":    `sum(rate(node_network_receive_packets_total{instance=~"%s.*"}[5m]))`,
	"network_errors_rate":      `sum(rate(node_network_transmit_errs_total{instance=~"%s.*"}[5m]))`,
}

// Cluster-wide queries stored alongside each cluster sample.
var clusterQueries = map[string]string{
	"pods_with_egressip": `count(kube_pod_labels{label_egress="true"})`,
	"ovnkube_pods_ready": `sum(kube_pod_status_ready{namespace="openshift-ovn-kubernetes", condition="true"})`,
}

// CollectorService takes periodic samples of assignment status, cluster
// shape and network throughput and appends them to the metric store.
type CollectorService struct {
	desired source.DesiredStateSource
	cluster source.ClusterSource
	prom    source.MetricsSource
	store   metric.Repository
	logger  *logger.Logger
}

// NewCollectorService creates a collector. The cluster and prom sources
// may be nil; the corresponding samples are then skipped or zero.
func NewCollectorService(desired source.DesiredStateSource, cluster source.ClusterSource, prom source.MetricsSource, store metric.Repository, log *logger.Logger) *CollectorService {
	return &CollectorService{
		desired: desired,
		cluster: cluster,
		prom:    prom,
		store:   store,
		logger:  log,
	}
}

// CollectStatus samples every declared egress IP assignment and appends
// one status row per object.
func (s *CollectorService) CollectStatus(ctx context.Context) error {
	assignments, err := s.desired.ListAssignments(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, a := range assignments {
		record := &metric.StatusRecord{
			Timestamp:     now,
			Name:          a.Name,
			Namespace:     a.Namespace,
			Status:        a.Status(),
			AssignedNodes: strings.Join(a.AssignedNodes(), ","),
			AssignedIPs:   strings.Join(a.AssignedIPs(), ","),
		}
		if blob, err := json.Marshal(a); err == nil {
			record.Record = string(blob)
		}

		_, err := s.store.AppendStatus(ctx, record)
		metrics.RecordStoreWrite("egress_status", err)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{"egressip": a.Name}).
				ErrorWithErr(err, "failed to persist status record")
		}
	}

	s.logger.Infof("collected status for %d egress IP objects", len(assignments))
	return nil
}

// CollectClusterMetrics samples the cluster shape and appends one
// cluster row. Each query is best-effort.
func (s *CollectorService) CollectClusterMetrics(ctx context.Context) error {
	record := &metric.ClusterMetric{Timestamp: time.Now().UTC()}

	if assignments, err := s.desired.ListAssignments(ctx); err == nil {
		record.TotalEgressIPs = len(assignments)
	} else {
		s.logger.ErrorWithErr(err, "failed to count egress IP objects")
	}

	if s.cluster != nil {
		if n, err := s.cluster.NodeCount(ctx); err == nil {
			record.TotalNodes = n
		}
		if n, err := s.cluster.CapableNodeCount(ctx); err == nil {
			record.CapableNodes = n
		}
		if t, err := s.cluster.NetworkType(ctx); err == nil {
			record.NetworkType = t
		}
	}

	if s.prom != nil {
		promValues := make(map[string]float64, len(clusterQueries))
		for name, query := range clusterQueries {
			value, err := s.prom.Query(ctx, query)
			if err != nil {
				s.logger.WithFields(map[string]interface{}{"query": name}).
					ErrorWithErr(err, "prometheus query failed")
				continue
			}
			promValues[name] = value
		}
		record.PodsWithEgressIP = int(promValues["pods_with_egressip"])
		if blob, err := json.Marshal(promValues); err == nil {
			record.PromMetrics = string(blob)
		}
	}

	if blob, err := json.Marshal(record); err == nil {
		record.Record = string(blob)
	}

	_, err := s.store.AppendClusterMetric(ctx, record)
	metrics.RecordStoreWrite("egress_cluster_metrics", err)
	return err
}

// CollectNetworkMetrics samples per-node network rates and appends one
// network row per node. Failed queries leave the field at zero.
func (s *CollectorService) CollectNetworkMetrics(ctx context.Context, nodes []string) error {
	if s.prom == nil {
		return nil
	}

	now := time.Now().UTC()
	for _, node := range nodes {
		record := &metric.NetworkMetric{Timestamp: now, Node: node}

		values := make(map[string]float64, len(networkQueries))
		for name, template := range networkQueries {
			value, err := s.prom.Query(ctx, fmt.Sprintf(template, node))
			if err != nil {
				s.logger.WithFields(map[string]interface{}{"node": node, "query": name}).
					ErrorWithErr(err, "prometheus query failed")
				continue
			}
			values[name] = value
		}

		record.TxBytesRate = values["bytes_transmitted_rate"]
		record.RxBytesRate = values["bytes_received_rate"]
		record.TxPktsRate = values["packets_transmitted_rate"]
		record.RxPktsRate = values["packets_received_rate"]
		record.ErrorRate = values["network_errors_rate"]
		record.TrafficRate = record.TxBytesRate + record.RxBytesRate
		if blob, err := json.Marshal(record); err == nil {
			record.Record = string(blob)
		}

		_, err := s.store.AppendNetworkMetric(ctx, record)
		metrics.RecordStoreWrite("egress_network_metrics", err)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{"node": node}).
				ErrorWithErr(err, "failed to persist network metric")
		}
	}
	return nil
}

// Collect runs one full collection cycle.
func (s *CollectorService) Collect(ctx context.Context, nodes []string) error {
	if err := s.CollectStatus(ctx); err != nil {
		return err
	}
	if err := s.CollectClusterMetrics(ctx); err != nil {
		return err
	}
	return s.CollectNetworkMetrics(ctx, nodes)
}
