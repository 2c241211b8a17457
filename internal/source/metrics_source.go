package source

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/ovn-tools/egresswatch/internal/config"
	"github.com/ovn-tools/egresswatch/internal/pkg/errors"
)

// PrometheusSource answers instant queries against a Prometheus server.
type PrometheusSource struct {
	api     v1.API
	timeout time.Duration
}

// NewPrometheusSource creates a metrics source for the configured server.
func NewPrometheusSource(cfg config.PrometheusConfig) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{Address: cfg.URL})
	if err != nil {
		return nil, errors.SourceUnavailable("prometheus", err)
	}
	return &PrometheusSource{
		api:     v1.NewAPI(client),
		timeout: cfg.Timeout,
	}, nil
}

// Query runs an instant query and reduces the result to one value: the
// last sample of the result set, zero when the query matched nothing.
func (s *PrometheusSource) Query(ctx context.Context, promql string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, _, err := s.api.Query(ctx, promql, time.Now())
	if err != nil {
		return 0, errors.SourceUnavailable("prometheus", err)
	}

	switch v := value.(type) {
	case model.Vector:
		if len(v) == 0 {
			return 0, nil
		}
		return float64(v[len(v)-1].Value), nil
	case *model.Scalar:
		return float64(v.Value), nil
	case model.Matrix:
		if len(v) == 0 || len(v[len(v)-1].Values) == 0 {
			return 0, nil
		}
		series := v[len(v)-1]
		return float64(series.Values[len(series.Values)-1].Value), nil
	default:
		return 0, nil
	}
}
