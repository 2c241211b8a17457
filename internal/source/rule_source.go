package source

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ovn-tools/egresswatch/internal/config"
	"github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
)

// DebugNodeSource pulls OVN rule dumps by opening a node debug session
// and running ovn-nbctl against the host. Remote executions are rate
// limited; a debug pod per call is expensive on the apiserver.
type DebugNodeSource struct {
	ocBinary string
	router   string
	runner   CommandRunner
	limiter  *rate.Limiter
	logger   *logger.Logger
}

// NewDebugNodeSource creates a rule source backed by `oc debug`.
func NewDebugNodeSource(cfg config.OVNConfig, runner CommandRunner, log *logger.Logger) *DebugNodeSource {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &DebugNodeSource{
		ocBinary: cfg.OCBinary,
		router:   cfg.Router,
		runner:   runner,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:   log,
	}
}

// FetchRules fetches one rule dump from a node, split into lines.
func (s *DebugNodeSource) FetchRules(ctx context.Context, node string, kind RuleKind) ([]string, error) {
	var subcommand []string
	switch kind {
	case RuleKindNAT:
		subcommand = []string{"lr-nat-list", s.router}
	case RuleKindPolicy:
		subcommand = []string{"lr-policy-list", s.router}
	case RuleKindDatabaseInfo:
		subcommand = []string{"show"}
	default:
		return nil, errors.BadRequest("unknown rule kind: " + string(kind))
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.SourceUnavailable("ovn northbound database", err)
	}

	args := []string{
		"debug", "node/" + node, "--",
		"chroot", "/host",
		"ovn-nbctl", "--no-leader-only",
	}
	args = append(args, subcommand...)

	s.logger.WithFields(map[string]interface{}{
		"node": node,
		"kind": string(kind),
	}).Debug("Fetching OVN rules")

	output, err := s.runner.Run(ctx, s.ocBinary, args...)
	if err != nil {
		return nil, errors.SourceUnavailable("ovn northbound database", err)
	}

	return splitLines(string(output)), nil
}

func splitLines(output string) []string {
	raw := strings.Split(output, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
