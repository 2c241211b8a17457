package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
)

// Config describes one stress-test run. Bounds mirror what the test
// suite itself tolerates.
type Config struct {
	TestName       string        `json:"test_name" validate:"required"`
	SuiteDir       string        `json:"suite_dir" validate:"required,dir"`
	Focus          string        `json:"focus"`
	EIPObjectCount int           `json:"eip_object_count" validate:"min=1,max=50"`
	PodsPerEIP     int           `json:"pods_per_eip" validate:"min=10,max=1000"`
	Iterations     int           `json:"iterations" validate:"min=1,max=100"`
	Timeout        time.Duration `json:"timeout_minutes"`
	SkipCleanup    bool          `json:"skip_cleanup"`
}

// TotalPods is the pod load the run will create.
func (c Config) TotalPods() int {
	return c.EIPObjectCount * c.PodsPerEIP
}

// DefaultConfig returns a config with the suite defaults filled in.
func DefaultConfig(testName, suiteDir string) Config {
	return Config{
		TestName:       testName,
		SuiteDir:       suiteDir,
		EIPObjectCount: 10,
		PodsPerEIP:     200,
		Iterations:     20,
		Timeout:        6 * time.Hour,
	}
}

// Validate checks the config bounds.
func (c Config) Validate() error {
	return validate.Struct(c)
}

var validate = validator.New()

// Result is the outcome of one test execution.
type Result struct {
	Passed             bool          `json:"test_passed"`
	ExitCode           int           `json:"exit_code"`
	ExecutionTime      time.Duration `json:"execution_time"`
	ScenariosCompleted int           `json:"scenarios_completed"`
	TotalScenarios     int           `json:"total_scenarios"`
	Output             string        `json:"-"`
}

// Runner executes a connectivity stress test against the cluster.
type Runner interface {
	Run(ctx context.Context, cfg Config) (*Result, error)
}

// GoTestRunner shells out to the Go test suite on disk.
type GoTestRunner struct {
	logger *logger.Logger
}

// NewGoTestRunner creates a runner for an on-disk suite.
func NewGoTestRunner(log *logger.Logger) *GoTestRunner {
	return &GoTestRunner{logger: log}
}

var (
	scenarioPassPattern = regexp.MustCompile(`(?m)^\s*--- PASS`)
	scenarioFailPattern = regexp.MustCompile(`(?m)^\s*--- FAIL`)
)

// Run executes the suite and parses scenario counts from its output.
// A failing suite is a result, not an error; errors mean the suite
// could not be executed at all.
func (r *GoTestRunner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid test config: %w", err)
	}

	args := []string{"test", "-v", "-count=1", "-timeout", cfg.Timeout.String()}
	if cfg.Focus != "" {
		args = append(args, "-run", cfg.Focus)
	}
	args = append(args, "./...")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = cfg.SuiteDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("EIP_OBJECT_COUNT=%d", cfg.EIPObjectCount),
		fmt.Sprintf("PODS_PER_EIP=%d", cfg.PodsPerEIP),
		fmt.Sprintf("ITERATIONS=%d", cfg.Iterations),
		fmt.Sprintf("SKIP_CLEANUP=%t", cfg.SkipCleanup),
	)

	r.logger.WithFields(map[string]interface{}{
		"test":       cfg.TestName,
		"suite_dir":  cfg.SuiteDir,
		"total_pods": cfg.TotalPods(),
	}).Info("Executing stress test")

	start := time.Now()
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("executing test suite: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	text := string(output)
	passed := len(scenarioPassPattern.FindAllString(text, -1))
	failed := len(scenarioFailPattern.FindAllString(text, -1))

	result := &Result{
		Passed:             exitCode == 0,
		ExitCode:           exitCode,
		ExecutionTime:      elapsed,
		ScenariosCompleted: passed,
		TotalScenarios:     passed + failed,
		Output:             text,
	}

	r.logger.WithFields(map[string]interface{}{
		"test":      cfg.TestName,
		"passed":    result.Passed,
		"scenarios": fmt.Sprintf("%d/%d", result.ScenariosCompleted, result.TotalScenarios),
		"elapsed":   elapsed.String(),
	}).Info("Stress test finished")

	return result, nil
}

// ParseIterations counts completed iterations for one scenario in the
// suite output.
func ParseIterations(output string, scenario int) int {
	pattern := regexp.MustCompile(fmt.Sprintf(`Scenario %d - Iteration (\d+)`, scenario))
	return len(pattern.FindAllString(output, -1))
}

// Summary renders a one-line human summary of a result.
func (r Result) Summary() string {
	status := "FAILED"
	if r.Passed {
		status = "PASSED"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %d/%d scenarios in %s",
		status, r.ScenariosCompleted, r.TotalScenarios, r.ExecutionTime.Round(time.Second)))
}
