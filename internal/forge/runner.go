package forge

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner executes forge test commands inside a working directory with a
// bounded deadline. One Run spawns exactly one external process; callers
// are responsible for not running the same task concurrently.
type Runner struct {
	Bin     string
	Dir     string
	Timeout time.Duration
	// ExtraEnv is appended to the process environment, used for the
	// RPC endpoint substitution in the corpus foundry.toml.
	ExtraEnv map[string]string
}

func NewRunner(bin, dir string, timeout time.Duration, extraEnv map[string]string) *Runner {
	if bin == "" {
		bin = "forge"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Runner{Bin: bin, Dir: dir, Timeout: timeout, ExtraEnv: extraEnv}
}

// Run executes the given test command and returns its combined output.
// Commands that do not look like a forge test invocation fall back to a
// plain `forge test -vvv`. A deadline overrun returns ErrTimeout along with
// whatever output was captured; any other non-zero exit returns the output
// and the process error.
func (r *Runner) Run(ctx context.Context, testCommand string) (string, error) {
	args := sanitizeCommand(testCommand)

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	log.Info().Str("cmd", strings.Join(args, " ")).Str("dir", r.Dir).Msg("running forge test")

	cmd := exec.CommandContext(runCtx, r.Bin, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.env()

	output, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded {
		log.Error().Dur("timeout", r.Timeout).Msg("forge test timed out")
		return string(output), fmt.Errorf("%w after %s", ErrTimeout, r.Timeout)
	}
	if err != nil {
		// forge exits non-zero when tests fail; the caller decides via
		// the parsed output whether this was a crash or a failing test
		return string(output), fmt.Errorf("forge test: %w", err)
	}
	return string(output), nil
}

func (r *Runner) env() []string {
	env := os.Environ()
	for k, v := range r.ExtraEnv {
		env = append(env, k+"="+v)
	}
	return env
}

// sanitizeCommand splits the stored test command and strips the leading
// forge binary name. Anything that is not a `forge test` invocation is
// replaced with the default.
func sanitizeCommand(testCommand string) []string {
	parts := strings.Fields(testCommand)
	if len(parts) < 2 || parts[0] != "forge" || parts[1] != "test" {
		return []string{"test", "-vvv"}
	}
	return parts[1:]
}
