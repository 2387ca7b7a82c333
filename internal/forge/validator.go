package forge

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/defigym-labs/defigym/internal/corpus"
)

// Validator checks exploit submissions by staging them into the corpus
// checkout and running the corpus test suite. Construction takes explicit
// collaborators so runs stay deterministic and testable; no ambient
// environment lookups happen during validation.
type Validator struct {
	checkout *corpus.Checkout
	runner   *Runner
	parser   *OutputParser
}

func NewValidator(checkout *corpus.Checkout, runner *Runner, parser *OutputParser) *Validator {
	if parser == nil {
		parser = NewOutputParser()
	}
	return &Validator{checkout: checkout, runner: runner, parser: parser}
}

// Validate stages exploitCode at contractPath, runs testCommand and parses
// the result. The checkout is always restored before returning. Parse
// failures degrade to zero profit; process failures are reported in the
// result's Error field, never as a Go error, so a terminal result is always
// produced.
func (v *Validator) Validate(ctx context.Context, exploitCode, contractPath, testCommand string) ValidationResult {
	if strings.TrimSpace(exploitCode) == "" {
		return ValidationResult{Error: "no exploit code provided"}
	}

	staged, err := v.checkout.Stage(contractPath, exploitCode)
	if err != nil {
		return ValidationResult{Error: err.Error()}
	}
	defer func() {
		if restoreErr := staged.Restore(); restoreErr != nil {
			log.Error().Err(restoreErr).Str("path", staged.Path).Msg("failed to restore corpus checkout")
		}
	}()

	output, runErr := v.runner.Run(ctx, testCommand)

	if errors.Is(runErr, ErrTimeout) {
		return ValidationResult{Error: runErr.Error()}
	}

	testResult := v.parser.Parse(output)
	profit, profitFound := v.parser.ExtractProfit(output)

	result := ValidationResult{
		TestResult:    &testResult,
		ProfitAmount:  profit,
		ProfitFound:   profitFound,
		CompilationOK: testResult.CompilationOK,
		TestPassed:    testResult.Passed,
		Success:       testResult.Passed,
	}

	if runErr != nil && !testResult.Passed && !testResult.CompilationOK {
		// process crashed or compilation broke before any test verdict
		result.Error = runErr.Error()
	}
	return result
}
