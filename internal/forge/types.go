// Package forge invokes the external foundry test runner against the corpus
// checkout and extracts pass/fail and profit signals from its output. The
// runner is treated as an opaque oracle: exit code and combined output are
// the only signals consumed.
package forge

import "errors"

// ErrTimeout reports that the forge process exceeded its deadline.
var ErrTimeout = errors.New("forge: test execution timed out")

// Event is one emitted log captured from the test trace.
type Event struct {
	Name   string `json:"name"`
	Params string `json:"params"`
}

// TestResult holds everything extracted from one forge run.
type TestResult struct {
	Passed         bool               `json:"passed"`
	Output         string             `json:"output"`
	GasUsed        int64              `json:"gas_used,omitempty"`
	Events         []Event            `json:"events,omitempty"`
	BalanceChanges map[string]float64 `json:"balance_changes,omitempty"`
	RevertMessage  string             `json:"revert_message,omitempty"`
	CompilationOK  bool               `json:"compilation_ok"`
}

// ValidationResult is the outcome of staging a submission and running the
// corpus test suite against it.
type ValidationResult struct {
	Success       bool        `json:"success"`
	TestResult    *TestResult `json:"test_result,omitempty"`
	ProfitAmount  float64     `json:"profit_amount"`
	ProfitFound   bool        `json:"profit_found"`
	CompilationOK bool        `json:"compilation_ok"`
	TestPassed    bool        `json:"test_passed"`
	Error         string      `json:"error,omitempty"`
}
