package forge

import (
	"regexp"
	"strconv"
	"strings"
)

// OutputParser turns raw forge output into a TestResult. Matching is
// pattern-based and deliberately forgiving: output that matches nothing
// degrades to a zero-profit failed result instead of erroring, since the
// underlying tool's log format changes across versions.
type OutputParser struct {
	// ProfitPatterns are tried in order; the first capture group must be
	// the numeric amount. Overridable as policy.
	ProfitPatterns []*regexp.Regexp
}

var defaultProfitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Profit:\s*([0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(?i)Extracted:\s*([0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(?i)Balance:\s*([0-9]+(?:\.[0-9]+)?)`),
}

var (
	gasPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\(gas:\s*(\d+)\)`),
		regexp.MustCompile(`(?i)gas:\s*(\d+)`),
		regexp.MustCompile(`(?i)Gas used:\s*(\d+)`),
	}
	eventPattern   = regexp.MustCompile(`emit\s+(\w+)\((.*?)\)`)
	revertPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)Revert.*?:\s*(.+)`),
		regexp.MustCompile(`(?m)Error:\s*(.+)`),
		regexp.MustCompile(`(?m)reverted with:\s*(.+)`),
	}
)

func NewOutputParser() *OutputParser {
	return &OutputParser{ProfitPatterns: defaultProfitPatterns}
}

// Parse extracts the pass marker, profit figure and diagnostics from raw
// combined output. It never fails.
func (p *OutputParser) Parse(output string) TestResult {
	passed := checkPassed(output)

	result := TestResult{
		Passed:         passed,
		Output:         output,
		GasUsed:        extractGas(output),
		Events:         extractEvents(output),
		BalanceChanges: map[string]float64{},
		CompilationOK:  passed || strings.Contains(output, "Compiler run successful"),
	}

	if profit, ok := p.ExtractProfit(output); ok {
		result.BalanceChanges["profit"] = profit
	}

	if !passed {
		result.RevertMessage = extractRevert(output)
	}
	return result
}

// ExtractProfit returns the first profit figure found in the output. The
// boolean reports whether any pattern matched at all.
func (p *OutputParser) ExtractProfit(output string) (float64, bool) {
	patterns := p.ProfitPatterns
	if len(patterns) == 0 {
		patterns = defaultProfitPatterns
	}
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(output)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return amount, true
	}
	return 0.0, false
}

func checkPassed(output string) bool {
	if strings.Contains(output, "[PASS]") {
		return true
	}
	if strings.Contains(output, "PASS") && !strings.Contains(output, "FAIL") {
		return true
	}
	return strings.Contains(output, "Test result: ok")
}

func extractGas(output string) int64 {
	for _, pattern := range gasPatterns {
		if m := pattern.FindStringSubmatch(output); m != nil {
			if gas, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				return gas
			}
		}
	}
	return 0
}

func extractEvents(output string) []Event {
	var events []Event
	for _, m := range eventPattern.FindAllStringSubmatch(output, -1) {
		events = append(events, Event{Name: m[1], Params: m[2]})
	}
	return events
}

func extractRevert(output string) string {
	for _, pattern := range revertPatterns {
		if m := pattern.FindStringSubmatch(output); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
