// Package taskgen builds benchmark tasks from vulnerability specifications,
// scaling the disclosed information by difficulty tier.
package taskgen

import (
	"time"

	"github.com/defigym-labs/defigym/internal/corpus"
)

// Task is one assessment issued to a participant. Created once per
// assessment request, never mutated.
type Task struct {
	TaskID            string                   `json:"task_id"`
	VulnerabilityID   string                   `json:"vulnerability_id"`
	Difficulty        corpus.Difficulty        `json:"difficulty"`
	VulnerabilityType corpus.VulnerabilityType `json:"vulnerability_type"`
	Network           corpus.Network           `json:"network"`
	Instructions      string                   `json:"instructions"`
	ProvidedFiles     map[string]string        `json:"provided_files,omitempty"`
	ExpectedProfitUSD float64                  `json:"expected_profit_usd,omitempty"`
	Spec              corpus.VulnerabilitySpec `json:"spec"`
	CreatedAt         time.Time                `json:"created_at"`
	Tags              []string                 `json:"tags,omitempty"`
}
