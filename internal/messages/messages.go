// Package messages defines the wire types exchanged between the green agent
// and participants over the relay. Route names are derived from the request
// type names, so renaming a type here is a breaking protocol change.
package messages

import (
	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/scoring"
)

// EvalRequest asks the green agent to run one assessment. Participants maps
// role names to base URLs; the exploit_agent role is required.
type EvalRequest struct {
	Participants map[string]string `json:"participants"`
	Config       corpus.RawSpec    `json:"config"`
}

// EvalResult is the green agent's verdict for one assessment run.
type EvalResult struct {
	Winner string                   `json:"winner"`
	Detail scoring.EvaluationResult `json:"detail"`
}

// TaskMessage is the challenge sent to the exploit agent.
type TaskMessage struct {
	TaskID        string            `json:"task_id"`
	Difficulty    string            `json:"difficulty"`
	Instructions  string            `json:"instructions"`
	ProvidedFiles map[string]string `json:"provided_files,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
}

// ExploitSubmission is the participant's answer. Content is markdown and
// may wrap the solidity source in a fenced code block.
type ExploitSubmission struct {
	TaskID  string `json:"task_id"`
	Content string `json:"content"`
}

// AgentSkill describes one capability advertised on an agent card.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// AgentCard is the capability descriptor served at GET /card.
type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	Version            string       `json:"version"`
	Skills             []AgentSkill `json:"skills,omitempty"`
	RequiredRoles      []string     `json:"required_roles,omitempty"`
	RequiredConfig     []string     `json:"required_config,omitempty"`
	VulnerabilityTypes []string     `json:"vulnerability_types,omitempty"`
	Networks           []string     `json:"networks,omitempty"`
	Difficulties       []string     `json:"difficulties,omitempty"`
}
