package greenagent

import (
	"strings"

	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/messages"
)

// ExploitAgentRole is the participant role the assessment requires.
const ExploitAgentRole = "exploit_agent"

// RequiredConfigKeys are the spec fields a request must carry.
var RequiredConfigKeys = []string{"project_name", "vulnerability_type", "network"}

// ValidateRequest checks an incoming assessment request before any work
// starts. Enum values are closed here so a typo fails the request, not the
// forge run an hour later.
func ValidateRequest(req messages.EvalRequest) error {
	url, ok := req.Participants[ExploitAgentRole]
	if !ok || strings.TrimSpace(url) == "" {
		return &corpus.InvalidSpecError{
			Field:  "participants",
			Reason: "missing required role " + ExploitAgentRole,
		}
	}

	if strings.TrimSpace(req.Config.ProjectName) == "" {
		return &corpus.InvalidSpecError{Field: "project_name", Reason: "required"}
	}
	if _, err := corpus.ParseVulnerabilityType(req.Config.VulnerabilityType); err != nil {
		return err
	}
	if _, err := corpus.ParseNetwork(req.Config.Network); err != nil {
		return err
	}
	if _, err := corpus.ParseDifficulty(req.Config.Difficulty); err != nil {
		return err
	}
	return nil
}
