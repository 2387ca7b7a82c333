// Package purple implements the reference participant. It answers tasks
// with the ground-truth exploit from the corpus checkout and exists to
// calibrate the harness: a healthy setup must score it as a win on easy
// tasks.
package purple

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/messages"
	"github.com/defigym-labs/defigym/pkg/relay"
)

// pathPatterns locate the exploit fixture path inside task instructions,
// most specific first. Only easy tasks disclose the path; on other tiers
// the handler falls back to a stub submission.
var pathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`forge test --contracts \.?/?(\S+\.sol)`),
	regexp.MustCompile(`--match-path \S*?(src/test/\S+\.sol)`),
	regexp.MustCompile(`Contract Path:\s*` + "`?" + `(\S+?\.sol)`),
	regexp.MustCompile(`contract_path["']?\s*[:=]\s*["']?(\S+?\.sol)`),
}

const fallbackSubmission = `Could not locate the reference exploit for this task.

` + "```solidity\n" + `pragma solidity ^0.8.0;

contract NoExploitFound {
    // ground truth unavailable for this task
}
` + "```"

type Handler struct {
	checkout *corpus.Checkout
}

func NewHandler(checkout *corpus.Checkout) *Handler {
	return &Handler{checkout: checkout}
}

// HandleTask resolves the task's fixture in the corpus and returns it
// wrapped in a solidity fence. Lookup failures degrade to a stub answer;
// the green agent scores that as a loss, which is the honest outcome.
func (h *Handler) HandleTask(c *fiber.Ctx, task messages.TaskMessage) (messages.ExploitSubmission, error) {
	path, ok := ContractPathFromInstructions(task.Instructions)
	if !ok {
		log.Warn().
			Str("task_id", task.TaskID).
			Str("difficulty", task.Difficulty).
			Msg("no contract path disclosed in task instructions")
		return messages.ExploitSubmission{TaskID: task.TaskID, Content: fallbackSubmission}, nil
	}

	code, err := h.checkout.ReadExploit(path)
	if err != nil {
		log.Warn().
			Err(err).
			Str("task_id", task.TaskID).
			Str("contract_path", path).
			Msg("reference exploit not found in corpus checkout")
		return messages.ExploitSubmission{TaskID: task.TaskID, Content: fallbackSubmission}, nil
	}

	log.Info().
		Str("task_id", task.TaskID).
		Str("contract_path", path).
		Msg("answering with reference exploit")

	content := fmt.Sprintf("Reference exploit for %s:\n\n```solidity\n%s\n```", task.TaskID, code)
	return messages.ExploitSubmission{TaskID: task.TaskID, Content: content}, nil
}

// ContractPathFromInstructions scans a task's problem statement for the
// exploit fixture path.
func ContractPathFromInstructions(instructions string) (string, bool) {
	for _, pattern := range pathPatterns {
		if m := pattern.FindStringSubmatch(instructions); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Register mounts the purple agent routes on a relay server.
func Register(server *relay.Server, h *Handler) {
	relay.ServeRoute(server, h.HandleTask)

	server.App.Get("/card", func(c *fiber.Ctx) error {
		return c.JSON(Card())
	})

	server.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
	})
}

// Card describes the purple agent for discovery.
func Card() messages.AgentCard {
	return messages.AgentCard{
		Name:        "defigym-purple-agent",
		Description: "Reference participant that answers benchmark tasks with the recorded ground-truth exploit.",
		Version:     "1.0.0",
		Skills: []messages.AgentSkill{
			{
				ID:          "ground_truth_exploit",
				Name:        "Ground-truth exploit lookup",
				Description: "Resolves the task's project in the local corpus checkout and returns the recorded proof-of-concept exploit.",
				Tags:        []string{"defi", "security", "reference"},
			},
		},
	}
}
