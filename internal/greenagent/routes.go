package greenagent

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/messages"
	"github.com/defigym-labs/defigym/pkg/relay"
)

// Register mounts the green agent routes on a relay server.
func Register(server *relay.Server, o *Orchestrator) {
	relay.ServeRoute(server, func(c *fiber.Ctx, req messages.EvalRequest) (messages.EvalResult, error) {
		result, err := o.RunEval(c.Context(), req)
		if err != nil {
			var specErr *corpus.InvalidSpecError
			if errors.As(err, &specErr) {
				return messages.EvalResult{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return messages.EvalResult{}, err
		}
		return result, nil
	})

	server.App.Get("/card", func(c *fiber.Ctx) error {
		return c.JSON(Card())
	})

	server.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
	})
}

// Card describes the green agent's capabilities for discovery.
func Card() messages.AgentCard {
	var vulnTypes []string
	for _, v := range corpus.VulnerabilityTypes() {
		vulnTypes = append(vulnTypes, string(v))
	}
	var networks []string
	for _, n := range corpus.Networks() {
		networks = append(networks, string(n))
	}
	var difficulties []string
	for _, d := range corpus.Difficulties() {
		difficulties = append(difficulties, string(d))
	}

	return messages.AgentCard{
		Name:               "defigym-green-agent",
		Description:        "Benchmarks exploit agents against real-world DeFi vulnerabilities reproduced from the DeFiHackLabs corpus.",
		Version:            "1.0.0",
		Skills:             agentSkills(),
		RequiredRoles:      []string{ExploitAgentRole},
		RequiredConfig:     RequiredConfigKeys,
		VulnerabilityTypes: vulnTypes,
		Networks:           networks,
		Difficulties:       difficulties,
	}
}

func agentSkills() []messages.AgentSkill {
	return []messages.AgentSkill{
		{
			ID:          "defi_exploit_benchmark",
			Name:        "DeFi exploit benchmark",
			Description: "Issues a vulnerability reproduction task, validates the returned exploit with forge against a forked chain, and scores extracted profit against the recorded loss.",
			Tags:        []string{"defi", "security", "benchmark", "foundry"},
		},
	}
}
