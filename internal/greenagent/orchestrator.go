// Package greenagent runs the assessment side of the benchmark: it turns a
// validated request into a task, forwards it to the exploit agent, and
// scores whatever comes back against the corpus ground truth.
package greenagent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/defigym-labs/defigym/internal/config"
	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/forge"
	"github.com/defigym-labs/defigym/internal/messages"
	"github.com/defigym-labs/defigym/internal/rpcprobe"
	"github.com/defigym-labs/defigym/internal/scoring"
	"github.com/defigym-labs/defigym/internal/taskgen"
	"github.com/defigym-labs/defigym/pkg/relay"
)

// NoWinner marks a run where the exploit agent did not produce a working
// exploit.
const NoWinner = "none"

// exploitValidator runs a staged submission against the corpus tests.
type exploitValidator interface {
	Validate(ctx context.Context, exploitCode, contractPath, testCommand string) forge.ValidationResult
}

// taskSender delivers task messages to participants.
type taskSender interface {
	CreateAuthParams() (relay.AuthParams, error)
	Send(baseURL string, request interface{}, response interface{}, auth relay.AuthParams) error
}

// forkChecker verifies a fork RPC endpoint before a forge run.
type forkChecker interface {
	CheckFork(ctx context.Context, network, url string, forkBlock int64) error
}

// Orchestrator drives one assessment end to end.
type Orchestrator struct {
	Generator *taskgen.Generator
	Validator exploitValidator
	Sender    taskSender
	Prober    forkChecker
	Policy    *scoring.Policy
	RPC       config.RPCEnvConfig
	ProbeRPC  bool
	Now       func() time.Time
}

// New wires an orchestrator from the application configuration. The corpus
// checkout must already exist on disk.
func New(cfg *config.AppConfig, sender taskSender) (*Orchestrator, error) {
	checkout, err := corpus.NewCheckout(cfg.CorpusRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus checkout: %w", err)
	}

	runner := forge.NewRunner(cfg.ForgeBin, checkout.Root, cfg.ForgeTimeout, cfg.RPCEnvConfig.Env())
	validator := forge.NewValidator(checkout, runner, nil)

	var prober forkChecker
	if cfg.ProbeRPC {
		prober = rpcprobe.NewProber(cfg.ProbeTimeout)
	}

	return &Orchestrator{
		Generator: taskgen.NewGenerator(),
		Validator: validator,
		Sender:    sender,
		Prober:    prober,
		Policy:    scoring.NewPolicy(cfg.ProfitTolerance),
		RPC:       cfg.RPCEnvConfig,
		ProbeRPC:  cfg.ProbeRPC,
	}, nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// RunEval executes the full pipeline for one request. Transport, probe and
// extraction failures produce a no-winner result rather than an error; only
// request-shape problems are returned as errors.
func (o *Orchestrator) RunEval(ctx context.Context, req messages.EvalRequest) (messages.EvalResult, error) {
	if err := ValidateRequest(req); err != nil {
		return messages.EvalResult{}, err
	}

	spec, err := corpus.NewSpec(req.Config, o.Now)
	if err != nil {
		return messages.EvalResult{}, err
	}
	difficulty, _ := corpus.ParseDifficulty(req.Config.Difficulty)

	task, err := o.Generator.Generate(spec, difficulty)
	if err != nil {
		return messages.EvalResult{}, err
	}

	log.Info().
		Str("task_id", task.TaskID).
		Str("difficulty", string(difficulty)).
		Str("network", string(spec.Network)).
		Msg("assessment started")

	start := o.now()

	auth, err := o.Sender.CreateAuthParams()
	if err != nil {
		return o.failure(task.TaskID, fmt.Sprintf("failed to build auth params: %s", err.Error()), start), nil
	}

	taskMsg := messages.TaskMessage{
		TaskID:        task.TaskID,
		Difficulty:    string(task.Difficulty),
		Instructions:  task.Instructions,
		ProvidedFiles: task.ProvidedFiles,
		Tags:          task.Tags,
	}

	var submission messages.ExploitSubmission
	participantURL := req.Participants[ExploitAgentRole]
	if err := o.Sender.Send(participantURL, taskMsg, &submission, auth); err != nil {
		log.Warn().Err(err).Str("task_id", task.TaskID).Msg("participant request failed")
		return o.failure(task.TaskID, fmt.Sprintf("participant request failed: %s", err.Error()), start), nil
	}

	code, found := ExtractSolidity(submission.Content)
	if !found {
		return o.failure(task.TaskID, "no solidity code found in submission", start), nil
	}

	if o.ProbeRPC && o.Prober != nil {
		network := string(spec.Network)
		if probeErr := o.Prober.CheckFork(ctx, network, o.RPC.ForNetwork(network), spec.BlockNumber); probeErr != nil {
			log.Warn().Err(probeErr).Str("task_id", task.TaskID).Msg("rpc preflight failed")
			return o.failure(task.TaskID, probeErr.Error(), start), nil
		}
	}

	validation := o.Validator.Validate(ctx, code, spec.ContractPath, spec.TestCommand)

	detail := o.Policy.Assemble(task, validation, o.now().Sub(start), o.Now)
	winner := NoWinner
	if detail.Success {
		winner = ExploitAgentRole
	}

	log.Info().
		Str("task_id", task.TaskID).
		Str("winner", winner).
		Bool("test_passed", detail.TestPassed).
		Float64("profit_extracted", detail.ProfitExtracted).
		Msg("assessment finished")

	return messages.EvalResult{Winner: winner, Detail: detail}, nil
}

func (o *Orchestrator) failure(taskID, errMsg string, start time.Time) messages.EvalResult {
	detail := scoring.Failure(taskID, errMsg, o.now().Sub(start), o.Now)
	return messages.EvalResult{Winner: NoWinner, Detail: detail}
}
