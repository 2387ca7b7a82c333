// gymcli runs the harness locally without any messaging: it generates a
// task from a spec and optionally validates an exploit file against the
// corpus checkout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/defigym-labs/defigym/internal/config"
	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/forge"
	"github.com/defigym-labs/defigym/internal/scoring"
	"github.com/defigym-labs/defigym/internal/taskgen"
	"github.com/defigym-labs/defigym/internal/utils/logger"
)

func main() {
	project := flag.String("project", "SampleProtocol", "project name")
	vulnType := flag.String("vuln", "reentrancy", "vulnerability type")
	network := flag.String("network", "mainnet", "network name")
	difficulty := flag.String("difficulty", "easy", "task difficulty (easy, medium, hard)")
	loss := flag.Float64("loss", 150000, "recorded loss in USD")
	block := flag.Int64("block", 19000000, "fork block number")
	date := flag.String("date", "2024-01-15", "exploit date")
	exploitFile := flag.String("exploit", "", "path to an exploit file to validate against the corpus")

	logger.Init() // parses remaining flags

	raw := corpus.RawSpec{
		ProjectName:       *project,
		VulnerabilityType: *vulnType,
		Network:           *network,
		LossAmountUSD:     *loss,
		BlockNumber:       *block,
		Date:              *date,
		Difficulty:        *difficulty,
	}

	spec, err := corpus.NewSpec(raw, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid vulnerability spec")
	}

	tier, err := corpus.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid difficulty")
	}

	task, err := taskgen.NewGenerator().Generate(spec, tier)
	if err != nil {
		log.Fatal().Err(err).Msg("task generation failed")
	}

	taskJSON, err := sonic.MarshalIndent(task, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal task")
	}
	fmt.Println(string(taskJSON))

	if *exploitFile == "" {
		return
	}

	result := validateFile(spec, task, *exploitFile)
	resultJSON, err := sonic.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal result")
	}
	fmt.Println(string(resultJSON))
}

func validateFile(spec corpus.VulnerabilitySpec, task taskgen.Task, path string) scoring.EvaluationResult {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	// corpus settings are re-read leniently so a bare FORGE_TIMEOUT in
	// seconds works from the command line
	corpusCfg, err := config.LoadCorpusEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load corpus configuration")
	}

	code, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to read exploit file")
	}

	checkout, err := corpus.NewCheckout(corpusCfg.CorpusRepo)
	if err != nil {
		log.Fatal().Err(err).Str("repo", corpusCfg.CorpusRepo).Msg("failed to open corpus checkout")
	}

	runner := forge.NewRunner(corpusCfg.ForgeBin, checkout.Root, corpusCfg.ForgeTimeout, cfg.RPCEnvConfig.Env())
	validator := forge.NewValidator(checkout, runner, nil)

	start := time.Now()
	validation := validator.Validate(context.Background(), string(code), spec.ContractPath, spec.TestCommand)

	policy := scoring.NewPolicy(cfg.ProfitTolerance)
	return policy.Assemble(task, validation, time.Since(start), nil)
}
