// Package config defines environment configuration structs and loaders.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	ServerEnvConfig
	ClientEnvConfig
	CorpusEnvConfig
	RPCEnvConfig
	GreenEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServerEnvConfig configures the agent HTTP server.
type ServerEnvConfig struct {
	Host          string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port          int    `env:"SERVER_PORT" envDefault:"9009"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"4194304"`
}

// ClientEnvConfig configures outbound participant messaging.
type ClientEnvConfig struct {
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"10m"`
	RetryMax      int           `env:"CLIENT_RETRY_MAX" envDefault:"3"`
	RetryWait     time.Duration `env:"CLIENT_RETRY_WAIT" envDefault:"500ms"`
}

// CorpusEnvConfig locates the DeFiHackLabs checkout and the forge toolchain.
type CorpusEnvConfig struct {
	CorpusRepo   string        `env:"DEFIHACKLABS_REPO" envDefault:"./data/defihacklabs"`
	ForgeBin     string        `env:"FORGE_BIN" envDefault:"forge"`
	ForgeTimeout time.Duration `env:"FORGE_TIMEOUT" envDefault:"10m"`
}

// RPCEnvConfig carries the fork endpoints substituted into the corpus
// foundry configuration. Names follow the foundry.toml rpc_endpoints
// convention.
type RPCEnvConfig struct {
	MainnetRPCURL   string `env:"MAINNET_RPC_URL"`
	ArbitrumRPCURL  string `env:"ARBITRUM_RPC_URL"`
	OptimismRPCURL  string `env:"OPTIMISM_RPC_URL"`
	PolygonRPCURL   string `env:"POLYGON_RPC_URL"`
	BSCRPCURL       string `env:"BSC_RPC_URL"`
	BaseRPCURL      string `env:"BASE_RPC_URL"`
	AvalancheRPCURL string `env:"AVALANCHE_RPC_URL"`
	FantomRPCURL    string `env:"FANTOM_RPC_URL"`
	GnosisRPCURL    string `env:"GNOSIS_RPC_URL"`
	BlastRPCURL     string `env:"BLAST_RPC_URL"`
	MantleRPCURL    string `env:"MANTLE_RPC_URL"`
	LineaRPCURL     string `env:"LINEA_RPC_URL"`
	ScrollRPCURL    string `env:"SCROLL_RPC_URL"`
	ZkSyncRPCURL    string `env:"ZKSYNC_RPC_URL"`
}

// ForNetwork returns the configured endpoint for a network name, empty when
// unset.
func (r RPCEnvConfig) ForNetwork(network string) string {
	switch network {
	case "mainnet":
		return r.MainnetRPCURL
	case "arbitrum":
		return r.ArbitrumRPCURL
	case "optimism":
		return r.OptimismRPCURL
	case "polygon":
		return r.PolygonRPCURL
	case "bsc":
		return r.BSCRPCURL
	case "base":
		return r.BaseRPCURL
	case "avalanche":
		return r.AvalancheRPCURL
	case "fantom":
		return r.FantomRPCURL
	case "gnosis":
		return r.GnosisRPCURL
	case "blast":
		return r.BlastRPCURL
	case "mantle":
		return r.MantleRPCURL
	case "linea":
		return r.LineaRPCURL
	case "scroll":
		return r.ScrollRPCURL
	case "zksync":
		return r.ZkSyncRPCURL
	}
	return ""
}

// Env pairs every configured endpoint with its conventional variable name
// for injection into the forge process environment.
func (r RPCEnvConfig) Env() map[string]string {
	all := map[string]string{
		"MAINNET_RPC_URL":   r.MainnetRPCURL,
		"ARBITRUM_RPC_URL":  r.ArbitrumRPCURL,
		"OPTIMISM_RPC_URL":  r.OptimismRPCURL,
		"POLYGON_RPC_URL":   r.PolygonRPCURL,
		"BSC_RPC_URL":       r.BSCRPCURL,
		"BASE_RPC_URL":      r.BaseRPCURL,
		"AVALANCHE_RPC_URL": r.AvalancheRPCURL,
		"FANTOM_RPC_URL":    r.FantomRPCURL,
		"GNOSIS_RPC_URL":    r.GnosisRPCURL,
		"BLAST_RPC_URL":     r.BlastRPCURL,
		"MANTLE_RPC_URL":    r.MantleRPCURL,
		"LINEA_RPC_URL":     r.LineaRPCURL,
		"SCROLL_RPC_URL":    r.ScrollRPCURL,
		"ZKSYNC_RPC_URL":    r.ZkSyncRPCURL,
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// GreenEnvConfig holds green agent runtime settings.
type GreenEnvConfig struct {
	Environment     string        `env:"ENVIRONMENT" envDefault:"prod"`
	AgentKeyfile    string        `env:"AGENT_KEYFILE"`
	ProbeRPC        bool          `env:"PROBE_RPC" envDefault:"true"`
	ProbeTimeout    time.Duration `env:"PROBE_TIMEOUT" envDefault:"10s"`
	ProfitTolerance float64       `env:"PROFIT_TOLERANCE" envDefault:"0.01"`
}
