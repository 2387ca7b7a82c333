package config

import (
	"os"
	"strconv"
	"time"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationWithDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		// try seconds as int
		if i, err2 := strconv.Atoi(s); err2 == nil {
			return time.Duration(i) * time.Second
		}
		return def
	}
	return d
}

// LoadCorpusEnv reads the corpus settings directly from the environment.
// Unlike LoadConfig it tolerates a bare integer FORGE_TIMEOUT in seconds,
// which the CLI accepts for convenience.
func LoadCorpusEnv() (*CorpusEnvConfig, error) {
	cfg := &CorpusEnvConfig{
		CorpusRepo:   getenv("DEFIHACKLABS_REPO", "./data/defihacklabs"),
		ForgeBin:     getenv("FORGE_BIN", "forge"),
		ForgeTimeout: durationWithDefault(os.Getenv("FORGE_TIMEOUT"), 10*time.Minute),
	}
	return cfg, nil
}
