package signature

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

// KeyEnvConfig names the agent key file. The file uses the substrate JSON
// key export format; only the secretPhrase field is consumed.
type KeyEnvConfig struct {
	AgentKeyfile string `env:"AGENT_KEYFILE"`
}

// LoadMnemonic reads the secret phrase from a substrate JSON key file.
func LoadMnemonic(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read key file")
		return "", fmt.Errorf("failed to read key file: %w", err)
	}

	var keyfile map[string]any
	if err := sonic.Unmarshal(data, &keyfile); err != nil {
		return "", fmt.Errorf("failed to parse key file JSON: %w", err)
	}

	phrase, ok := keyfile["secretPhrase"].(string)
	if !ok {
		return "", fmt.Errorf("secretPhrase not found in key file %s", path)
	}
	return phrase, nil
}

// LoadKeypair loads the agent keypair from the file named by keyfilePath,
// falling back to the AGENT_KEYFILE environment variable when empty.
func LoadKeypair(keyfilePath string) (*sr25519.Keypair, error) {
	if keyfilePath == "" {
		var envCfg KeyEnvConfig
		if err := envconfig.Process(context.Background(), &envCfg); err != nil {
			return nil, fmt.Errorf("failed to process key environment: %w", err)
		}
		keyfilePath = envCfg.AgentKeyfile
	}
	if keyfilePath == "" {
		return nil, fmt.Errorf("no agent key file configured")
	}

	mnemonic, err := LoadMnemonic(keyfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed phrase: %w", err)
	}

	keypair, err := sr25519.NewKeypairFromMnenomic(mnemonic, "")
	if err != nil {
		log.Error().Err(err).Str("path", keyfilePath).Msg("failed to create keypair from seed phrase")
		return nil, fmt.Errorf("failed to create keypair from seed phrase: %w", err)
	}
	return keypair, nil
}
