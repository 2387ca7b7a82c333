package signature

import (
	"encoding/hex"
	"fmt"

	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/rs/zerolog/log"
)

// NewProvider creates a signature provider from an agent keypair.
func NewProvider(keypair *sr25519.Keypair) (*Provider, error) {
	return &Provider{keypair: keypair}, nil
}

// Sign implements the SignatureProvider interface.
func (p *Provider) Sign(message string) (string, error) {
	if p.keypair == nil {
		return "", fmt.Errorf("private key not initialized")
	}

	sig, err := p.keypair.Sign([]byte(message))
	if err != nil {
		log.Error().Err(err).Msg("failed to sign message")
		return "", fmt.Errorf("failed to sign message: %w", err)
	}

	return "0x" + hex.EncodeToString(sig), nil
}
