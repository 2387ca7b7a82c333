// Package signature implements sr25519 message signing and verification for
// agent authentication. Agents identify themselves by the SS58 encoding of
// their public key and prove ownership by signing a per-request message.
package signature

import (
	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/vedhavyas/go-subkey"
)

const (
	// SubstrateNetworkID is the generic substrate SS58 address prefix.
	SubstrateNetworkID = 42
)

type SignatureVerifier interface {
	// Verify checks if the provided signature is valid for the given message and SS58 address.
	Verify(message, signature, ss58Address string) (bool, error)
}

// Verifier is a concrete implementation of SignatureVerifier
type Verifier struct{}

type SignatureProvider interface {
	// Sign generates a signature for the given message using the agent keypair
	Sign(message string) (string, error)
}

// Provider is a concrete implementation of SignatureProvider
type Provider struct {
	keypair *sr25519.Keypair
}

// ToSS58Address derives the agent address from a keypair.
func ToSS58Address(keypair *sr25519.Keypair) string {
	return subkey.SS58Encode(keypair.Public().Encode(), SubstrateNetworkID)
}
