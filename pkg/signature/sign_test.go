package signature

import (
	"testing"

	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/vedhavyas/go-subkey"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	keypair, err := sr25519.GenerateKeypair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}

	provider, err := NewProvider(keypair)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	message := "task issued by green agent"
	sig, err := provider.Sign(message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if len(sig) != 130 || sig[:2] != "0x" {
		t.Fatalf("unexpected signature format: %q", sig)
	}

	ok, err := Verify(message, sig, ToSS58Address(keypair))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected signature to verify")
	}
}

func TestSignKnownSeed(t *testing.T) {
	keypair, err := sr25519.NewKeypairFromMnenomic(subkey.DevPhrase, "")
	if err != nil {
		t.Fatalf("keypair from dev phrase: %v", err)
	}

	provider, err := NewProvider(keypair)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	sig, err := provider.Sign("round trip with known seed")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ok, err := Verify("round trip with known seed", sig, ToSS58Address(keypair))
	if err != nil || !ok {
		t.Fatalf("expected valid signature, ok=%v err=%v", ok, err)
	}
}

func TestSignNilKeypair(t *testing.T) {
	provider := &Provider{keypair: nil}
	if _, err := provider.Sign("message"); err == nil {
		t.Fatal("expected error for nil keypair")
	}
}

func TestSignaturesNondeterministic(t *testing.T) {
	keypair, err := sr25519.GenerateKeypair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	provider, _ := NewProvider(keypair)

	sig1, err := provider.Sign("same message")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig2, err := provider.Sign("same message")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// sr25519 signatures carry randomness; both must still verify
	if sig1 == sig2 {
		t.Fatal("expected different signatures for the same message")
	}
	addr := ToSS58Address(keypair)
	for _, sig := range []string{sig1, sig2} {
		ok, verr := Verify("same message", sig, addr)
		if verr != nil || !ok {
			t.Fatalf("signature %s should verify, ok=%v err=%v", sig[:10], ok, verr)
		}
	}
}
