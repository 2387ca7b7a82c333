package forge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/defigym-labs/defigym/internal/corpus"
)

const contractPath = "src/test/2024-01/SampleProtocol_exp.sol"

func testValidator(t *testing.T, script string) (*Validator, *corpus.Checkout) {
	t.Helper()
	root := t.TempDir()
	checkout, err := corpus.NewCheckout(root)
	if err != nil {
		t.Fatalf("new checkout: %v", err)
	}
	bin := fakeForge(t, script)
	runner := NewRunner(bin, root, 5*time.Second, nil)
	return NewValidator(checkout, runner, nil), checkout
}

func TestValidateSuccessfulRun(t *testing.T) {
	v, checkout := testValidator(t, `echo "[PASS] testExploit() (gas: 1000)"; echo "Profit: 150000.0"`)

	result := v.Validate(context.Background(), "pragma solidity ^0.8.0; contract X {}", contractPath, "forge test -vvv")

	if !result.TestPassed || !result.Success {
		t.Errorf("expected passing validation, got %+v", result)
	}
	if !result.ProfitFound || result.ProfitAmount != 150000.0 {
		t.Errorf("profit not extracted: %+v", result)
	}
	if result.Error != "" {
		t.Errorf("unexpected error %q", result.Error)
	}

	// staged file must be gone after validation
	staged := filepath.Join(checkout.Root, filepath.FromSlash(contractPath))
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("staged exploit left in checkout")
	}
}

func TestValidateFailingTest(t *testing.T) {
	v, _ := testValidator(t, `echo "Compiler run successful!"; echo "[FAIL] testExploit()"; exit 1`)

	result := v.Validate(context.Background(), "contract X {}", contractPath, "forge test -vvv")

	if result.TestPassed || result.Success {
		t.Errorf("failing test scored as success: %+v", result)
	}
	if !result.CompilationOK {
		t.Error("compilation marker missed")
	}
	// compilation succeeded and a verdict exists, so the non-zero exit is
	// a test failure, not a process error
	if result.Error != "" {
		t.Errorf("test failure misreported as process error: %q", result.Error)
	}
}

func TestValidateProcessError(t *testing.T) {
	v, _ := testValidator(t, `echo "error: could not resolve dependency"; exit 2`)

	result := v.Validate(context.Background(), "contract X {}", contractPath, "forge test -vvv")

	if result.Success || result.TestPassed {
		t.Errorf("broken run scored as success: %+v", result)
	}
	if result.Error == "" {
		t.Error("process error not surfaced")
	}
}

func TestValidateTimeout(t *testing.T) {
	root := t.TempDir()
	checkout, _ := corpus.NewCheckout(root)
	bin := fakeForge(t, `sleep 5`)
	runner := NewRunner(bin, root, 100*time.Millisecond, nil)
	v := NewValidator(checkout, runner, nil)

	result := v.Validate(context.Background(), "contract X {}", contractPath, "forge test -vvv")

	if result.Success {
		t.Error("timed out run scored as success")
	}
	if !strings.Contains(result.Error, "timed out") {
		t.Errorf("timeout not reported: %q", result.Error)
	}

	staged := filepath.Join(root, filepath.FromSlash(contractPath))
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("staged exploit left in checkout after timeout")
	}
}

func TestValidateEmptyCode(t *testing.T) {
	v, _ := testValidator(t, `echo unused`)

	result := v.Validate(context.Background(), "   ", contractPath, "forge test -vvv")

	if result.Success {
		t.Error("empty submission scored as success")
	}
	if !strings.Contains(result.Error, "no exploit code") {
		t.Errorf("unexpected error %q", result.Error)
	}
}

func TestValidateRestoresOriginalFixture(t *testing.T) {
	v, checkout := testValidator(t, `echo "[PASS] ok"`)

	target := filepath.Join(checkout.Root, filepath.FromSlash(contractPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("reference fixture"), 0o644); err != nil {
		t.Fatal(err)
	}

	v.Validate(context.Background(), "submitted code", contractPath, "forge test -vvv")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("fixture missing after validation: %v", err)
	}
	if string(data) != "reference fixture" {
		t.Errorf("fixture not restored: %q", data)
	}
}
