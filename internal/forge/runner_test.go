package forge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeForge writes a shell script standing in for the forge binary.
func fakeForge(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "forge")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake forge: %v", err)
	}
	return path
}

func TestRunnerCapturesOutput(t *testing.T) {
	bin := fakeForge(t, `echo "[PASS] testExploit() (gas: 1000)"; echo "Profit: 42.0"`)
	runner := NewRunner(bin, t.TempDir(), 5*time.Second, nil)

	output, err := runner.Run(context.Background(), "forge test --contracts ./src/test/x.sol -vvv")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(output, "[PASS]") || !strings.Contains(output, "Profit: 42.0") {
		t.Errorf("output not captured: %q", output)
	}
}

func TestRunnerNonZeroExit(t *testing.T) {
	bin := fakeForge(t, `echo "[FAIL] testExploit()"; exit 1`)
	runner := NewRunner(bin, t.TempDir(), 5*time.Second, nil)

	output, err := runner.Run(context.Background(), "forge test -vvv")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("non-zero exit misreported as timeout")
	}
	if !strings.Contains(output, "[FAIL]") {
		t.Errorf("output lost on failure: %q", output)
	}
}

func TestRunnerTimeout(t *testing.T) {
	bin := fakeForge(t, `sleep 5`)
	runner := NewRunner(bin, t.TempDir(), 100*time.Millisecond, nil)

	_, err := runner.Run(context.Background(), "forge test -vvv")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestRunnerExtraEnv(t *testing.T) {
	bin := fakeForge(t, `echo "rpc=$MAINNET_RPC_URL"`)
	runner := NewRunner(bin, t.TempDir(), 5*time.Second, map[string]string{
		"MAINNET_RPC_URL": "http://localhost:8545",
	})

	output, err := runner.Run(context.Background(), "forge test -vvv")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(output, "rpc=http://localhost:8545") {
		t.Errorf("extra env not injected: %q", output)
	}
}

func TestSanitizeCommand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"forge test --contracts ./src/test/x.sol -vvv", []string{"test", "--contracts", "./src/test/x.sol", "-vvv"}},
		{"forge test -vvv", []string{"test", "-vvv"}},
		{"rm -rf /", []string{"test", "-vvv"}},
		{"forge build", []string{"test", "-vvv"}},
		{"", []string{"test", "-vvv"}},
	}

	for _, tc := range cases {
		if got := sanitizeCommand(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("sanitizeCommand(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner("", "/tmp", 0, nil)
	if r.Bin != "forge" {
		t.Errorf("expected default bin forge, got %q", r.Bin)
	}
	if r.Timeout != 10*time.Minute {
		t.Errorf("expected default timeout 10m, got %s", r.Timeout)
	}
}
