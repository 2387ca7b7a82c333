package rpcprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func rpcServer(t *testing.T, result string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"` + result + `"}`))
	}))
}

func TestProbeReachable(t *testing.T) {
	srv := rpcServer(t, "0x121eac0") // 19000000
	defer srv.Close()

	prober := NewProber(2 * time.Second)
	result := prober.Probe(context.Background(), "mainnet", srv.URL)

	if !result.Reachable {
		t.Fatalf("expected reachable endpoint, error: %s", result.Error)
	}
	if result.BlockNumber != 19000000 {
		t.Errorf("expected block 19000000, got %d", result.BlockNumber)
	}
}

func TestProbeRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
	}))
	defer srv.Close()

	prober := NewProber(2 * time.Second)
	result := prober.Probe(context.Background(), "mainnet", srv.URL)

	if result.Reachable {
		t.Fatal("expected probe to fail on rpc error")
	}
	if !strings.Contains(result.Error, "method not found") {
		t.Errorf("expected rpc error message, got %q", result.Error)
	}
}

func TestCheckFork(t *testing.T) {
	srv := rpcServer(t, "0x121eac0")
	defer srv.Close()

	prober := NewProber(2 * time.Second)

	t.Run("fork block available", func(t *testing.T) {
		if err := prober.CheckFork(context.Background(), "mainnet", srv.URL, 19000000); err != nil {
			t.Fatalf("expected fork check to pass: %v", err)
		}
	})

	t.Run("fork block ahead of head", func(t *testing.T) {
		err := prober.CheckFork(context.Background(), "mainnet", srv.URL, 19000001)
		if err == nil {
			t.Fatal("expected error when fork block is past chain head")
		}
		if !strings.Contains(err.Error(), "not yet available") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		err := prober.CheckFork(context.Background(), "base", "", 1)
		if err == nil || !strings.Contains(err.Error(), "no rpc url configured") {
			t.Fatalf("expected missing url error, got %v", err)
		}
	})
}

func TestParseHexBlock(t *testing.T) {
	if _, err := parseHexBlock("0x"); err == nil {
		t.Error("expected error for empty hex block")
	}
	if _, err := parseHexBlock("0xzz"); err == nil {
		t.Error("expected error for invalid hex")
	}
	n, err := parseHexBlock("0x10")
	if err != nil || n != 16 {
		t.Errorf("expected 16, got %d err %v", n, err)
	}
}
