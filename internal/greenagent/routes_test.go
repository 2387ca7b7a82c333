package greenagent

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"github.com/defigym-labs/defigym/internal/messages"
	"github.com/defigym-labs/defigym/pkg/relay"
)

func TestCardRoute(t *testing.T) {
	server := relay.NewServer(nil)
	Register(server, newOrchestrator(&fakeSender{}, &fakeValidator{}))

	req := httptest.NewRequest("GET", "/card", nil)
	resp, err := server.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var card messages.AgentCard
	if err := sonic.Unmarshal(body, &card); err != nil {
		t.Fatalf("unmarshal card: %v", err)
	}

	if card.Name != "defigym-green-agent" {
		t.Errorf("unexpected card name %q", card.Name)
	}
	if len(card.VulnerabilityTypes) != 12 {
		t.Errorf("expected 12 vulnerability types, got %d", len(card.VulnerabilityTypes))
	}
	if len(card.Networks) != 14 {
		t.Errorf("expected 14 networks, got %d", len(card.Networks))
	}
	if len(card.Difficulties) != 3 {
		t.Errorf("expected 3 difficulties, got %d", len(card.Difficulties))
	}
	if len(card.RequiredRoles) != 1 || card.RequiredRoles[0] != ExploitAgentRole {
		t.Errorf("unexpected required roles %v", card.RequiredRoles)
	}
}

func TestHealthRoute(t *testing.T) {
	server := relay.NewServer(nil)
	Register(server, newOrchestrator(&fakeSender{}, &fakeValidator{}))

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := server.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestEvalRouteRequiresSignature(t *testing.T) {
	server := relay.NewServer(nil)
	Register(server, newOrchestrator(&fakeSender{}, &fakeValidator{}))

	req := httptest.NewRequest("POST", "/EvalRequest", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing auth headers, got %d", resp.StatusCode)
	}
}
