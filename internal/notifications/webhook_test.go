package notifications

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSend_NoWebhook(t *testing.T) {
	s := NewSender("", "TestPrep")
	if s.Enabled() {
		t.Fatal("should not be enabled with empty URL")
	}
	// Console only, no error path to hit
	s.Send("hello from test")
}

func TestSend_SlackFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "TestPrep")
	if !s.Enabled() {
		t.Fatal("should be enabled")
	}

	s.ApprovalSubmitted("USDC", "0xdeadbeef")

	if received["username"] != "TestPrep" {
		t.Fatalf("username: got %s", received["username"])
	}
	if !strings.Contains(received["text"], "USDC") {
		t.Fatalf("text should mention the token, got %q", received["text"])
	}
}

func TestSend_DiscordFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// URL containing "discord" triggers Discord format
	s := NewSender(srv.URL+"/discord/webhook", "UniPrep")
	s.PreparationDone("USDC", "WETH", 100, true)

	if received["content"] == "" {
		t.Fatal("content should not be empty for Discord")
	}
	if !strings.Contains(received["content"], "no swap tx broadcast") {
		t.Fatalf("expected preparation disclaimer, got %q", received["content"])
	}
}

func TestPreparationDone_Failure(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "UniPrep")
	s.PreparationDone("USDC", "WETH", 100, false)

	if !strings.Contains(received["text"], "FAILED") {
		t.Fatalf("expected failure wording, got %q", received["text"])
	}
}
