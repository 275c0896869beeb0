package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newsproxy/config"
)

func testAgentConfig(baseURL string) config.AgentConfig {
	return config.AgentConfig{
		BaseURL: baseURL,
		AppName: "news_agent",
		Timeout: 5 * time.Second,
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method got %s, want POST", r.Method)
		}
		wantPath := "/apps/news_agent/users/u-1/sessions"
		if r.URL.Path != wantPath {
			t.Errorf("path got %q, want %q", r.URL.Path, wantPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type got %q, want application/json", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if _, ok := body["additionalProp1"]; !ok {
			t.Errorf("request body missing placeholder payload: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "s-42", "appName": "news_agent"})
	}))
	defer srv.Close()

	c := NewClient(testAgentConfig(srv.URL))
	sess, err := c.CreateSession(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "s-42" {
		t.Fatalf("session id got %q, want %q", sess.ID, "s-42")
	}
}

func TestCreateSession_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"appName": "news_agent"})
	}))
	defer srv.Close()

	c := NewClient(testAgentConfig(srv.URL))
	sess, err := c.CreateSession(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "" {
		t.Fatalf("expected empty session id, got %q", sess.ID)
	}
}

func TestCreateSession_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testAgentConfig(srv.URL))
	if _, err := c.CreateSession(context.Background(), "u-1"); err == nil {
		t.Fatalf("expected error for non-2xx response")
	} else if !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("error %q does not mention the status", err)
	}
}

func TestRunConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run" {
			t.Errorf("path got %q, want /run", r.URL.Path)
		}
		var body struct {
			AppName    string `json:"appName"`
			UserID     string `json:"userId"`
			SessionID  string `json:"sessionId"`
			Streaming  bool   `json:"streaming"`
			NewMessage struct {
				Parts []Part `json:"parts"`
				Role  string `json:"role"`
			} `json:"newMessage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body.AppName != "news_agent" || body.UserID != "u-1" || body.SessionID != "s-42" {
			t.Errorf("unexpected envelope: %+v", body)
		}
		if body.Streaming {
			t.Errorf("streaming should be false")
		}
		if body.NewMessage.Role != "user" || len(body.NewMessage.Parts) != 1 || body.NewMessage.Parts[0].Text != "Latest news on Electric Vehicles" {
			t.Errorf("unexpected message: %+v", body.NewMessage)
		}
		_ = json.NewEncoder(w).Encode([]Message{
			{Content: Content{Parts: []Part{{Text: "{\"news\": []}"}}, Role: "model"}},
		})
	}))
	defer srv.Close()

	c := NewClient(testAgentConfig(srv.URL))
	messages, err := c.RunConversation(context.Background(), "u-1", "s-42", "Latest news on Electric Vehicles")
	if err != nil {
		t.Fatalf("RunConversation() error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected one reply message, got %d", len(messages))
	}
	if got := messages[0].Content.Parts[0].Text; got != "{\"news\": []}" {
		t.Fatalf("reply text got %q", got)
	}
}

func TestRunConversation_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testAgentConfig(srv.URL))
	if _, err := c.RunConversation(context.Background(), "u-1", "s-42", "hi"); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}
