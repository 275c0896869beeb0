package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/newsproxy/config"
	"github.com/mohammad-safakhou/newsproxy/internal/telemetry"
)

// Session is a server-side conversation context on the agent service.
type Session struct {
	ID string `json:"id"`
}

// Part is a single chunk of message content.
type Part struct {
	Text string `json:"text"`
}

// Content carries the parts of one conversational message.
type Content struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

// Message is one record of the agent's conversation reply.
type Message struct {
	Content Content `json:"content"`
}

// Client talks to the remote news-agent service.
type Client struct {
	baseURL    string
	appName    string
	httpClient *http.Client
}

func NewClient(cfg config.AgentConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		appName:    cfg.AppName,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateSession opens a conversation session for userID. The returned
// session carries an empty ID if the service answered without one; callers
// decide how to surface that.
func (c *Client) CreateSession(ctx context.Context, userID string) (Session, error) {
	url := fmt.Sprintf("%s/apps/%s/users/%s/sessions", c.baseURL, c.appName, userID)
	// The service requires a JSON object body but reads nothing from it.
	payload := map[string]any{"additionalProp1": map[string]any{}}

	var sess Session
	if err := c.postJSON(ctx, "create_session", url, payload, &sess); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// RunConversation posts one user turn into an existing session and returns
// the agent's reply messages.
func (c *Client) RunConversation(ctx context.Context, userID, sessionID, message string) ([]Message, error) {
	payload := map[string]any{
		"appName":   c.appName,
		"userId":    userID,
		"sessionId": sessionID,
		"newMessage": map[string]any{
			"parts": []map[string]any{{"text": message}},
			"role":  "user",
		},
		"streaming": false,
	}

	var messages []Message
	if err := c.postJSON(ctx, "run_conversation", c.baseURL+"/run", payload, &messages); err != nil {
		return nil, fmt.Errorf("run conversation: %w", err)
	}
	return messages, nil
}

func (c *Client) postJSON(ctx context.Context, call, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	telemetry.AgentRequestSeconds.WithLabelValues(call).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
