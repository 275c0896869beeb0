package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/newsproxy/internal/agent"
	"github.com/mohammad-safakhou/newsproxy/internal/helpers"
	"github.com/mohammad-safakhou/newsproxy/internal/telemetry"
)

// AgentClient is the outbound surface NewsHandler depends on.
type AgentClient interface {
	CreateSession(ctx context.Context, userID string) (agent.Session, error)
	RunConversation(ctx context.Context, userID, sessionID, message string) ([]agent.Message, error)
}

// NewsHandler runs one conversational round-trip against the news agent and
// returns the cleaned payload.
type NewsHandler struct {
	Agent  AgentClient
	Prompt string
	Logger *log.Logger
}

func (h *NewsHandler) Register(g *echo.Group) {
	g.GET("/news", h.fetch)
	g.POST("/news", h.fetch)
}

func (h *NewsHandler) fetch(c echo.Context) error {
	ctx := c.Request().Context()

	// Fresh identity per invocation; nothing is shared across requests.
	userID := uuid.NewString()

	sess, err := h.Agent.CreateSession(ctx, userID)
	if err != nil {
		telemetry.RequestsTotal.WithLabelValues("error").Inc()
		return err
	}
	if sess.ID == "" {
		telemetry.RequestsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get session ID from response")
	}

	reply, err := h.Agent.RunConversation(ctx, userID, sess.ID, h.Prompt)
	if err != nil {
		telemetry.RequestsTotal.WithLabelValues("error").Inc()
		return err
	}

	payload, ok := h.extractNewsPayload(reply)
	news, hasNews := payload["news"].([]any)
	if !ok || !hasNews {
		telemetry.RequestsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to parse news data from response")
	}

	now := time.Now().UTC()
	for _, item := range news {
		article, ok := item.(map[string]any)
		if !ok {
			continue
		}
		article["date"] = helpers.NormalizeDate(article["date"], now)
	}

	telemetry.RequestsTotal.WithLabelValues("ok").Inc()
	return c.JSONPretty(http.StatusOK, payload, "  ")
}

// extractNewsPayload digs the JSON document out of the agent's first reply
// message. Every failure here is recoverable: it is logged and reported as
// absence so the caller answers with a single clean 500.
func (h *NewsHandler) extractNewsPayload(messages []agent.Message) (map[string]any, bool) {
	if len(messages) == 0 {
		h.Logger.Printf("agent reply carried no messages")
		return nil, false
	}
	parts := messages[0].Content.Parts
	if len(parts) == 0 {
		h.Logger.Printf("agent reply carried no content parts")
		return nil, false
	}
	raw := parts[0].Text

	obj, err := helpers.ExtractJSONObject(raw)
	if err != nil {
		h.Logger.Printf("no JSON object found in agent response")
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		h.Logger.Printf("error parsing agent response: %v", err)
		h.Logger.Printf("raw content that failed parsing: %s", raw)
		return nil, false
	}
	return payload, true
}
