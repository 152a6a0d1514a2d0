// Package gemini implements the content-classification client on top
// of Google's Gemini API. Given a moderation prompt and a message text
// it returns a DELETE or KEEP verdict.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/sweepbot/sweepbot/internal/moderation"
)

// verdictInstruction pins the reply format so the response can be
// parsed mechanically.
const verdictInstruction = "Reply with exactly one word: DELETE if the message violates the rules, KEEP otherwise."

// Client is a rebuildable Gemini classification client. Configure may
// be called at any time to swap the endpoint, model, or credential;
// in-flight Classify calls finish against the client they started with.
type Client struct {
	log *slog.Logger

	mu     sync.RWMutex
	client *genai.Client
	model  string
}

// NewClient creates a classification client. An empty credential is
// allowed: the client stays unconfigured and Classify fails until an
// admin supplies an endpoint via Configure.
func NewClient(ctx context.Context, endpoint, model, credential string, log *slog.Logger) (*Client, error) {
	c := &Client{log: log.With("component", "gemini_client")}
	if credential == "" {
		c.log.Warn("No classification credential configured, content classification unavailable")
		return c, nil
	}
	if err := c.Configure(ctx, endpoint, model, credential); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure rebuilds the underlying client with a new endpoint, model,
// and credential.
func (c *Client) Configure(ctx context.Context, endpoint, model, credential string) error {
	if credential == "" {
		return fmt.Errorf("classification credential is required")
	}
	if model == "" {
		return fmt.Errorf("classification model is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint != "" {
		cfg.HTTPOptions.BaseURL = endpoint
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}

	c.mu.Lock()
	c.client = client
	c.model = model
	c.mu.Unlock()

	c.log.Info("Classification client configured", "model", model, "endpoint", endpoint)
	return nil
}

// Classify asks the model whether the message should be deleted under
// the given moderation prompt. Temperature is pinned to zero for
// deterministic verdicts. Any error, including an unparseable reply,
// is returned to the caller, who treats it as KEEP (fail-open).
func (c *Client) Classify(ctx context.Context, prompt, text string) (moderation.ContentVerdict, error) {
	c.mu.RLock()
	client := c.client
	model := c.model
	c.mu.RUnlock()

	if client == nil {
		return moderation.ContentKeep, fmt.Errorf("classification endpoint not configured")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt + "\n\n" + verdictInstruction}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return moderation.ContentKeep, fmt.Errorf("classification call failed: %w", err)
	}

	return parseVerdict(resp.Text())
}

// parseVerdict maps a model reply onto a verdict. Models occasionally
// pad the requested one-word answer, so a matching prefix is accepted.
func parseVerdict(reply string) (moderation.ContentVerdict, error) {
	normalized := strings.ToUpper(strings.TrimSpace(reply))
	switch {
	case strings.HasPrefix(normalized, string(moderation.ContentDelete)):
		return moderation.ContentDelete, nil
	case strings.HasPrefix(normalized, string(moderation.ContentKeep)):
		return moderation.ContentKeep, nil
	default:
		return moderation.ContentKeep, fmt.Errorf("unexpected classification reply %q", normalized)
	}
}
