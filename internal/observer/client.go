// Package observer implements the oracle collaborator boundary: task
// decomposition and code/intent alignment via an OpenAI-compatible chat
// endpoint, plus a local viability heuristic. Transport failures degrade to
// safe defaults at this boundary; the workflow never deadlocks because the
// oracle is unreachable.
package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/AltairaLabs/tandem-mcp/internal/types"
)

// Alignment is the oracle's verdict on whether code matches the task intent.
type Alignment struct {
	Aligned bool
	Reason  string
}

// Client talks to the observer server. All outbound calls serialize behind
// one mutex; the backend handles a single request at a time.
type Client struct {
	cfg     Config
	prompts map[string]Prompt
	http    *http.Client
	logger  *slog.Logger

	mu sync.Mutex
}

// NewClient builds an observer client from loaded config and prompts.
func NewClient(cfg Config, prompts map[string]Prompt, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		prompts: prompts,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages      []chatMessage `json:"messages"`
	MaxTokens     int           `json:"max_tokens"`
	Temperature   float64       `json:"temperature"`
	TopK          int           `json:"top_k"`
	TopP          float64       `json:"top_p"`
	MinP          float64       `json:"min_p"`
	RepeatPenalty float64       `json:"repeat_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// generate performs one serialized chat completion round-trip.
func (c *Client) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]chatMessage, 0, 2)
	if sys, ok := c.prompts[promptSystem]; ok {
		messages = append(messages, chatMessage{Role: sys.Role, Content: sys.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	payload, err := json.Marshal(chatRequest{
		Messages:      messages,
		MaxTokens:     c.cfg.MaxTokens,
		Temperature:   temperature,
		TopK:          c.cfg.TopK,
		TopP:          c.cfg.TopP,
		MinP:          c.cfg.MinP,
		RepeatPenalty: c.cfg.RepeatPenalty,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("observer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("observer returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("observer response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Decompose turns a free-text request into structured acceptance criteria.
// On any oracle failure it returns empty criteria rather than an error.
func (c *Client) Decompose(ctx context.Context, userPrompt string) types.Criteria {
	criteria := types.Criteria{
		Requirements: []string{},
		Forbidden:    []string{},
		UserRequest:  userPrompt,
	}

	tmpl, ok := c.prompts[promptDecompose]
	if !ok {
		c.logger.Warn("decompose prompt template missing, returning empty criteria")
		return criteria
	}

	raw, err := c.generate(ctx, renderTemplate(tmpl.Content, map[string]string{
		"user_prompt": userPrompt,
	}), 0)
	if err != nil {
		c.logger.Warn("observer decompose failed, degrading to empty criteria", "error", err)
		return criteria
	}

	parsed := parseDecomposition(raw)
	parsed.UserRequest = userPrompt
	return parsed
}

// CheckAlignment asks the oracle whether code matches the original intent.
// On oracle failure the verdict is non-blocking: aligned with an explanatory
// reason, so the workflow can proceed.
func (c *Client) CheckAlignment(ctx context.Context, code string, criteria *types.Criteria) Alignment {
	tmpl, ok := c.prompts[promptCheckAlignment]
	if !ok {
		return Alignment{Aligned: true, Reason: "alignment prompt template missing, assuming aligned"}
	}

	original := ""
	if criteria != nil {
		original = criteria.UserRequest
	}
	raw, err := c.generate(ctx, renderTemplate(tmpl.Content, map[string]string{
		"original_request": original,
		"code":             code,
	}), 0.3)
	if err != nil {
		c.logger.Warn("observer alignment check failed, treating as non-blocking", "error", err)
		return Alignment{Aligned: true, Reason: fmt.Sprintf("observer unreachable (%v), not blocking", err)}
	}

	return parseAlignment(raw)
}

// renderTemplate substitutes {name} placeholders; the prompt files use the
// same placeholder syntax the original templates did.
func renderTemplate(content string, vars map[string]string) string {
	out := content
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}
