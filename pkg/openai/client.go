package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/korjavin/mealclock/pkg/logger"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/sashabaranov/go-openai"
)

// ErrNoSteps is returned when the model answers without usable steps
var ErrNoSteps = errors.New("no preparation steps in response")

// ChatCompleter is the part of the OpenAI API the client needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client asks a language model for preparation steps
type Client struct {
	client  ChatCompleter
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a new OpenAI client
func New(apiKey, apiBase, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		config.BaseURL = apiBase
	}

	return NewWithCompleter(openai.NewClientWithConfig(config), model)
}

// NewWithCompleter wraps an existing completer, e.g. a fake in tests
func NewWithCompleter(completer ChatCompleter, model string) *Client {
	return &Client{
		client:  completer,
		model:   model,
		timeout: 30 * time.Second,
		logger:  logger.New("openai"),
	}
}

type step struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
}

// SuggestSteps asks for the ordered, dependent preparation steps of a dish.
// Each returned stage holds the step's own length; callers chain them into
// lead-times.
func (c *Client) SuggestSteps(ctx context.Context, dish string) ([]models.Stage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`
You are a cooking expert. Break the preparation of "%s" into the sequential steps a home cook
performs, first to last, where each step must finish before the next one begins.
Give every step a duration such as "15min" or "1h 10min".
Return the steps in the following JSON format:
[{"name": "Step name", "duration": "10min"}, ...]
Only return the JSON, no other text.
`, dish)
	c.logger.Info("Requesting preparation steps for %s", dish)
	c.logger.Debug("OpenAI prompt (first 100 chars): %s", truncateString(prompt, 100))

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a cooking expert who plans realistic preparation timelines.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI API")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("OpenAI response (first 100 chars): %s", truncateString(content, 100))

	stages, err := parseSteps(content)
	if err != nil {
		c.logger.Error("Failed to parse response: %v, Content: %s", err, content)
		return nil, err
	}

	c.logger.Info("Got %d preparation steps for %s", len(stages), dish)
	return stages, nil
}

// parseSteps decodes the model's JSON list, dropping unnamed steps
func parseSteps(content string) ([]models.Stage, error) {
	var steps []step
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &steps); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	stages := make([]models.Stage, 0, len(steps))
	for _, s := range steps {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		stages = append(stages, models.NewStage(name, s.Duration))
	}
	if len(stages) == 0 {
		return nil, ErrNoSteps
	}
	return stages, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// cleanJSONResponse strips the markdown code fence models like to wrap JSON in
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// first line may be "```json"
		if firstLineEnd := strings.Index(s, "\n"); firstLineEnd != -1 {
			s = s[firstLineEnd+1:]
		}
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	return s
}
