// Package ai wraps the external chat-completion provider used for turn
// narration.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Game-master persona instructions. The introduction variant frames a
// freshly created character's entrance instead of a regular turn.
const (
	NarratorPersona = "You are the game master of a tabletop RPG session. " +
		"Narrate the consequences of the players' actions in vivid second-person prose, " +
		"honoring the dice outcomes you are given. Keep the story moving and never break character."
	IntroductionPersona = "You are the game master of a tabletop RPG session. " +
		"A new character is joining the story. Narrate their entrance into the current scene " +
		"in vivid prose, weaving their background into the ongoing adventure."
)

// Compile-time check to ensure Client implements Narrator
var _ interfaces.Narrator = (*Client)(nil)

// Client issues narration requests against an OpenAI-compatible API.
type Client struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// Config holds the narration client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// New creates a narration client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("narration API key is not set")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(config),
		modelName:   cfg.ModelName,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		logger:      logger.Named("AIClient"),
	}, nil
}

// Narrate performs exactly one completion request. There is no retry:
// a failed call must surface immediately so the turn commits nothing.
func (c *Client) Narrate(ctx context.Context, persona, prompt string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: persona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("Narration request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", "", fmt.Errorf("%w: %v", models.ErrNarrationFailed, err)
	}

	if len(resp.Choices) == 0 {
		c.logger.Error("Narration response contained no choices", zap.String("model", c.modelName))
		return "", "", fmt.Errorf("%w: empty response", models.ErrNarrationFailed)
	}

	narration := strings.TrimSpace(resp.Choices[0].Message.Content)
	if narration == "" {
		c.logger.Error("Narration response contained empty text", zap.String("model", c.modelName))
		return "", "", fmt.Errorf("%w: empty narration", models.ErrNarrationFailed)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		// The narration itself is fine; store what we can.
		c.logger.Warn("Failed to marshal raw narration response", zap.Error(err))
		raw = []byte("{}")
	}

	c.logger.Info("Narration completed",
		zap.String("model", c.modelName),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("promptLen", len(prompt)),
		zap.Int("narrationLen", len(narration)),
	)
	return narration, string(raw), nil
}
