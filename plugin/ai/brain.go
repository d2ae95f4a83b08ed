// Package ai provides the optional language-model collaborator over
// any OpenAI-compatible provider.
package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// Config represents brain configuration.
type Config struct {
	Provider    string // openai, deepseek, ollama, or any compatible endpoint
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 512
	Temperature float32 // default: 0.7
	Timeout     int     // Request timeout in seconds (default: 120)
}

// Brain answers free-form questions and summarizes text. Responses
// are spoken aloud, so prompts ask for short plain-text output.
type Brain struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     int
}

const spokenStylePrompt = "You are a voice assistant. Answer briefly in plain text suitable for being read aloud. No markdown, no lists."

// NewBrain creates a brain from cfg.
func NewBrain(cfg *Config) (*Brain, error) {
	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return nil, errors.New("api key required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120
	}

	return &Brain{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// Answer responds to a free-form question.
func (b *Brain) Answer(ctx context.Context, text string) (string, error) {
	return b.chat(ctx, spokenStylePrompt, text)
}

// Summarize condenses text into a few spoken sentences.
func (b *Brain) Summarize(ctx context.Context, text string) (string, error) {
	return b.chat(ctx, spokenStylePrompt+" Summarize the following in at most three sentences.", text)
}

func (b *Brain) chat(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(b.timeout)*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}

	slog.Debug("brain completion",
		"model", b.model,
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp.Choices[0].Message.Content, nil
}
