package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/config"
)

const defaultPrompt = "Summarize the following financial news article in 2-3 short, neutral sentences suitable for a dashboard card UI."

// OpenAI summarizes with an OpenAI-compatible chat completion API
type OpenAI struct {
	client    *openai.Client
	model     string
	prompt    string
	maxTokens int
}

// NewOpenAI creates a chat completion provider
func NewOpenAI(cfg config.SummarizerConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIToken)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		prompt:    prompt,
		maxTokens: cfg.MaxLength,
	}
}

// Complete asks the model for a short summary of text
func (o *OpenAI) Complete(ctx context.Context, text string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptySummary
	}
	return resp.Choices[0].Message.Content, nil
}
