package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"triage/internal/config"
	"triage/internal/utils"
)

const sentimentSystemPrompt = `You are a binary sentiment classifier.
Classify the sentiment of the user's message as NEGATIVE or POSITIVE.
Reply with JSON only: {"label": "NEGATIVE" or "POSITIVE", "score": probability between 0 and 1}.`

// OpenAISentimentClient asks an OpenAI-compatible chat model for a binary sentiment
type OpenAISentimentClient struct {
	config *config.OpenAIConfig
	client *openai.Client
}

// NewOpenAISentimentClient creates a new OpenAI-compatible sentiment client
func NewOpenAISentimentClient(cfg *config.OpenAIConfig) *OpenAISentimentClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}
	clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}

	return &OpenAISentimentClient{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider name
func (c *OpenAISentimentClient) Name() string {
	return config.ProviderOpenAI
}

// Load checks that the client is configured
func (c *OpenAISentimentClient) Load(ctx context.Context) error {
	if c.config.APIKey == "" {
		return fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}
	if c.config.ChatModel == "" {
		return fmt.Errorf("no chat model configured")
	}
	return nil
}

// Infer asks the chat model for the sentiment of text
func (c *OpenAISentimentClient) Infer(ctx context.Context, text string, maxLength int) (*Sentiment, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.ChatModel,
		Temperature: float32(c.config.ChatTemperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utils.TruncateRunes(text, maxLength)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var reply Sentiment
	if err := utils.ParseModelJSON(resp.Choices[0].Message.Content, &reply); err != nil {
		return nil, err
	}

	label := normalizeSentimentLabel(reply.Label)
	if label != SentimentNegative && label != SentimentPositive {
		return nil, fmt.Errorf("unexpected sentiment label %q", reply.Label)
	}

	return &Sentiment{Label: label, Score: max(0, min(reply.Score, 1))}, nil
}
