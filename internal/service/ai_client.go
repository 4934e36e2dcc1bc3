package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"triage/internal/config"
)

// Sentiment labels returned by binary sentiment models
const (
	SentimentNegative = "NEGATIVE"
	SentimentPositive = "POSITIVE"
)

// Sentiment is a coarse sentiment label with the model's probability (0-1)
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClient is the interface for sentiment inference providers
type SentimentClient interface {
	// Load prepares the model. A failure marks the model unavailable for the
	// lifetime of the classifier that owns the client.
	Load(ctx context.Context) error

	// Infer classifies text, truncated by the provider to maxLength
	Infer(ctx context.Context, text string, maxLength int) (*Sentiment, error)

	// Name identifies the provider in logs and health output
	Name() string
}

// NewSentimentClient selects a provider from configuration. It returns nil
// when no provider is configured.
func NewSentimentClient(cfg *config.Config) SentimentClient {
	switch cfg.Sentiment.Provider {
	case config.ProviderOpenAI:
		log.Info().Str("model", cfg.OpenAI.ChatModel).Str("api_base", cfg.OpenAI.APIBase).Msg("Using OpenAI-compatible sentiment provider")
		return NewOpenAISentimentClient(&cfg.OpenAI)
	case config.ProviderHuggingFace:
		log.Info().Str("model", cfg.Sentiment.Model).Str("api_base", cfg.Sentiment.APIBase).Msg("Using Hugging Face sentiment provider")
		return NewHuggingFaceClient(&cfg.Sentiment)
	default:
		log.Info().Msg("No sentiment provider configured")
		return nil
	}
}

func normalizeSentimentLabel(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch label {
	case "NEG", "LABEL_0":
		return SentimentNegative
	case "POS", "LABEL_1":
		return SentimentPositive
	}
	return label
}
