package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"triage/internal/config"
	"triage/internal/utils"
)

// warmupText is sent by Load to check that the model answers
const warmupText = "ok"

const (
	loadRetryDelay  = 2 * time.Second
	maxLoadAttempts = 10
)

// errModelLoading marks a 503 from an endpoint whose model is still cold
var errModelLoading = errors.New("model is still loading")

// HuggingFaceClient calls a text-classification model over the Hugging Face
// Inference API (or a compatible self-hosted endpoint)
type HuggingFaceClient struct {
	config     *config.SentimentConfig
	httpClient *http.Client
	retryDelay time.Duration
}

// NewHuggingFaceClient creates a new Hugging Face inference client
func NewHuggingFaceClient(cfg *config.SentimentConfig) *HuggingFaceClient {
	return &HuggingFaceClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		retryDelay: loadRetryDelay,
	}
}

// Name returns the provider name
func (c *HuggingFaceClient) Name() string {
	return config.ProviderHuggingFace
}

// inferenceRequest is the request body of the Inference API
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
	Options    inferenceOptions    `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type inferenceParameters struct {
	Truncation bool `json:"truncation"`
	MaxLength  int  `json:"max_length,omitempty"`
}

// Load sends warm-up inferences until the model answers. A cold model
// (503) is retried until ctx is done; any other error fails the load.
func (c *HuggingFaceClient) Load(ctx context.Context) error {
	if c.config.Model == "" {
		return fmt.Errorf("no sentiment model configured")
	}

	var err error
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		if _, err = c.Infer(ctx, warmupText, c.config.MaxLength); err == nil {
			return nil
		}
		if !errors.Is(err, errModelLoading) || attempt == maxLoadAttempts {
			break
		}

		log.Info().Str("model", c.config.Model).Int("attempt", attempt).Msg("Sentiment model is loading, retrying warm-up")
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to load model %s: %w", c.config.Model, ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
	return fmt.Errorf("failed to load model %s: %w", c.config.Model, err)
}

// Infer returns the highest-scoring sentiment label for text
func (c *HuggingFaceClient) Infer(ctx context.Context, text string, maxLength int) (*Sentiment, error) {
	reqBody, err := json.Marshal(inferenceRequest{
		Inputs: utils.TruncateRunes(text, maxLength),
		Parameters: inferenceParameters{
			Truncation: true,
			MaxLength:  maxLength,
		},
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.config.APIBase, c.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: %s", errModelLoading, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return parseInferenceResponse(body)
}

// parseInferenceResponse accepts both [[{label,score},...]] and [{label,score},...]
func parseInferenceResponse(body []byte) (*Sentiment, error) {
	var candidates []Sentiment

	var nested [][]Sentiment
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		candidates = nested[0]
	} else {
		var flat []Sentiment
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		candidates = flat
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("inference response contained no labels")
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}

	if strings.TrimSpace(best.Label) == "" {
		return nil, fmt.Errorf("inference response contained an empty label")
	}

	return &Sentiment{
		Label: normalizeSentimentLabel(best.Label),
		Score: max(0, min(best.Score, 1)),
	}, nil
}
