package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"triage/internal/model"
	"triage/internal/utils"
)

// ErrModelUnavailable is returned when the sentiment model could not be loaded
var ErrModelUnavailable = errors.New("sentiment model not available")

// errCallerDone marks an inference abandoned because the caller's context
// ended. It does not count against the circuit breaker.
var errCallerDone = errors.New("caller context done")

// Confidence constants for the model path
const (
	questionMarkConfidence  = 85.0
	questionLeadConfidence  = 80.0
	modelConfidenceCap      = 95.0
	weakComplaintCap        = 75.0
	weakSentimentScale      = 80.0
	neutralCommentFloor     = 60.0
	strongNegativeThreshold = 0.8
)

// Reasons produced by the model path
const (
	ReasonModelQuestionMark = "Contains question mark and interrogative structure"
	ReasonModelQuestionLead = "Starts with interrogative word seeking information"
)

// PretrainedOptions configures a PretrainedClassifier
type PretrainedOptions struct {
	MaxLength int
	Timeout   time.Duration
}

// PretrainedClassifier maps a binary sentiment model onto the three intent labels
type PretrainedClassifier struct {
	client    SentimentClient
	available bool
	maxLength int
	timeout   time.Duration
	cb        *gobreaker.CircuitBreaker
}

// NewPretrainedClassifier loads the model once. If loading fails the
// classifier stays unavailable for its whole lifetime.
func NewPretrainedClassifier(ctx context.Context, client SentimentClient, opts PretrainedOptions) *PretrainedClassifier {
	c := &PretrainedClassifier{
		client:    client,
		maxLength: opts.MaxLength,
		timeout:   opts.Timeout,
	}

	if client == nil {
		log.Warn().Msg("Sentiment model disabled, using rule-based classification only")
		return c
	}

	name := client.Name()
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name + "-sentiment",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerDone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	loadCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := client.Load(loadCtx); err != nil {
		log.Warn().Err(err).Str("provider", name).Msg("Could not load sentiment model, falling back to rules")
		return c
	}

	c.available = true
	log.Info().Str("provider", name).Msg("Sentiment model loaded successfully")
	return c
}

// IsAvailable reports whether the model loaded
func (c *PretrainedClassifier) IsAvailable() bool {
	return c.available
}

// Provider returns the provider name, or "none"
func (c *PretrainedClassifier) Provider() string {
	if c.client == nil {
		return "none"
	}
	return c.client.Name()
}

// Classify predicts an intent from question cues and model sentiment.
// It returns an error instead of a prediction when the model cannot answer.
func (c *PretrainedClassifier) Classify(ctx context.Context, text string) (*Prediction, error) {
	if !c.available {
		return nil, ErrModelUnavailable
	}

	normalized := utils.NormalizeText(text)

	if strings.Contains(text, "?") {
		return &Prediction{Label: model.LabelQuestion, Confidence: questionMarkConfidence, Reason: ReasonModelQuestionMark}, nil
	}

	if utils.HasWordPrefix(normalized, ModelQuestionWords) {
		return &Prediction{Label: model.LabelQuestion, Confidence: questionLeadConfidence, Reason: ReasonModelQuestionLead}, nil
	}

	sentiment, err := c.infer(ctx, text)
	if err != nil {
		return nil, err
	}

	return mapSentiment(normalized, sentiment), nil
}

func (c *PretrainedClassifier) infer(ctx context.Context, text string) (*Sentiment, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// Only the per-call timeout counts as a provider failure
	result, err := c.cb.Execute(func() (interface{}, error) {
		sentiment, err := c.client.Infer(callCtx, utils.TruncateRunes(text, c.maxLength), c.maxLength)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerDone, ctx.Err())
		}
		return sentiment, err
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment inference failed: %w", err)
	}

	sentiment, ok := result.(*Sentiment)
	if !ok || sentiment == nil {
		return nil, fmt.Errorf("sentiment inference returned no result")
	}
	return sentiment, nil
}

// mapSentiment turns a binary sentiment into a complaint or comment prediction
func mapSentiment(text string, s *Sentiment) *Prediction {
	score := max(0, min(s.Score, 1))

	if s.Label == SentimentNegative {
		if utils.ContainsAny(text, ModelComplaintIndicators) || score > strongNegativeThreshold {
			return &Prediction{
				Label:      model.LabelComplaint,
				Confidence: min(score*100, modelConfidenceCap),
				Reason:     fmt.Sprintf("Negative sentiment with complaint indicators (model confidence: %.2f)", score),
			}
		}
		return &Prediction{
			Label:      model.LabelComplaint,
			Confidence: min(score*weakSentimentScale, weakComplaintCap),
			Reason:     fmt.Sprintf("Negative sentiment detected (model confidence: %.2f)", score),
		}
	}

	if utils.ContainsAny(text, ModelPositiveIndicators) {
		return &Prediction{
			Label:      model.LabelComment,
			Confidence: min(score*100, modelConfidenceCap),
			Reason:     fmt.Sprintf("Positive sentiment detected (model confidence: %.2f)", score),
		}
	}
	return &Prediction{
		Label:      model.LabelComment,
		Confidence: max(score*weakSentimentScale, neutralCommentFloor),
		Reason:     fmt.Sprintf("Neutral observation or feedback (model confidence: %.2f)", score),
	}
}
