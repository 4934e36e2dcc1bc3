package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"triage/internal/config"
	"triage/internal/model"
)

// Result for empty or whitespace-only input
const (
	emptyInputConfidence = 30.0
	ReasonEmptyInput     = "empty or invalid input"
)

// ModelClassifier is the pretrained-model strategy used by IntentClassifier
type ModelClassifier interface {
	IsAvailable() bool
	Classify(ctx context.Context, text string) (*Prediction, error)
}

// Outcome is a prediction together with the path that produced it
type Outcome struct {
	Prediction
	UsedModel bool
}

// IntentOptions configures the orchestration policy
type IntentOptions struct {
	UseModel            bool
	ConfidenceThreshold int
}

// IntentClassifier tries the pretrained model first and falls back to rules
type IntentClassifier struct {
	model     ModelClassifier
	rules     *RuleBasedClassifier
	useModel  bool
	threshold int
}

// NewIntentClassifier creates a new intent classifier. modelClassifier may be nil.
func NewIntentClassifier(modelClassifier ModelClassifier, rules *RuleBasedClassifier, opts IntentOptions) *IntentClassifier {
	if rules == nil {
		rules = NewRuleBasedClassifier()
	}
	return &IntentClassifier{
		model:     modelClassifier,
		rules:     rules,
		useModel:  opts.UseModel,
		threshold: opts.ConfidenceThreshold,
	}
}

// BuildIntentClassifier wires the configured sentiment provider, the
// pretrained classifier and the rule-based fallback. Call it once per process.
func BuildIntentClassifier(ctx context.Context, cfg *config.Config) (*IntentClassifier, *PretrainedClassifier) {
	var pretrained *PretrainedClassifier
	if cfg.Classifier.UseModel {
		pretrained = NewPretrainedClassifier(ctx, NewSentimentClient(cfg), PretrainedOptions{
			MaxLength: cfg.Sentiment.MaxLength,
			Timeout:   sentimentTimeout(cfg),
		})
	} else {
		log.Info().Msg("AI model disabled by configuration, using rule-based classification")
		pretrained = NewPretrainedClassifier(ctx, nil, PretrainedOptions{})
	}

	classifier := NewIntentClassifier(pretrained, NewRuleBasedClassifier(), IntentOptions{
		UseModel:            cfg.Classifier.UseModel,
		ConfidenceThreshold: cfg.Classifier.ConfidenceThreshold,
	})
	return classifier, pretrained
}

// Threshold returns the configured confidence threshold
func (c *IntentClassifier) Threshold() int {
	return c.threshold
}

// ModelAvailable reports whether the model path can be taken
func (c *IntentClassifier) ModelAvailable() bool {
	return c.useModel && c.model != nil && c.model.IsAvailable()
}

// Rules returns the rule-based fallback classifier
func (c *IntentClassifier) Rules() *RuleBasedClassifier {
	return c.rules
}

// Classify returns the best available prediction for text
func (c *IntentClassifier) Classify(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		log.Warn().Msg("Empty or invalid input received")
		return Outcome{Prediction: Prediction{
			Label:      model.LabelComment,
			Confidence: emptyInputConfidence,
			Reason:     ReasonEmptyInput,
		}}
	}

	if c.ModelAvailable() {
		prediction, err := c.model.Classify(ctx, text)
		if err == nil && prediction != nil {
			return Outcome{Prediction: *prediction, UsedModel: true}
		}
		log.Warn().Err(err).Msg("AI classification failed, falling back to rules")
	}

	return Outcome{Prediction: c.rules.Classify(text)}
}

// ClassifyWithEscalation classifies text and applies the escalation policy
func (c *IntentClassifier) ClassifyWithEscalation(ctx context.Context, text string) model.ClassificationResult {
	outcome := c.Classify(ctx, text)

	escalate := ShouldEscalate(outcome.Confidence, c.threshold)
	if escalate {
		log.Info().
			Float64("confidence", outcome.Confidence).
			Int("threshold", c.threshold).
			Msg("Classification flagged for escalation")
	}

	method := model.MethodRules
	if outcome.UsedModel {
		method = model.MethodModel
	}

	return model.ClassificationResult{
		Label:      outcome.Label,
		Confidence: outcome.Confidence,
		Reason:     outcome.Reason,
		Escalate:   escalate,
		Method:     method,
	}
}

// ShouldEscalate reports whether a result needs human review
func ShouldEscalate(confidence float64, threshold int) bool {
	return confidence < float64(threshold)
}

func sentimentTimeout(cfg *config.Config) time.Duration {
	seconds := cfg.Sentiment.Timeout
	if cfg.Sentiment.Provider == config.ProviderOpenAI && cfg.OpenAI.Timeout > 0 {
		seconds = cfg.OpenAI.Timeout
	}
	return time.Duration(seconds) * time.Second
}
