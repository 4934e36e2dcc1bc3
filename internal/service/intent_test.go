package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/config"
	"triage/internal/model"
)

func TestIntentClassifier_EmptyInput(t *testing.T) {
	stub := &stubModel{available: true, prediction: &Prediction{Label: model.LabelQuestion, Confidence: 99}}
	c := NewIntentClassifier(stub, nil, IntentOptions{UseModel: true, ConfidenceThreshold: 70})

	for _, text := range []string{"", "   ", "\t\n"} {
		result := c.ClassifyWithEscalation(context.Background(), text)
		assert.Equal(t, model.ClassificationResult{
			Label:      model.LabelComment,
			Confidence: 30,
			Reason:     ReasonEmptyInput,
			Escalate:   true,
			Method:     model.MethodRules,
		}, result)
	}
	assert.Equal(t, 0, stub.calls)
}

func TestIntentClassifier_UsesModel(t *testing.T) {
	stub := &stubModel{available: true, prediction: &Prediction{Label: model.LabelComplaint, Confidence: 91, Reason: "model says so"}}
	c := NewIntentClassifier(stub, nil, IntentOptions{UseModel: true, ConfidenceThreshold: 70})

	result := c.ClassifyWithEscalation(context.Background(), "I really love this feature")

	assert.Equal(t, model.LabelComplaint, result.Label)
	assert.Equal(t, 91.0, result.Confidence)
	assert.Equal(t, "model says so", result.Reason)
	assert.Equal(t, model.MethodModel, result.Method)
	assert.False(t, result.Escalate)
	assert.True(t, c.ModelAvailable())
}

func TestIntentClassifier_FallsBackToRules(t *testing.T) {
	rules := NewRuleBasedClassifier()
	text := "What time is it?"
	want := rules.Classify(text)

	tests := []struct {
		name  string
		model ModelClassifier
		opts  IntentOptions
	}{
		{"no model", nil, IntentOptions{UseModel: true, ConfidenceThreshold: 70}},
		{"model unavailable", &stubModel{available: false}, IntentOptions{UseModel: true, ConfidenceThreshold: 70}},
		{"model disabled", &stubModel{available: true, prediction: &Prediction{Label: model.LabelComment, Confidence: 99}}, IntentOptions{UseModel: false, ConfidenceThreshold: 70}},
		{"model call fails", &stubModel{available: true, err: errBoom}, IntentOptions{UseModel: true, ConfidenceThreshold: 70}},
		{"model returns nothing", &stubModel{available: true}, IntentOptions{UseModel: true, ConfidenceThreshold: 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewIntentClassifier(tt.model, rules, tt.opts)

			outcome := c.Classify(context.Background(), text)
			assert.False(t, outcome.UsedModel)
			assert.Equal(t, want, outcome.Prediction)

			result := c.ClassifyWithEscalation(context.Background(), text)
			assert.Equal(t, model.MethodRules, result.Method)
			assert.Equal(t, model.LabelQuestion, result.Label)
			assert.Equal(t, 80.0, result.Confidence)
			assert.False(t, result.Escalate)
		})
	}
}

func TestIntentClassifier_ModelFailureRecovers(t *testing.T) {
	client := &fakeSentimentClient{inferErr: errBoom}
	pretrained := NewPretrainedClassifier(context.Background(), client, PretrainedOptions{MaxLength: 512, Timeout: time.Second})
	c := NewIntentClassifier(pretrained, nil, IntentOptions{UseModel: true, ConfidenceThreshold: 70})

	result := c.ClassifyWithEscalation(context.Background(), "This is terrible and never works properly!")
	assert.Equal(t, model.MethodRules, result.Method)
	assert.Equal(t, model.LabelComplaint, result.Label)
	assert.Equal(t, 80.0, result.Confidence)

	// The question shortcut never reaches the failing client
	result = c.ClassifyWithEscalation(context.Background(), "Is it raining?")
	assert.Equal(t, model.MethodModel, result.Method)
	assert.Equal(t, 85.0, result.Confidence)
}

func TestIntentClassifier_EscalationPolicy(t *testing.T) {
	texts := []string{
		"How do I reset my password?",
		"This is terrible and never works properly!",
		"I really love this feature, it's fantastic!",
		"hello world",
		"",
	}

	for _, threshold := range []int{0, 40, 60, 70, 80, 100} {
		c := NewIntentClassifier(nil, nil, IntentOptions{ConfidenceThreshold: threshold})
		assert.Equal(t, threshold, c.Threshold())

		for _, text := range texts {
			result := c.ClassifyWithEscalation(context.Background(), text)
			assert.Equal(t, result.Confidence < float64(threshold), result.Escalate,
				"threshold %d text %q confidence %.1f", threshold, text, result.Confidence)
		}
	}
}

func TestShouldEscalate(t *testing.T) {
	assert.True(t, ShouldEscalate(69.9, 70))
	assert.False(t, ShouldEscalate(70, 70))
	assert.False(t, ShouldEscalate(95, 70))
	assert.False(t, ShouldEscalate(0, 0))
	assert.True(t, ShouldEscalate(99, 100))
}

func TestBuildIntentClassifier_ModelDisabled(t *testing.T) {
	cfg := &config.Config{
		Classifier: config.ClassifierConfig{UseModel: false, ConfidenceThreshold: 70},
		Sentiment:  config.SentimentConfig{Provider: config.ProviderHuggingFace, MaxLength: 512, Timeout: 1},
	}

	classifier, pretrained := BuildIntentClassifier(context.Background(), cfg)
	require.NotNil(t, classifier)
	require.NotNil(t, pretrained)
	assert.False(t, classifier.ModelAvailable())
	assert.Equal(t, "none", pretrained.Provider())

	result := classifier.ClassifyWithEscalation(context.Background(), "How do I reset my password?")
	assert.Equal(t, model.MethodRules, result.Method)
}

func TestBuildIntentClassifier_NoProvider(t *testing.T) {
	cfg := &config.Config{
		Classifier: config.ClassifierConfig{UseModel: true, ConfidenceThreshold: 70},
		Sentiment:  config.SentimentConfig{Provider: config.ProviderNone, MaxLength: 512, Timeout: 1},
	}

	classifier, pretrained := BuildIntentClassifier(context.Background(), cfg)
	assert.False(t, classifier.ModelAvailable())
	assert.False(t, pretrained.IsAvailable())
}
