package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/dataset"
	"triage/internal/model"
)

func TestEvaluator_Evaluate(t *testing.T) {
	classifier := NewIntentClassifier(nil, nil, IntentOptions{ConfidenceThreshold: 70})
	evaluator := NewEvaluator(classifier)

	report := evaluator.Evaluate(context.Background(), []dataset.Example{
		{Text: "How do I reset my password?", Label: "question"},
		{Text: "This is terrible and never works properly!", Label: "complaint"},
		{Text: "I really love this feature, it's fantastic!", Label: "comment"},
		{Text: "Why is this so bad?", Label: "complaint"},
	})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Correct)
	assert.Equal(t, 75.0, report.Accuracy)
	assert.Equal(t, 75.0, report.AvgConfidence)
	assert.Equal(t, 1, report.Escalations)
	assert.Equal(t, 4, report.MethodStats[model.MethodRules])
	assert.Equal(t, 0, report.MethodStats[model.MethodModel])

	assert.Equal(t, LabelStats{Correct: 1, Total: 2}, *report.ByLabel["complaint"])
	assert.Equal(t, 50.0, report.ByLabel["complaint"].Accuracy())
	assert.Equal(t, 1, report.Confusion["complaint"][model.LabelQuestion])
	assert.Equal(t, 1, report.Confusion["complaint"][model.LabelComplaint])

	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "Why is this so bad?", errs[0].Text)
	assert.Equal(t, model.LabelQuestion, errs[0].PredictedLabel)

	assert.Equal(t, RulesAccuracyTarget, report.TargetAccuracy())
	assert.True(t, report.Passed())
}

func TestEvaluator_ModelTarget(t *testing.T) {
	stub := &stubModel{available: true, prediction: &Prediction{Label: model.LabelComment, Confidence: 90, Reason: "stub"}}
	classifier := NewIntentClassifier(stub, nil, IntentOptions{UseModel: true, ConfidenceThreshold: 70})

	report := NewEvaluator(classifier).Evaluate(context.Background(), []dataset.Example{
		{Text: "Nice work", Label: "comment"},
		{Text: "Where is it", Label: "question"},
		{Text: "Lovely", Label: "comment"},
		{Text: "Thanks", Label: "comment"},
		{Text: "Meh", Label: "complaint"},
	})

	assert.Equal(t, 5, report.MethodStats[model.MethodModel])
	assert.Equal(t, 60.0, report.Accuracy)
	assert.Equal(t, ModelAccuracyTarget, report.TargetAccuracy())
	assert.False(t, report.Passed())
}

func TestEvaluator_Empty(t *testing.T) {
	report := NewEvaluator(NewIntentClassifier(nil, nil, IntentOptions{ConfidenceThreshold: 70})).Evaluate(context.Background(), nil)

	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0.0, report.Accuracy)
	assert.Empty(t, report.Errors())
}
