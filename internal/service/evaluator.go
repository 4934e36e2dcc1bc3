package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"triage/internal/dataset"
	"triage/internal/model"
)

// Accuracy targets for evaluation runs
const (
	ModelAccuracyTarget = 85.0
	RulesAccuracyTarget = 70.0
)

// LabelStats counts correct predictions for one true label
type LabelStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the percentage of correct predictions
func (s LabelStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// EvaluatedPrediction is one example with the classifier's answer
type EvaluatedPrediction struct {
	Text           string       `json:"text"`
	TrueLabel      string       `json:"true_label"`
	PredictedLabel model.Label  `json:"predicted_label"`
	Confidence     float64      `json:"confidence"`
	Correct        bool         `json:"correct"`
	Reason         string       `json:"reason"`
	Method         model.Method `json:"method"`
}

// Report summarizes classifier accuracy over a dataset
type Report struct {
	Total         int                            `json:"total"`
	Correct       int                            `json:"correct"`
	Accuracy      float64                        `json:"accuracy"`
	AvgConfidence float64                        `json:"avg_confidence"`
	Escalations   int                            `json:"escalations"`
	MethodStats   map[model.Method]int           `json:"method_stats"`
	ByLabel       map[string]*LabelStats         `json:"by_label"`
	Confusion     map[string]map[model.Label]int `json:"confusion_matrix"`
	Predictions   []EvaluatedPrediction          `json:"predictions"`
}

// TargetAccuracy is the bar the run must meet: higher when the model answered
func (r *Report) TargetAccuracy() float64 {
	if r.MethodStats[model.MethodModel] > 0 {
		return ModelAccuracyTarget
	}
	return RulesAccuracyTarget
}

// Passed reports whether accuracy met the target
func (r *Report) Passed() bool {
	return r.Accuracy >= r.TargetAccuracy()
}

// Errors returns the misclassified predictions
func (r *Report) Errors() []EvaluatedPrediction {
	var errs []EvaluatedPrediction
	for _, p := range r.Predictions {
		if !p.Correct {
			errs = append(errs, p)
		}
	}
	return errs
}

// Evaluator runs an intent classifier over labeled examples
type Evaluator struct {
	classifier *IntentClassifier
}

// NewEvaluator creates a new evaluator
func NewEvaluator(classifier *IntentClassifier) *Evaluator {
	return &Evaluator{classifier: classifier}
}

// Evaluate classifies every example and scores the results
func (e *Evaluator) Evaluate(ctx context.Context, examples []dataset.Example) *Report {
	report := &Report{
		MethodStats: map[model.Method]int{model.MethodModel: 0, model.MethodRules: 0},
		ByLabel:     make(map[string]*LabelStats),
		Confusion:   make(map[string]map[model.Label]int),
		Predictions: make([]EvaluatedPrediction, 0, len(examples)),
	}

	var totalConfidence float64
	for i, ex := range examples {
		result := e.classifier.ClassifyWithEscalation(ctx, ex.Text)
		correct := string(result.Label) == ex.Label

		report.Total++
		report.MethodStats[result.Method]++
		totalConfidence += result.Confidence
		if result.Escalate {
			report.Escalations++
		}
		if correct {
			report.Correct++
		}

		if report.Confusion[ex.Label] == nil {
			report.Confusion[ex.Label] = make(map[model.Label]int)
		}
		report.Confusion[ex.Label][result.Label]++

		stats, ok := report.ByLabel[ex.Label]
		if !ok {
			stats = &LabelStats{}
			report.ByLabel[ex.Label] = stats
		}
		stats.Total++
		if correct {
			stats.Correct++
		}

		report.Predictions = append(report.Predictions, EvaluatedPrediction{
			Text:           ex.Text,
			TrueLabel:      ex.Label,
			PredictedLabel: result.Label,
			Confidence:     result.Confidence,
			Correct:        correct,
			Reason:         result.Reason,
			Method:         result.Method,
		})

		if (i+1)%10 == 0 {
			log.Debug().Int("processed", i+1).Int("total", len(examples)).Msg("Evaluation progress")
		}
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total) * 100
		report.AvgConfidence = totalConfidence / float64(report.Total)
	}

	return report
}
