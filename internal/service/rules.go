package service

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"triage/internal/model"
	"triage/internal/utils"
)

// Reason strings produced by the rule-based classifier
const (
	ReasonQuestionMark       = "Contains question mark and interrogative structure"
	ReasonQuestionWords      = "Contains question words seeking information"
	ReasonComplaintGeneric   = "Expresses frustration or problem with service"
	ReasonCommentDeclarative = "Declarative statement providing feedback or opinion"
)

// Prediction is a label with its confidence (0-100) and a short explanation
type Prediction struct {
	Label      model.Label
	Confidence float64
	Reason     string
}

// RuleBasedClassifier classifies text with keyword and pattern heuristics.
// It is total: every input string yields a valid prediction.
type RuleBasedClassifier struct {
	scorer *LexicalScorer
}

// NewRuleBasedClassifier creates a new rule-based classifier
func NewRuleBasedClassifier() *RuleBasedClassifier {
	return &RuleBasedClassifier{scorer: NewLexicalScorer()}
}

// Classify picks the best-scoring category and explains it
func (c *RuleBasedClassifier) Classify(text string) Prediction {
	normalized := utils.NormalizeText(text)
	scores := c.scorer.Score(normalized)
	label, confidence := c.scorer.Best(scores)

	log.Debug().
		Str("label", string(label)).
		Float64("confidence", confidence).
		Msg("Rule-based classification")

	return Prediction{
		Label:      label,
		Confidence: confidence,
		Reason:     c.reason(label, normalized),
	}
}

// Scores exposes the raw category scores for text
func (c *RuleBasedClassifier) Scores(text string) model.ScoreSet {
	return c.scorer.Score(text)
}

func (c *RuleBasedClassifier) reason(label model.Label, text string) string {
	switch label {
	case model.LabelQuestion:
		if strings.Contains(text, "?") {
			return ReasonQuestionMark
		}
		return ReasonQuestionWords
	case model.LabelComplaint:
		if word, ok := utils.FirstContained(text, ComplaintWords); ok {
			return fmt.Sprintf("Contains negative language indicating dissatisfaction ('%s')", word)
		}
		return ReasonComplaintGeneric
	default:
		if word, ok := utils.FirstContained(text, PositiveWords); ok {
			return fmt.Sprintf("Appears to be feedback or observation ('%s')", word)
		}
		return ReasonCommentDeclarative
	}
}
