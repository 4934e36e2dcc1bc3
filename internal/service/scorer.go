package service

import (
	"strings"

	"triage/internal/model"
	"triage/internal/utils"
)

// Score weights
const (
	questionMarkBonus     = 40.0
	questionLeadBonus     = 30.0
	questionWordWeight    = 5.0
	questionWordCap       = 30.0
	complaintWordWeight   = 20.0
	complaintWordCap      = 70.0
	negativePhraseBonus   = 25.0
	exclamationBonus      = 15.0
	personalComplaintBump = 25.0
	commentBase           = 30.0
	positiveWordWeight    = 15.0
	positiveWordCap       = 50.0
	declarativeBonus      = 10.0
	opinionPatternBonus   = 10.0
	maxScore              = 100.0
)

// tieBreakOrder decides between equal scores: the first label in this order wins
var tieBreakOrder = []model.Label{model.LabelQuestion, model.LabelComplaint, model.LabelComment}

// LexicalScorer computes independent heuristic scores per category
type LexicalScorer struct{}

// NewLexicalScorer creates a new lexical scorer
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

// Score normalizes text and scores every category
func (s *LexicalScorer) Score(text string) model.ScoreSet {
	normalized := utils.NormalizeText(text)
	return model.ScoreSet{
		Question:  s.questionScore(normalized),
		Complaint: s.complaintScore(normalized),
		Comment:   s.commentScore(normalized),
	}
}

// Best picks the highest-scoring label. Ties go to the earlier label in
// question, complaint, comment order.
func (s *LexicalScorer) Best(scores model.ScoreSet) (model.Label, float64) {
	best := tieBreakOrder[0]
	bestScore := scores.Get(best)
	for _, label := range tieBreakOrder[1:] {
		if score := scores.Get(label); score > bestScore {
			best, bestScore = label, score
		}
	}
	return best, bestScore
}

func (s *LexicalScorer) questionScore(text string) float64 {
	score := 0.0

	if strings.Contains(text, "?") {
		score += questionMarkBonus
	}

	first := utils.FirstWord(text)
	for _, w := range QuestionWords {
		if first == w {
			score += questionLeadBonus
			break
		}
	}

	count := float64(utils.CountContained(text, QuestionWords))
	score += min(count*questionWordWeight, questionWordCap)

	return clamp(score)
}

func (s *LexicalScorer) complaintScore(text string) float64 {
	count := float64(utils.CountContained(text, ComplaintWords))
	score := min(count*complaintWordWeight, complaintWordCap)

	score += float64(utils.CountContained(text, NegativePhrases)) * negativePhraseBonus

	if strings.Contains(text, "!") {
		score += exclamationBonus
	}

	if personalComplaintPattern.MatchString(text) {
		score += personalComplaintBump
	}

	return clamp(score)
}

func (s *LexicalScorer) commentScore(text string) float64 {
	score := commentBase

	count := float64(utils.CountContained(text, PositiveWords))
	score += min(count*positiveWordWeight, positiveWordCap)

	if !strings.ContainsAny(text, "?!") {
		score += declarativeBonus
	}

	score += float64(utils.CountMatching(text, opinionPatterns)) * opinionPatternBonus

	return clamp(score)
}

func clamp(score float64) float64 {
	return max(0, min(score, maxScore))
}
