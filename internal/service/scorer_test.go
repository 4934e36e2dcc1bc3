package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"triage/internal/model"
)

func TestLexicalScorer_Score(t *testing.T) {
	scorer := NewLexicalScorer()

	tests := []struct {
		name string
		text string
		want model.ScoreSet
	}{
		{
			name: "question with mark and lead word",
			text: "How do I reset my password?",
			want: model.ScoreSet{Question: 80, Complaint: 0, Comment: 30},
		},
		{
			name: "complaint with phrase and exclamation",
			text: "This is terrible and never works properly!",
			want: model.ScoreSet{Question: 5, Complaint: 80, Comment: 30},
		},
		{
			name: "positive comment",
			text: "I really love this feature, it's fantastic!",
			want: model.ScoreSet{Question: 5, Complaint: 15, Comment: 60},
		},
		{
			name: "complaint words capped before phrase bonus",
			text: "The app keeps crashing constantly.",
			want: model.ScoreSet{Question: 0, Complaint: 85, Comment: 40},
		},
		{
			name: "personal complaint pattern",
			text: "I am very frustrated",
			want: model.ScoreSet{Question: 0, Complaint: 45, Comment: 40},
		},
		{
			name: "opinion pattern",
			text: "I think the new layout is nice",
			want: model.ScoreSet{Question: 5, Complaint: 0, Comment: 65},
		},
		{
			name: "case and surrounding whitespace ignored",
			text: "   WHAT TIME IS IT?  ",
			want: model.ScoreSet{Question: 80, Complaint: 0, Comment: 30},
		},
		{
			name: "empty text",
			text: "",
			want: model.ScoreSet{Question: 0, Complaint: 0, Comment: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.text))
		})
	}
}

func TestLexicalScorer_ScoresAreBounded(t *testing.T) {
	scorer := NewLexicalScorer()

	text := "Why? How? What? terrible awful horrible worst bad broken useless not working " +
		"doesn't work won't work can't use keeps crashing want a refund I am so angry! " +
		"great good excellent amazing love thanks i think i believe i feel"

	scores := scorer.Score(text)
	for _, label := range model.IntentLabels {
		assert.GreaterOrEqual(t, scores.Get(label), 0.0)
		assert.LessOrEqual(t, scores.Get(label), 100.0)
	}
	assert.Equal(t, 100.0, scores.Complaint)
}

func TestLexicalScorer_Best(t *testing.T) {
	scorer := NewLexicalScorer()

	tests := []struct {
		name      string
		scores    model.ScoreSet
		wantLabel model.Label
		wantScore float64
	}{
		{"question wins", model.ScoreSet{Question: 80, Complaint: 10, Comment: 30}, model.LabelQuestion, 80},
		{"complaint wins", model.ScoreSet{Question: 5, Complaint: 80, Comment: 30}, model.LabelComplaint, 80},
		{"comment wins", model.ScoreSet{Question: 5, Complaint: 15, Comment: 60}, model.LabelComment, 60},
		{"three-way tie goes to question", model.ScoreSet{Question: 40, Complaint: 40, Comment: 40}, model.LabelQuestion, 40},
		{"question and comment tie", model.ScoreSet{Question: 50, Complaint: 10, Comment: 50}, model.LabelQuestion, 50},
		{"complaint and comment tie", model.ScoreSet{Question: 0, Complaint: 40, Comment: 40}, model.LabelComplaint, 40},
		{"all zero", model.ScoreSet{}, model.LabelQuestion, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, score := scorer.Best(tt.scores)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}
