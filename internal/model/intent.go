package model

// Label is an intent category a message is classified into
type Label string

const (
	LabelQuestion  Label = "question"
	LabelComment   Label = "comment"
	LabelComplaint Label = "complaint"
)

// IntentLabels lists every label in display order
var IntentLabels = []Label{LabelQuestion, LabelComment, LabelComplaint}

// Valid reports whether l is one of the intent labels
func (l Label) Valid() bool {
	switch l {
	case LabelQuestion, LabelComment, LabelComplaint:
		return true
	}
	return false
}

// Method records which classifier produced a result
type Method string

const (
	MethodModel Method = "model"
	MethodRules Method = "rules"
)

// ClassificationResult is the outcome of a single classification call
type ClassificationResult struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"` // 0-100
	Reason     string  `json:"reason"`
	Escalate   bool    `json:"escalate"`
	Method     Method  `json:"method"`
}

// ScoreSet holds the per-category heuristic scores (0-100) for one text
type ScoreSet struct {
	Question  float64 `json:"question"`
	Complaint float64 `json:"complaint"`
	Comment   float64 `json:"comment"`
}

// Get returns the score for a label
func (s ScoreSet) Get(label Label) float64 {
	switch label {
	case LabelQuestion:
		return s.Question
	case LabelComplaint:
		return s.Complaint
	case LabelComment:
		return s.Comment
	}
	return 0
}

// Vector returns the scores as (question, complaint, comment)
func (s ScoreSet) Vector() []float32 {
	return []float32{float32(s.Question), float32(s.Complaint), float32(s.Comment)}
}
