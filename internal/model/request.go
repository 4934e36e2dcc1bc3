package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// MaxBatchSize bounds the number of texts accepted by one batch request.
// BatchClassifyRequest's binding tag must carry the same value.
const MaxBatchSize = 100

// ClassifyRequest represents a single classification request
type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// ClassifyResponse represents a classification result returned to clients
type ClassifyResponse struct {
	ID string `json:"id"`
	ClassificationResult
	Took int64 `json:"took_ms"` // Response time in milliseconds
}

// BatchClassifyRequest represents a batch classification request.
// max in the binding tag is MaxBatchSize.
type BatchClassifyRequest struct {
	Texts []string `json:"texts" binding:"required,min=1,max=100"`
}

// BatchSummary aggregates a batch of results
type BatchSummary struct {
	Total       int            `json:"total"`
	Escalations int            `json:"escalations"`
	ByLabel     map[Label]int  `json:"by_label"`
	ByMethod    map[Method]int `json:"by_method"`
}

// BatchClassifyResponse represents the response for a batch classification
type BatchClassifyResponse struct {
	Results []ClassifyResponse `json:"results"`
	Summary BatchSummary       `json:"summary"`
	Took    int64              `json:"took_ms"`
}

// HealthResponse reports service status
type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	AIModelAvailable  bool   `json:"ai_model_available"`
	SentimentProvider string `json:"sentiment_provider"`
	Database          bool   `json:"database"`
}

// ClassificationRecord is a persisted classification, used for the audit log
// and the escalation review queue
type ClassificationRecord struct {
	ID            string          `json:"id" db:"id"`
	Text          string          `json:"text" db:"text"`
	Label         Label           `json:"label" db:"label"`
	Confidence    float64         `json:"confidence" db:"confidence"`
	Reason        string          `json:"reason" db:"reason"`
	Escalate      bool            `json:"escalate" db:"escalate"`
	Method        Method          `json:"method" db:"method"`
	Scores        pgvector.Vector `json:"-" db:"scores"`
	ReviewedLabel *Label          `json:"reviewed_label,omitempty" db:"reviewed_label"`
	Reviewer      *string         `json:"reviewer,omitempty" db:"reviewer"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
	Distance      *float64        `json:"distance,omitempty" db:"distance"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// EscalationListResponse represents a page of the review queue
type EscalationListResponse struct {
	Results []ClassificationRecord `json:"results"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
	HasMore bool                   `json:"has_more"`
}

// ReviewRequest represents a reviewer's decision on an escalated result
type ReviewRequest struct {
	Label    string `json:"label" binding:"required"`
	Reviewer string `json:"reviewer"`
}

// ReviewResponse represents review response
type ReviewResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
