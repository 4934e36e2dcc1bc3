package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"

	"triage/internal/model"
	"triage/internal/repository"
)

var (
	// ErrStoreDisabled is returned by review operations when no database is configured
	ErrStoreDisabled = errors.New("classification store is not configured")
	// ErrInvalidLabel is returned when a reviewer submits an unknown label
	ErrInvalidLabel = errors.New("invalid intent label")
)

const saveTimeout = 5 * time.Second

// ClassificationStore persists classifications and the escalation review queue
type ClassificationStore interface {
	SaveClassification(ctx context.Context, rec *model.ClassificationRecord) error
	GetClassification(ctx context.Context, id string) (*model.ClassificationRecord, error)
	ListEscalations(ctx context.Context, limit, offset int) ([]model.ClassificationRecord, int, error)
	SimilarEscalations(ctx context.Context, scores []float32, excludeID string, limit int) ([]model.ClassificationRecord, error)
	RecordReview(ctx context.Context, id string, label model.Label, reviewer string) error
}

// TriageService handles classification business logic
type TriageService struct {
	classifier *IntentClassifier
	provider   string
	store      ClassificationStore
	wg         sync.WaitGroup
}

// NewTriageService creates a new triage service. store may be nil.
func NewTriageService(classifier *IntentClassifier, provider string, store ClassificationStore) *TriageService {
	return &TriageService{
		classifier: classifier,
		provider:   provider,
		store:      store,
	}
}

// ModelAvailable reports whether the pretrained model path is active
func (s *TriageService) ModelAvailable() bool {
	return s.classifier.ModelAvailable()
}

// Provider returns the sentiment provider name
func (s *TriageService) Provider() string {
	return s.provider
}

// StoreEnabled reports whether classifications are persisted
func (s *TriageService) StoreEnabled() bool {
	return s.store != nil
}

// Classify classifies a single text and records it in the audit log
func (s *TriageService) Classify(ctx context.Context, text string) *model.ClassifyResponse {
	startTime := time.Now()

	result := s.classifier.ClassifyWithEscalation(ctx, text)
	resp := &model.ClassifyResponse{
		ID:                   uuid.NewString(),
		ClassificationResult: result,
	}
	resp.Took = time.Since(startTime).Milliseconds()

	// Log classification (non-blocking)
	if s.store != nil {
		rec := &model.ClassificationRecord{
			ID:         resp.ID,
			Text:       text,
			Label:      result.Label,
			Confidence: result.Confidence,
			Reason:     result.Reason,
			Escalate:   result.Escalate,
			Method:     result.Method,
			Scores:     pgvector.NewVector(s.classifier.Rules().Scores(text).Vector()),
			CreatedAt:  time.Now().UTC(),
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := s.store.SaveClassification(saveCtx, rec); err != nil {
				log.Error().Err(err).Str("id", rec.ID).Msg("Failed to save classification")
			}
		}()
	}

	return resp
}

// ClassifyEventCallback is called for streaming classification events
type ClassifyEventCallback func(event string, data any) error

// ClassifyBatch classifies several texts and summarizes the results
func (s *TriageService) ClassifyBatch(ctx context.Context, texts []string) (*model.BatchClassifyResponse, error) {
	return s.ClassifyBatchStream(ctx, texts, nil)
}

// ClassifyBatchStream classifies texts in order, emitting a "result" event per
// text. A callback error or a cancelled context stops the batch.
func (s *TriageService) ClassifyBatchStream(ctx context.Context, texts []string, callback ClassifyEventCallback) (*model.BatchClassifyResponse, error) {
	startTime := time.Now()

	summary := model.BatchSummary{
		ByLabel:  make(map[model.Label]int),
		ByMethod: make(map[model.Method]int),
	}
	results := make([]model.ClassifyResponse, 0, len(texts))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp := s.Classify(ctx, text)
		results = append(results, *resp)

		summary.Total++
		summary.ByLabel[resp.Label]++
		summary.ByMethod[resp.Method]++
		if resp.Escalate {
			summary.Escalations++
		}

		if callback != nil {
			if err := callback("result", map[string]any{"index": i, "result": resp}); err != nil {
				return nil, err
			}
		}
	}

	return &model.BatchClassifyResponse{
		Results: results,
		Summary: summary,
		Took:    time.Since(startTime).Milliseconds(),
	}, nil
}

// ListEscalations returns a page of the review queue
func (s *TriageService) ListEscalations(ctx context.Context, limit, offset int) (*model.EscalationListResponse, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	records, total, err := s.store.ListEscalations(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &model.EscalationListResponse{
		Results: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(records) < total,
	}, nil
}

// SimilarEscalations finds pending escalations scored like the given one
func (s *TriageService) SimilarEscalations(ctx context.Context, id string, limit int) ([]model.ClassificationRecord, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	rec, err := s.store.GetClassification(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.store.SimilarEscalations(ctx, rec.Scores.Slice(), rec.ID, limit)
}

// Review records the final label chosen by a human reviewer
func (s *TriageService) Review(ctx context.Context, id, label, reviewer string) error {
	if s.store == nil {
		return ErrStoreDisabled
	}

	l := model.Label(strings.ToLower(strings.TrimSpace(label)))
	if !l.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}

	if err := s.store.RecordReview(ctx, id, l, strings.TrimSpace(reviewer)); err != nil {
		return err
	}

	log.Info().Str("id", id).Str("label", string(l)).Str("reviewer", reviewer).Msg("Escalation reviewed")
	return nil
}

// Wait blocks until pending audit-log writes finish
func (s *TriageService) Wait() {
	s.wg.Wait()
}
