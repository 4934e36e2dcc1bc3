package service

import (
	"context"
	"errors"
	"sync"

	"triage/internal/model"
	"triage/internal/repository"
)

// fakeSentimentClient returns a fixed sentiment and records calls
type fakeSentimentClient struct {
	mu        sync.Mutex
	loadErr   error
	inferErr  error
	sentiment Sentiment
	loads     int
	infers    int
	lastText  string
	lastMax   int
}

func (f *fakeSentimentClient) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.loadErr
}

func (f *fakeSentimentClient) Infer(ctx context.Context, text string, maxLength int) (*Sentiment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infers++
	f.lastText = text
	f.lastMax = maxLength
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.inferErr != nil {
		return nil, f.inferErr
	}
	s := f.sentiment
	return &s, nil
}

func (f *fakeSentimentClient) Name() string { return "fake" }

// stubModel is a ModelClassifier with canned answers
type stubModel struct {
	available  bool
	prediction *Prediction
	err        error
	calls      int
}

func (s *stubModel) IsAvailable() bool { return s.available }

func (s *stubModel) Classify(ctx context.Context, text string) (*Prediction, error) {
	s.calls++
	return s.prediction, s.err
}

// memoryStore is an in-memory ClassificationStore
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*model.ClassificationRecord
	order   []string
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*model.ClassificationRecord)}
}

func (m *memoryStore) SaveClassification(ctx context.Context, rec *model.ClassificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *rec
	m.records[rec.ID] = &cp
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *memoryStore) GetClassification(ctx context.Context, id string) (*model.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memoryStore) pending() []model.ClassificationRecord {
	var out []model.ClassificationRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		rec := m.records[m.order[i]]
		if rec.Escalate && rec.ReviewedLabel == nil {
			out = append(out, *rec)
		}
	}
	return out
}

func (m *memoryStore) ListEscalations(ctx context.Context, limit, offset int) ([]model.ClassificationRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.pending()
	if offset >= len(all) {
		return []model.ClassificationRecord{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (m *memoryStore) SimilarEscalations(ctx context.Context, scores []float32, excludeID string, limit int) ([]model.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ClassificationRecord
	for _, rec := range m.pending() {
		if rec.ID != excludeID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memoryStore) RecordReview(ctx context.Context, id string, label model.Label, reviewer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	l := label
	rec.ReviewedLabel = &l
	if reviewer != "" {
		rec.Reviewer = &reviewer
	}
	return nil
}

var errBoom = errors.New("boom")
