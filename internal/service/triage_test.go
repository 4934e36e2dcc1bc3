package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/model"
	"triage/internal/repository"
)

func newTestTriage(store ClassificationStore) *TriageService {
	classifier := NewIntentClassifier(nil, nil, IntentOptions{ConfidenceThreshold: 70})
	return NewTriageService(classifier, "none", store)
}

func TestTriageService_Classify(t *testing.T) {
	store := newMemoryStore()
	svc := newTestTriage(store)

	resp := svc.Classify(context.Background(), "How do I reset my password?")
	svc.Wait()

	_, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LabelQuestion, resp.Label)
	assert.Equal(t, 80.0, resp.Confidence)
	assert.Equal(t, model.MethodRules, resp.Method)
	assert.False(t, resp.Escalate)

	rec, err := store.GetClassification(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "How do I reset my password?", rec.Text)
	assert.Equal(t, model.LabelQuestion, rec.Label)
	assert.Equal(t, []float32{80, 0, 30}, rec.Scores.Slice())
}

func TestTriageService_ClassifyWithoutStore(t *testing.T) {
	svc := newTestTriage(nil)
	assert.False(t, svc.StoreEnabled())
	assert.False(t, svc.ModelAvailable())
	assert.Equal(t, "none", svc.Provider())

	resp := svc.Classify(context.Background(), "hello world")
	svc.Wait()
	assert.Equal(t, model.LabelComment, resp.Label)
	assert.True(t, resp.Escalate)
}

func TestTriageService_SaveFailureDoesNotFailCaller(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errBoom
	svc := newTestTriage(store)

	resp := svc.Classify(context.Background(), "hello world")
	svc.Wait()
	assert.Equal(t, model.LabelComment, resp.Label)
}

func TestTriageService_ClassifyBatch(t *testing.T) {
	svc := newTestTriage(nil)

	resp, err := svc.ClassifyBatch(context.Background(), []string{
		"How do I reset my password?",
		"This is terrible and never works properly!",
		"I really love this feature, it's fantastic!",
		"",
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 4)
	assert.Equal(t, 4, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.Escalations)
	assert.Equal(t, map[model.Label]int{
		model.LabelQuestion:  1,
		model.LabelComplaint: 1,
		model.LabelComment:   2,
	}, resp.Summary.ByLabel)
	assert.Equal(t, map[model.Method]int{model.MethodRules: 4}, resp.Summary.ByMethod)

	ids := map[string]bool{}
	for _, r := range resp.Results {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 4)
}

func TestTriageService_StoreDisabled(t *testing.T) {
	svc := newTestTriage(nil)
	ctx := context.Background()

	_, err := svc.ListEscalations(ctx, 10, 0)
	assert.ErrorIs(t, err, ErrStoreDisabled)

	_, err = svc.SimilarEscalations(ctx, "id", 5)
	assert.ErrorIs(t, err, ErrStoreDisabled)

	assert.ErrorIs(t, svc.Review(ctx, "id", "question", ""), ErrStoreDisabled)
}

func TestTriageService_EscalationQueue(t *testing.T) {
	store := newMemoryStore()
	svc := newTestTriage(store)
	ctx := context.Background()

	classify := func(text string) *model.ClassifyResponse {
		resp := svc.Classify(ctx, text)
		svc.Wait()
		return resp
	}

	low1 := classify("hello world")
	classify("How do I reset my password?")
	low2 := classify("I really love this feature, it's fantastic!")
	low3 := classify("ok")

	page, err := svc.ListEscalations(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Results, 2)
	assert.Equal(t, low3.ID, page.Results[0].ID, "newest first")
	assert.Equal(t, low2.ID, page.Results[1].ID)

	similar, err := svc.SimilarEscalations(ctx, low1.ID, 10)
	require.NoError(t, err)
	assert.Len(t, similar, 2)
	for _, rec := range similar {
		assert.NotEqual(t, low1.ID, rec.ID)
	}

	_, err = svc.SimilarEscalations(ctx, "missing", 10)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Review(ctx, low1.ID, " Comment ", "alex"))
	page, err = svc.ListEscalations(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.False(t, page.HasMore)

	rec, err := store.GetClassification(ctx, low1.ID)
	require.NoError(t, err)
	require.NotNil(t, rec.ReviewedLabel)
	assert.Equal(t, model.LabelComment, *rec.ReviewedLabel)
}

func TestTriageService_ReviewValidation(t *testing.T) {
	store := newMemoryStore()
	svc := newTestTriage(store)
	ctx := context.Background()

	resp := svc.Classify(ctx, "hello world")
	svc.Wait()

	assert.ErrorIs(t, svc.Review(ctx, resp.ID, "praise", ""), ErrInvalidLabel)
	assert.ErrorIs(t, svc.Review(ctx, "missing", "question", ""), repository.ErrNotFound)
}

func TestTriageService_ClassifyBatchStream(t *testing.T) {
	svc := newTestTriage(nil)

	var events []string
	resp, err := svc.ClassifyBatchStream(context.Background(), []string{"hello", "Why?"}, func(event string, data any) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"result", "result"}, events)
	assert.Equal(t, 2, resp.Summary.Total)

	_, err = svc.ClassifyBatchStream(context.Background(), []string{"a", "b"}, func(event string, data any) error {
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.ClassifyBatchStream(ctx, []string{"a"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
