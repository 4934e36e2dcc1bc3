package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"triage/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// ErrNotFound is returned when a classification does not exist
var ErrNotFound = errors.New("classification not found")

//go:embed schema.sql
var schema string

const selectColumns = `
	id, text, label, confidence, reason, escalate, method, scores,
	reviewed_label, reviewer, reviewed_at, created_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tables used by the service if they do not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SaveClassification stores a classification in the audit log
func (r *PostgresRepository) SaveClassification(ctx context.Context, rec *model.ClassificationRecord) error {
	query := `
		INSERT INTO classifications (id, text, label, confidence, reason, escalate, method, scores, created_at)
		VALUES (:id, :text, :label, :confidence, :reason, :escalate, :method, :scores, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}
	return nil
}

// GetClassification retrieves a single classification by ID
func (r *PostgresRepository) GetClassification(ctx context.Context, id string) (*model.ClassificationRecord, error) {
	var rec model.ClassificationRecord
	query := fmt.Sprintf(`SELECT %s FROM classifications WHERE id = $1`, selectColumns)
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}
	return &rec, nil
}

// ListEscalations returns escalated classifications awaiting review, newest first
func (r *PostgresRepository) ListEscalations(ctx context.Context, limit, offset int) ([]model.ClassificationRecord, int, error) {
	where := `escalate AND reviewed_label IS NULL`

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf(`SELECT COUNT(*) FROM classifications WHERE %s`, where)); err != nil {
		return nil, 0, fmt.Errorf("failed to count escalations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM classifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, selectColumns, where)

	records := []model.ClassificationRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch escalations: %w", err)
	}

	return records, total, nil
}

// SimilarEscalations finds pending escalations whose score vectors are closest to scores
func (r *PostgresRepository) SimilarEscalations(ctx context.Context, scores []float32, excludeID string, limit int) ([]model.ClassificationRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s, scores <-> $1 AS distance
		FROM classifications
		WHERE escalate AND reviewed_label IS NULL AND id <> $2
		ORDER BY scores <-> $1, created_at DESC
		LIMIT $3
	`, selectColumns)

	records := []model.ClassificationRecord{}
	if err := r.db.SelectContext(ctx, &records, query, pgvector.NewVector(scores), excludeID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch similar escalations: %w", err)
	}
	return records, nil
}

// RecordReview stores a reviewer's final label for a classification
func (r *PostgresRepository) RecordReview(ctx context.Context, id string, label model.Label, reviewer string) error {
	query := `
		UPDATE classifications
		SET reviewed_label = $2, reviewer = NULLIF($3, ''), reviewed_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, string(label), reviewer)
	if err != nil {
		return fmt.Errorf("failed to record review: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record review: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
