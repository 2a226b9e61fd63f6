package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// ErrRunNotFound is returned when an update targets a run that does not exist
var ErrRunNotFound = errors.New("run not found")

const runColumns = `
	id, word_count, image_count, fallback_count, category_order, category_scores,
	total_seconds, per_image_seconds, caption_count, took_ms, feedback, created_at`

// PostgresRepository stores sequencing run summaries
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

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the run log table when it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS sequencing_runs (
			id                UUID PRIMARY KEY,
			word_count        INT NOT NULL,
			image_count       INT NOT NULL,
			fallback_count    INT NOT NULL,
			category_order    JSONB NOT NULL,
			category_scores   vector(%d) NOT NULL,
			total_seconds     DOUBLE PRECISION NOT NULL,
			per_image_seconds DOUBLE PRECISION NOT NULL,
			caption_count     INT NOT NULL,
			took_ms           BIGINT NOT NULL,
			feedback          TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, len(model.AllCategories)),
		`CREATE INDEX IF NOT EXISTS sequencing_runs_created_at_idx ON sequencing_runs (created_at)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// LogRun stores a run summary
func (r *PostgresRepository) LogRun(ctx context.Context, run *model.Run) error {
	query := `
		INSERT INTO sequencing_runs (
			id, word_count, image_count, fallback_count, category_order, category_scores,
			total_seconds, per_image_seconds, caption_count, took_ms
		) VALUES (
			:id, :word_count, :image_count, :fallback_count, :category_order, :category_scores,
			:total_seconds, :per_image_seconds, :caption_count, :took_ms
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to log run: %w", err)
	}
	return nil
}

// GetRun retrieves a run summary by ID; a missing run yields nil, nil
func (r *PostgresRepository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run
	query := `SELECT ` + runColumns + ` FROM sequencing_runs WHERE id = $1`
	err := r.db.GetContext(ctx, &run, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// SimilarRuns returns the runs whose narration covered the most similar
// rooms, by L2 distance between category score vectors
func (r *PostgresRepository) SimilarRuns(ctx context.Context, id string, limit int) ([]model.Run, error) {
	query := `
		SELECT ` + runColumns + `,
			category_scores <-> (SELECT category_scores FROM sequencing_runs WHERE id = $1) AS distance
		FROM sequencing_runs
		WHERE id <> $1
		ORDER BY distance
		LIMIT $2
	`
	runs := []model.Run{}
	if err := r.db.SelectContext(ctx, &runs, query, id, limit); err != nil {
		return nil, fmt.Errorf("failed to find similar runs: %w", err)
	}
	return runs, nil
}

// LogFeedback records the user's verdict on a run
func (r *PostgresRepository) LogFeedback(ctx context.Context, id string, action string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sequencing_runs SET feedback = $2 WHERE id = $1`, id, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// PruneRuns deletes runs created before cutoff and reports how many were removed
func (r *PostgresRepository) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM sequencing_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	n, _ := result.RowsAffected()
	return n, nil
}
