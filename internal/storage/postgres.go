package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"leadscrape/internal/leads"
)

// PostgresStore persists collected leads, one row per business and search
// term.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveLeads upserts records under runID. A business already stored for the
// same search term is refreshed rather than duplicated.
func (s *PostgresStore) SaveLeads(ctx context.Context, runID uuid.UUID, searchTerm string, records []leads.LeadRecord) (n int, err error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertLead)
	if err != nil {
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err = stmt.ExecContext(ctx, leadArgs(runID, searchTerm, r)...); err != nil {
			return 0, fmt.Errorf("insert lead %q: %w", r.Name, err)
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return n, nil
}

const upsertLead = `
	INSERT INTO leads (run_id, search_term, name, name_key, phone, website, rating, review_count)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (search_term, name_key) DO UPDATE
	SET
		run_id = EXCLUDED.run_id,
		name = EXCLUDED.name,
		phone = EXCLUDED.phone,
		website = EXCLUDED.website,
		rating = EXCLUDED.rating,
		review_count = EXCLUDED.review_count,
		updated_at = NOW()`

// leadArgs maps the unknown sentinel to NULL so the columns stay typed.
func leadArgs(runID uuid.UUID, searchTerm string, r leads.LeadRecord) []any {
	return []any{
		runID,
		searchTerm,
		r.Name,
		leads.NameKey(r.Name),
		nullable(r.Phone),
		nullable(r.Website),
		nullableFloat(r.Rating),
		nullableInt(r.Reviews),
	}
}

func nullable(v string) sql.NullString {
	if v == "" || v == leads.Unknown {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullableFloat(v string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullableInt(v string) sql.NullInt64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id BIGSERIAL PRIMARY KEY,
			run_id UUID NOT NULL,
			search_term TEXT NOT NULL,
			name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			phone TEXT,
			website TEXT,
			rating NUMERIC(2,1),
			review_count INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (search_term, name_key)
		);
		CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
