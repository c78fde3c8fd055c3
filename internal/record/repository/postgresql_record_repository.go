// Package repository implements encrypted record persistence for PostgreSQL and MySQL.
//
// The envelope column is opaque text; repositories never parse or decrypt it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/allisson/fieldcrypt/internal/database"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = pq.ErrorCode("23505")

// PostgreSQLRecordRepository implements record persistence for PostgreSQL databases.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// Create inserts a new record.
func (p *PostgreSQLRecordRepository) Create(ctx context.Context, record *recordDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encrypted_records (identity, envelope, created_at, updated_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.Identity,
		record.Envelope,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return recordDomain.ErrRecordAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// Get retrieves the record for identity.
func (p *PostgreSQLRecordRepository) Get(ctx context.Context, identity string) (*recordDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT identity, envelope, created_at, updated_at
			  FROM encrypted_records
			  WHERE identity = $1`

	var record recordDomain.Record
	err := querier.QueryRowContext(ctx, query, identity).Scan(
		&record.Identity,
		&record.Envelope,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recordDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}

	return &record, nil
}

// Put replaces the envelope of an existing record.
func (p *PostgreSQLRecordRepository) Put(ctx context.Context, identity, envelope string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE encrypted_records
			  SET envelope = $1, updated_at = $2
			  WHERE identity = $3`

	result, err := querier.ExecContext(ctx, query, envelope, time.Now().UTC(), identity)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record envelope")
	}

	return checkAffected(result)
}

// ListAfter returns up to limit records with identity greater than afterIdentity,
// ordered by identity.
func (p *PostgreSQLRecordRepository) ListAfter(
	ctx context.Context,
	afterIdentity string,
	limit int,
) ([]*recordDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT identity, envelope, created_at, updated_at
			  FROM encrypted_records
			  WHERE identity > $1
			  ORDER BY identity ASC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, afterIdentity, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRecords(rows)
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL record repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}
