package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/fieldcrypt/internal/database"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLRecordRepository implements record persistence for MySQL databases.
type MySQLRecordRepository struct {
	db *sql.DB
}

// Create inserts a new record.
func (m *MySQLRecordRepository) Create(ctx context.Context, record *recordDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO encrypted_records (identity, envelope, created_at, updated_at)
			  VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.Identity,
		record.Envelope,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return recordDomain.ErrRecordAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// Get retrieves the record for identity.
func (m *MySQLRecordRepository) Get(ctx context.Context, identity string) (*recordDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT identity, envelope, created_at, updated_at
			  FROM encrypted_records
			  WHERE identity = ?`

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
func (m *MySQLRecordRepository) Put(ctx context.Context, identity, envelope string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE encrypted_records
			  SET envelope = ?, updated_at = ?
			  WHERE identity = ?`

	result, err := querier.ExecContext(ctx, query, envelope, time.Now().UTC(), identity)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record envelope")
	}

	return checkAffected(result)
}

// ListAfter returns up to limit records with identity greater than afterIdentity,
// ordered by identity.
func (m *MySQLRecordRepository) ListAfter(
	ctx context.Context,
	afterIdentity string,
	limit int,
) ([]*recordDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT identity, envelope, created_at, updated_at
			  FROM encrypted_records
			  WHERE identity > ?
			  ORDER BY identity ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, afterIdentity, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRecords(rows)
}

// NewMySQLRecordRepository creates a new MySQL record repository instance.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}
