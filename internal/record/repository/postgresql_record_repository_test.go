package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/fieldcrypt/internal/database"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

var recordColumns = []string{"identity", "envelope", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func TestNewPostgreSQLRecordRepository(t *testing.T) {
	db, _ := newMockDB(t)

	repo := NewPostgreSQLRecordRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLRecordRepository{}, repo)
}

func TestPostgreSQLRecordRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	record := &recordDomain.Record{Identity: "alice", Envelope: "1:v1:a:b:c", CreatedAt: now, UpdatedAt: now}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO encrypted_records")).
			WithArgs("alice", "1:v1:a:b:c", now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgreSQLRecordRepository(db).Create(ctx, record)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO encrypted_records")).
			WillReturnError(errors.New("duplicate key"))

		err := NewPostgreSQLRecordRepository(db).Create(ctx, record)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create record")
		assert.NotErrorIs(t, err, recordDomain.ErrRecordAlreadyExists)
	})

	t.Run("Error_DuplicateIdentity", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO encrypted_records")).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := NewPostgreSQLRecordRepository(db).Create(ctx, record)
		assert.ErrorIs(t, err, recordDomain.ErrRecordAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_InsideTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO encrypted_records")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewPostgreSQLRecordRepository(db)
		err := database.NewTxManager(db).WithTx(ctx, func(txCtx context.Context) error {
			return repo.Create(txCtx, record)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLRecordRepository_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_records")).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow("alice", "1:v1:a:b:c", now, now))

		record, err := NewPostgreSQLRecordRepository(db).Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", record.Identity)
		assert.Equal(t, "1:v1:a:b:c", record.Envelope)
		assert.Equal(t, now, record.CreatedAt)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_records")).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		record, err := NewPostgreSQLRecordRepository(db).Get(ctx, "nobody")
		assert.ErrorIs(t, err, recordDomain.ErrRecordNotFound)
		assert.Nil(t, record)
	})

	t.Run("Error_Query", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_records")).
			WillReturnError(errors.New("connection reset"))

		_, err := NewPostgreSQLRecordRepository(db).Get(ctx, "alice")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, recordDomain.ErrRecordNotFound)
	})
}

func TestPostgreSQLRecordRepository_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE encrypted_records")).
			WithArgs("1:v2:a:b:c", sqlmock.AnyArg(), "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgreSQLRecordRepository(db).Put(ctx, "alice", "1:v2:a:b:c")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE encrypted_records")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgreSQLRecordRepository(db).Put(ctx, "ghost", "1:v2:a:b:c")
		assert.ErrorIs(t, err, recordDomain.ErrRecordNotFound)
	})

	t.Run("Error_Exec", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE encrypted_records")).
			WillReturnError(errors.New("deadlock"))

		err := NewPostgreSQLRecordRepository(db).Put(ctx, "alice", "1:v2:a:b:c")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update record envelope")
	})
}

func TestPostgreSQLRecordRepository_ListAfter(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE identity > $1")).
			WithArgs("alice", 2).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("bob", "1:v1:a:b:c", now, now).
				AddRow("carol", "1:v2:a:b:c", now, now))

		records, err := NewPostgreSQLRecordRepository(db).ListAfter(ctx, "alice", 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "bob", records[0].Identity)
		assert.Equal(t, "carol", records[1].Identity)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE identity > $1")).
			WithArgs("zed", 100).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		records, err := NewPostgreSQLRecordRepository(db).ListAfter(ctx, "zed", 100)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Error_RowError", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE identity > $1")).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("bob", "1:v1:a:b:c", now, now).
				RowError(0, errors.New("network")))

		_, err := NewPostgreSQLRecordRepository(db).ListAfter(ctx, "", 10)
		assert.Error(t, err)
	})
}
