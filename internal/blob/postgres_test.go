package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_blobs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewPostgresStore(sqlx.NewDb(db, "sqlmock"), "tracker")
	require.NoError(t, err)
	return store, mock
}

func TestPostgresStoreGet(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery("SELECT data FROM app_blobs WHERE key = \\$1").
		WithArgs("tracker").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"students":[]}`)))

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"students":[]}`), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissingRow(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery("SELECT data FROM app_blobs WHERE key = \\$1").
		WithArgs("tracker").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSetUpserts(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec("INSERT INTO app_blobs").
		WithArgs("tracker", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSetError(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec("INSERT INTO app_blobs").
		WithArgs("tracker", []byte(`{}`)).
		WillReturnError(errors.New("connection reset"))

	err := store.Set(context.Background(), []byte(`{}`))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
