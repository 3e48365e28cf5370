package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/garment-backoffice/internal/repository"
)

func newSessions(t *testing.T) (*Sessions, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// nil Redis exercises the database-only degradation path.
	return NewSessions(repository.NewTokenRepo(db), nil), mock
}

func TestLiveHitsLedger(t *testing.T) {
	s, mock := newSessions(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM tokens WHERE token=?")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	ok, err := s.Live(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLiveAbsentToken(t *testing.T) {
	s, mock := newSessions(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM tokens WHERE token=?")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := s.Live(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newCachedSessions(t *testing.T) (*Sessions, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSessions(repository.NewTokenRepo(db), rdb), mock, mr
}

func TestLivePopulatesCache(t *testing.T) {
	s, mock, mr := newCachedSessions(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM tokens WHERE token=?")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	ok, err := s.Live(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("session:tok"))
}

func TestLiveServedFromCache(t *testing.T) {
	s, mock, mr := newCachedSessions(t)
	require.NoError(t, mr.Set("session:tok", "1"))

	// No query expectation: a cache hit must not touch the ledger.
	ok, err := s.Live(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeDropsCacheEntry(t *testing.T) {
	s, mock, mr := newCachedSessions(t)
	require.NoError(t, mr.Set("session:tok", "1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE token=?")).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Revoke(context.Background(), "tok"))
	assert.False(t, mr.Exists("session:tok"))

	// A liveness check after revocation falls through to the ledger and
	// finds nothing; the cached "1" must not outlive the row.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM tokens WHERE token=?")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	ok, err := s.Live(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevokeByID(t *testing.T) {
	s, mock := newSessions(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token, created_at FROM tokens WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at"}).
			AddRow(3, 9, "tok-3", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE token=?")).
		WithArgs("tok-3").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.RevokeByID(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeByIDUnknown(t *testing.T) {
	s, mock := newSessions(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token, created_at FROM tokens WHERE id=?")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at"}))

	err := s.RevokeByID(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
