package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplierRepo(t *testing.T) (*SupplierRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSupplierRepo(db), mock
}

func TestSupplierInsertSetsID(t *testing.T) {
	repo, mock := newSupplierRepo(t)

	phone := "02-555-0101"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO suppliers (name, phone, address) VALUES (?,?,?)")).
		WithArgs("Weave & Co", &phone, nil).
		WillReturnResult(sqlmock.NewResult(8, 1))

	s := Supplier{Name: "Weave & Co", Phone: &phone}
	require.NoError(t, repo.Insert(context.Background(), &s))
	assert.Equal(t, uint64(8), s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierListSkipsDeleted(t *testing.T) {
	repo, mock := newSupplierRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM suppliers WHERE deleted_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "address", "created_at"}).
			AddRow(1, "Weave & Co", nil, nil, time.Now()))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Weave & Co", items[0].Name)
}

func TestSupplierUpdateMissingRow(t *testing.T) {
	repo, mock := newSupplierRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE suppliers")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	name := "Renamed"
	err := repo.Update(context.Background(), 404, SupplierPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupplierSoftDelete(t *testing.T) {
	repo, mock := newSupplierRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE suppliers SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
