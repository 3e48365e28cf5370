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

func newMockDB(t *testing.T) (*ProductRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProductRepo(db), mock
}

func TestProductInsertSetsID(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products (name, price, image) VALUES (?,?,?)")).
		WithArgs("Linen Shirt", 39.9, nil).
		WillReturnResult(sqlmock.NewResult(3, 1))

	p := Product{Name: "Linen Shirt", Price: 39.9}
	require.NoError(t, repo.Insert(context.Background(), &p))
	assert.Equal(t, uint64(3), p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGetByIDNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price, image, created_at FROM products WHERE id=?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "image", "created_at"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductListSkipsDeleted(t *testing.T) {
	repo, mock := newMockDB(t)

	image := "/uploads/1-x.png"
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE deleted_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "image", "created_at"}).
			AddRow(1, "Shirt", 39.9, image, time.Now()).
			AddRow(2, "Skirt", 24.5, nil, time.Now()))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Shirt", items[0].Name)
	require.NotNil(t, items[0].Image)
	assert.Equal(t, image, *items[0].Image)
	assert.Nil(t, items[1].Image)
}

func TestProductSoftDelete(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSoftDeleteAlreadyDeleted(t *testing.T) {
	repo, mock := newMockDB(t)

	// A second soft delete matches no live row.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET deleted_at=CURRENT_TIMESTAMP")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdateTxCoalesce(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	name := "Renamed"
	n, err := repo.UpdateTx(context.Background(), tx, 4, ProductPatch{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
