package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/garment-backoffice/internal/config"
	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/storage"
)

func pngUpload(t *testing.T) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="p.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func newTestCoordinator(t *testing.T) (*Coordinator, sqlmock.Sqlmock, *storage.Store) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	files := storage.New(config.UploadPolicy{
		Dir:       t.TempDir(),
		URLPrefix: "/uploads",
		MaxBytes:  1 << 20,
	})
	return NewCoordinator(db, files), mock, files
}

// dirNames lists filenames currently in the content directory.
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readCurrent(id uint64) func(ctx context.Context, tx *sql.Tx) (*string, error) {
	return func(ctx context.Context, tx *sql.Tx) (*string, error) {
		var img sql.NullString
		err := tx.QueryRowContext(ctx, "SELECT image FROM products WHERE id=? AND deleted_at IS NULL FOR UPDATE", id).Scan(&img)
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if !img.Valid {
			return nil, nil
		}
		return &img.String, nil
	}
}

func applyUpdate(id uint64) func(ctx context.Context, tx *sql.Tx, imageURL *string) (int64, error) {
	return func(ctx context.Context, tx *sql.Tx, imageURL *string) (int64, error) {
		res, err := tx.ExecContext(ctx, "UPDATE products SET image = COALESCE(?, image) WHERE id=? AND deleted_at IS NULL", imageURL, id)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
}

func TestUpdateReplacesAttachmentAfterCommit(t *testing.T) {
	co, mock, files := newTestCoordinator(t)

	// An old attachment already on disk and referenced by the row.
	oldPath := filepath.Join(files.Dir(), "old.png")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))
	oldURL := "/uploads/old.png"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT image FROM products")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow(oldURL))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := co.Update(context.Background(), pngUpload(t), AttachmentUpdate{
		ReadCurrent: readCurrent(7),
		Apply:       applyUpdate(7),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	// Only the staged replacement survives; the superseded file is gone.
	names := dirNames(t, files.Dir())
	require.Len(t, names, 1)
	assert.NotEqual(t, "old.png", names[0])
}

func TestUpdateKeepsAttachmentWhenNoUpload(t *testing.T) {
	co, mock, files := newTestCoordinator(t)

	oldPath := filepath.Join(files.Dir(), "old.png")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT image FROM products")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("/uploads/old.png"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := co.Update(context.Background(), nil, AttachmentUpdate{
		ReadCurrent: readCurrent(7),
		Apply:       applyUpdate(7),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	_, statErr := os.Stat(oldPath)
	assert.NoError(t, statErr, "attachment must survive an update without a replacement")
}

func TestUpdateZeroRowsDiscardsStagedFile(t *testing.T) {
	co, mock, files := newTestCoordinator(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT image FROM products")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := co.Update(context.Background(), pngUpload(t), AttachmentUpdate{
		ReadCurrent: readCurrent(7),
		Apply:       applyUpdate(7),
	})
	assert.ErrorIs(t, err, repository.ErrNoChange)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, dirNames(t, files.Dir()))
}

func TestUpdateMissingRowDiscardsStagedFile(t *testing.T) {
	co, mock, files := newTestCoordinator(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT image FROM products")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := co.Update(context.Background(), pngUpload(t), AttachmentUpdate{
		ReadCurrent: readCurrent(404),
		Apply:       applyUpdate(404),
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, dirNames(t, files.Dir()))
}

func TestUpdateRejectedUploadTouchesNothing(t *testing.T) {
	co, mock, files := newTestCoordinator(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, "x.exe"))
	h.Set("Content-Type", "application/octet-stream")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("image")
	require.NoError(t, err)

	err = co.Update(context.Background(), fh, AttachmentUpdate{
		ReadCurrent: readCurrent(7),
		Apply:       applyUpdate(7),
	})
	assert.ErrorIs(t, err, storage.ErrUploadType)
	// No transaction was ever opened.
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, dirNames(t, files.Dir()))
}

func TestCreateDiscardsStagedFileOnInsertFailure(t *testing.T) {
	co, _, files := newTestCoordinator(t)

	boom := errors.New("insert failed")
	err := co.Create(context.Background(), pngUpload(t), func(ctx context.Context, imageURL *string) error {
		require.NotNil(t, imageURL)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, dirNames(t, files.Dir()))
}

func TestCreatePassesNilURLWithoutUpload(t *testing.T) {
	co, _, _ := newTestCoordinator(t)

	var got *string = new(string)
	err := co.Create(context.Background(), nil, func(ctx context.Context, imageURL *string) error {
		got = imageURL
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}
