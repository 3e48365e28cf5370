package storage

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/garment-backoffice/internal/config"
)

// fileHeader builds a real multipart.FileHeader the way a handler would
// receive one from a form post.
func fileHeader(t *testing.T, filename, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func testStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	return New(config.UploadPolicy{
		Dir:       t.TempDir(),
		URLPrefix: "/uploads",
		MaxBytes:  maxBytes,
	})
}

func TestAcceptWritesFile(t *testing.T) {
	s := testStore(t, 1<<20)
	fh := fileHeader(t, "photo.PNG", "image/png", []byte("png-bytes"))

	f, err := s.Accept(fh)
	require.NoError(t, err)

	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// Extension is kept but lowercased.
	assert.Equal(t, ".png", filepath.Ext(f.Name))
	assert.Equal(t, "/uploads/"+f.Name, s.PublicURL(f.Name))
}

func TestAcceptRejectsNonImage(t *testing.T) {
	s := testStore(t, 1<<20)
	fh := fileHeader(t, "notes.pdf", "application/pdf", []byte("%PDF"))

	_, err := s.Accept(fh)
	assert.ErrorIs(t, err, ErrUploadType)

	// Rejection happens before anything is written.
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAcceptRejectsOversize(t *testing.T) {
	s := testStore(t, 8)
	fh := fileHeader(t, "big.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 9))

	_, err := s.Accept(fh)
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestGeneratedNamesAreUnique(t *testing.T) {
	s := testStore(t, 1<<20)
	a, err := s.Accept(fileHeader(t, "a.png", "image/png", []byte("a")))
	require.NoError(t, err)
	b, err := s.Accept(fileHeader(t, "a.png", "image/png", []byte("b")))
	require.NoError(t, err)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := testStore(t, 1<<20)
	f, err := s.Accept(fileHeader(t, "a.png", "image/png", []byte("a")))
	require.NoError(t, err)

	s.Remove(f.Name)
	_, statErr := os.Stat(f.Path)
	assert.True(t, os.IsNotExist(statErr))

	// A second removal of the same name is silent.
	s.Remove(f.Name)
	s.Remove("")
}

func TestRemoveURLStripsPrefix(t *testing.T) {
	s := testStore(t, 1<<20)
	f, err := s.Accept(fileHeader(t, "a.webp", "image/webp", []byte("w")))
	require.NoError(t, err)

	s.RemoveURL(s.PublicURL(f.Name))
	_, statErr := os.Stat(f.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveIgnoresPathTraversal(t *testing.T) {
	s := testStore(t, 1<<20)
	outside := filepath.Join(filepath.Dir(s.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	s.Remove("../keep.txt")
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
