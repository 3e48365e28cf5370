// Package storage implements the attachment content directory. Files are
// written under generated names and served read-only beneath a public URL
// prefix; rows in the database reference them by that public URL.
package storage

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weftworks/garment-backoffice/internal/config"
)

// ErrUploadType is returned when the declared media type is not an
// accepted image type.
var ErrUploadType = errors.New("only image files are allowed")

// ErrUploadTooLarge is returned when the payload exceeds the size ceiling.
var ErrUploadTooLarge = errors.New("file too large")

// imageTypes is the accepted media-type whitelist. Checked before any byte
// is persisted.
var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
	"image/gif":  true,
}

// StoredFile is the handle returned for an accepted upload.
type StoredFile struct {
	Name string // generated filename inside the content directory
	Path string // full on-disk path
}

// Store writes and removes attachment files. Filenames are generated to be
// unique, so concurrent writes never collide and no locking is needed for
// distinct files.
type Store struct {
	policy config.UploadPolicy
	mkdir  sync.Once
}

func New(policy config.UploadPolicy) *Store { return &Store{policy: policy} }

// Accept validates the declared media type and size, then writes the payload
// under a freshly generated name. Rejections happen before anything touches
// disk. The returned handle is the caller's to attach or to discard.
func (s *Store) Accept(fh *multipart.FileHeader) (StoredFile, error) {
	if !imageTypes[strings.ToLower(fh.Header.Get("Content-Type"))] {
		return StoredFile{}, ErrUploadType
	}
	if fh.Size > s.policy.MaxBytes {
		return StoredFile{}, ErrUploadTooLarge
	}

	var dirErr error
	s.mkdir.Do(func() { dirErr = os.MkdirAll(s.policy.Dir, 0o755) })
	if dirErr != nil {
		return StoredFile{}, dirErr
	}

	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, err
	}
	defer src.Close()

	name := generateName(fh.Filename)
	dstPath := filepath.Join(s.policy.Dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return StoredFile{}, err
	}
	defer dst.Close()

	// The header size is the client's claim; enforce the ceiling on the
	// actual byte stream as well.
	n, err := io.Copy(dst, io.LimitReader(src, s.policy.MaxBytes+1))
	if err != nil {
		s.Remove(name)
		return StoredFile{}, err
	}
	if n > s.policy.MaxBytes {
		s.Remove(name)
		return StoredFile{}, ErrUploadTooLarge
	}
	return StoredFile{Name: name, Path: dstPath}, nil
}

// PublicURL maps a stored filename to its externally resolvable path.
// Empty in, empty out.
func (s *Store) PublicURL(name string) string {
	if name == "" {
		return ""
	}
	return s.policy.URLPrefix + "/" + name
}

// Dir returns the content directory so the router can serve it statically.
func (s *Store) Dir() string { return s.policy.Dir }

// Remove deletes a stored file by name, best effort. A missing file is not
// an error: removal is used both to roll back staged uploads and to clean up
// superseded attachments, and either may race with an earlier cleanup.
func (s *Store) Remove(name string) {
	if name == "" {
		return
	}
	err := os.Remove(filepath.Join(s.policy.Dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		log.Printf("storage: remove %s: %v", name, err)
	}
}

// RemoveURL deletes the file a public URL points at, best effort.
func (s *Store) RemoveURL(url string) {
	if url == "" {
		return
	}
	s.Remove(path.Base(url))
}

// generateName builds a unique filename: millisecond timestamp, a random
// suffix, and the original extension lowercased.
func generateName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString() + ext
}
