// Package service coordinates request-scoped work that spans more than one
// resource: the database and the attachment store are not transactional with
// each other, so mutations that touch both follow a strict ordering that
// bounds the failure mode to an orphaned file, never a dangling reference.
package service

import (
	"context"
	"database/sql"
	"mime/multipart"

	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/storage"
)

// AttachmentUpdate describes one update-with-optional-replacement-attachment
// request in terms of two statements run inside the coordinator's transaction.
type AttachmentUpdate struct {
	// ReadCurrent loads and locks the row's current attachment URL.
	// It must return repository.ErrNotFound for absent or soft-deleted rows.
	ReadCurrent func(ctx context.Context, tx *sql.Tx) (*string, error)
	// Apply executes the partial update. imageURL is nil when no new file was
	// staged, meaning the attachment column keeps its value. It returns the
	// number of affected rows.
	Apply func(ctx context.Context, tx *sql.Tx, imageURL *string) (int64, error)
}

// Coordinator ties an optional file write, a database transaction and the
// cleanup of superseded files together. One instance serves every resource;
// per-request state lives on the stack.
type Coordinator struct {
	DB    *sql.DB
	Files *storage.Store
}

func NewCoordinator(db *sql.DB, files *storage.Store) *Coordinator {
	return &Coordinator{DB: db, Files: files}
}

// Create stages the optional upload and runs insert with its public URL.
// The handler validates required fields before calling, so a rejected request
// never writes a file; when insert fails, the staged file is discarded so no
// unreferenced file is left behind.
func (co *Coordinator) Create(ctx context.Context, upload *multipart.FileHeader, insert func(ctx context.Context, imageURL *string) error) error {
	var imageURL *string
	var staged storage.StoredFile
	if upload != nil {
		f, err := co.Files.Accept(upload)
		if err != nil {
			return err
		}
		staged = f
		u := co.Files.PublicURL(f.Name)
		imageURL = &u
	}
	if err := insert(ctx, imageURL); err != nil {
		co.Files.Remove(staged.Name)
		return err
	}
	return nil
}

// Update runs the update-with-replacement choreography:
//
//  1. stage the new file, if any; a rejected upload aborts before anything
//     else happens
//  2. begin a transaction
//  3. read the current row; absent row discards the staged file
//  4. apply the partial update, pointing the attachment at the staged file
//     when one exists
//  5. zero affected rows means a concurrent soft delete won; roll back and
//     discard the staged file
//  6. commit
//  7. only after the commit is durable, delete the superseded old file
//
// The old file is removed last so that no committed row ever references a
// deleted file; a crash between commit and cleanup leaves at worst one
// orphaned file.
func (co *Coordinator) Update(ctx context.Context, upload *multipart.FileHeader, u AttachmentUpdate) error {
	var staged storage.StoredFile
	var imageURL *string
	if upload != nil {
		f, err := co.Files.Accept(upload)
		if err != nil {
			return err
		}
		staged = f
		url := co.Files.PublicURL(f.Name)
		imageURL = &url
	}

	tx, err := co.DB.BeginTx(ctx, nil)
	if err != nil {
		co.Files.Remove(staged.Name)
		return err
	}
	// Released on every exit path; a no-op once Commit succeeds.
	defer func() { _ = tx.Rollback() }()

	oldURL, err := u.ReadCurrent(ctx, tx)
	if err != nil {
		co.Files.Remove(staged.Name)
		return err
	}

	n, err := u.Apply(ctx, tx, imageURL)
	if err != nil {
		co.Files.Remove(staged.Name)
		return err
	}
	if n == 0 {
		co.Files.Remove(staged.Name)
		return repository.ErrNoChange
	}

	if err := tx.Commit(); err != nil {
		co.Files.Remove(staged.Name)
		return err
	}

	if imageURL != nil && oldURL != nil && *oldURL != *imageURL {
		co.Files.RemoveURL(*oldURL)
	}
	return nil
}
