package repository

import (
	"context"
	"database/sql"
	"time"
)

// Token mirrors the 'tokens' table: one row per active session, keyed by the
// raw bearer string. Presence in this table is what makes a token live;
// logout deletes the row and the token is dead regardless of its signature.
type Token struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenRepo is the token ledger. Lookups go through the unique index on the
// token column; the table is never scanned on the request path.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert records a freshly issued token for a user. Each login inserts its
// own row, so two sessions of the same user revoke independently.
func (r *TokenRepo) Insert(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO tokens (user_id, token) VALUES (?,?)",
		userID, token)
	return err
}

// Exists reports whether the raw token string is currently in the ledger.
func (r *TokenRepo) Exists(ctx context.Context, token string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM tokens WHERE token=? LIMIT 1", token).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete revokes a token. Deleting an absent token is not an error, so
// logout is idempotent.
func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tokens WHERE token=?", token)
	return err
}

// GetByID returns a ledger row by id, or ErrNotFound.
func (r *TokenRepo) GetByID(ctx context.Context, id uint64) (Token, error) {
	var t Token
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token, created_at FROM tokens WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return Token{}, ErrNotFound
	}
	return t, err
}

// ListActive returns every live session, newest first.
func (r *TokenRepo) ListActive(ctx context.Context) ([]Token, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, token, created_at FROM tokens ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Token, 0)
	for rows.Next() {
		var t Token
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
