package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/weftworks/garment-backoffice/internal/utils"
)

// User mirrors the 'users' table. The password hash is never serialized.
type User struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Image        *string    `json:"image"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"-"`
}

// UserPatch carries the optional fields of a partial user update. Nil means
// "keep the stored value".
type UserPatch struct {
	Name  *string
	Email *string
	Role  *string
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns its ID.
// image is the optional avatar URL, nil for none.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, image *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, image) VALUES (?,?,?,?,?)",
		name, email, hash, role, image)
	if err != nil {
		// 1062 = MySQL duplicate entry
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email, including the password hash
// for credential checks. Soft-deleted users cannot log in.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, image, created_at FROM users WHERE email=? AND deleted_at IS NULL LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Image, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a live user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, image, created_at FROM users WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Image, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns all live users.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, password_hash, role, image, created_at FROM users WHERE deleted_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Image, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

// CurrentImageTx reads the live row's image inside the update transaction,
// locking the row so the subsequent UPDATE sees the same state.
func (r *UserRepo) CurrentImageTx(ctx context.Context, tx *sql.Tx, id uint64) (*string, error) {
	var img sql.NullString
	err := tx.QueryRowContext(ctx,
		"SELECT image FROM users WHERE id=? AND deleted_at IS NULL FOR UPDATE", id).Scan(&img)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !img.Valid {
		return nil, nil
	}
	return &img.String, nil
}

// UpdateTx applies a field-level coalesce update inside the transaction.
// Omitted fields keep their stored value; imageURL replaces the attachment
// only when non-nil. Returns the number of affected rows.
func (r *UserRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p UserPatch, imageURL *string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE users
		 SET name = COALESCE(?, name),
		     email = COALESCE(?, email),
		     role = COALESCE(?, role),
		     image = COALESCE(?, image)
		 WHERE id=? AND deleted_at IS NULL`,
		p.Name, p.Email, p.Role, imageURL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete marks a user as logically removed. The row and any attachment
// file are retained.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
