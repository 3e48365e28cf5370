package repository

import (
	"context"
	"database/sql"
	"time"
)

// Size mirrors the 'sizes' table. UseM is the fabric consumption in meters
// for one garment of this size.
type Size struct {
	ID        uint64     `json:"size_id"`
	SizeCode  string     `json:"size_code"`
	UseM      float64    `json:"use_m"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

type SizePatch struct {
	SizeCode *string
	UseM     *float64
}

type SizeRepo struct{ DB *sql.DB }

func NewSizeRepo(db *sql.DB) *SizeRepo { return &SizeRepo{DB: db} }

func (r *SizeRepo) Insert(ctx context.Context, s *Size) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sizes (size_code, use_m) VALUES (?,?)", s.SizeCode, s.UseM)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

func (r *SizeRepo) GetByID(ctx context.Context, id uint64) (Size, error) {
	var s Size
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, size_code, use_m, created_at FROM sizes WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&s.ID, &s.SizeCode, &s.UseM, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return Size{}, ErrNotFound
	}
	return s, err
}

func (r *SizeRepo) List(ctx context.Context) ([]Size, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, size_code, use_m, created_at FROM sizes WHERE deleted_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Size, 0)
	for rows.Next() {
		var s Size
		if err := rows.Scan(&s.ID, &s.SizeCode, &s.UseM, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *SizeRepo) Update(ctx context.Context, id uint64, p SizePatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE sizes
		 SET size_code = COALESCE(?, size_code),
		     use_m = COALESCE(?, use_m)
		 WHERE id=? AND deleted_at IS NULL`,
		p.SizeCode, p.UseM, id)
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

func (r *SizeRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sizes SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
