package repository

import (
	"context"
	"database/sql"
	"time"
)

// Color mirrors the 'colors' table.
type Color struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"colors_name"`
	Detail    *string    `json:"colors_detail"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

type ColorPatch struct {
	Name   *string
	Detail *string
}

type ColorRepo struct{ DB *sql.DB }

func NewColorRepo(db *sql.DB) *ColorRepo { return &ColorRepo{DB: db} }

func (r *ColorRepo) Insert(ctx context.Context, c *Color) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO colors (colors_name, colors_detail) VALUES (?,?)", c.Name, c.Detail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

func (r *ColorRepo) GetByID(ctx context.Context, id uint64) (Color, error) {
	var c Color
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, colors_name, colors_detail, created_at FROM colors WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&c.ID, &c.Name, &c.Detail, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Color{}, ErrNotFound
	}
	return c, err
}

func (r *ColorRepo) List(ctx context.Context) ([]Color, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, colors_name, colors_detail, created_at FROM colors WHERE deleted_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Color, 0)
	for rows.Next() {
		var c Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Detail, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *ColorRepo) Update(ctx context.Context, id uint64, p ColorPatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE colors
		 SET colors_name = COALESCE(?, colors_name),
		     colors_detail = COALESCE(?, colors_detail)
		 WHERE id=? AND deleted_at IS NULL`,
		p.Name, p.Detail, id)
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

func (r *ColorRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE colors SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
