package repository

import (
	"context"
	"database/sql"
	"time"
)

// FabricType mirrors the 'fabric_types' table. fabric_rolls.type_id points
// at these rows.
type FabricType struct {
	ID        uint64     `json:"type_id"`
	TypeName  string     `json:"type_name"`
	Detail    *string    `json:"detail"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// FabricTypePatch carries optional fields for a partial update.
type FabricTypePatch struct {
	TypeName *string
	Detail   *string
}

type FabricTypeRepo struct{ DB *sql.DB }

func NewFabricTypeRepo(db *sql.DB) *FabricTypeRepo { return &FabricTypeRepo{DB: db} }

func (r *FabricTypeRepo) Insert(ctx context.Context, t *FabricType) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO fabric_types (type_name, detail) VALUES (?,?)",
		t.TypeName, t.Detail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

func (r *FabricTypeRepo) GetByID(ctx context.Context, id uint64) (FabricType, error) {
	var t FabricType
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, type_name, detail, created_at
		 FROM fabric_types WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&t.ID, &t.TypeName, &t.Detail, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return FabricType{}, ErrNotFound
	}
	return t, err
}

func (r *FabricTypeRepo) List(ctx context.Context) ([]FabricType, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, type_name, detail, created_at
		 FROM fabric_types WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]FabricType, 0)
	for rows.Next() {
		var t FabricType
		if err := rows.Scan(&t.ID, &t.TypeName, &t.Detail, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *FabricTypeRepo) Update(ctx context.Context, id uint64, p FabricTypePatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE fabric_types
		 SET type_name = COALESCE(?, type_name),
		     detail = COALESCE(?, detail)
		 WHERE id=? AND deleted_at IS NULL`,
		p.TypeName, p.Detail, id)
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

func (r *FabricTypeRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE fabric_types SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
