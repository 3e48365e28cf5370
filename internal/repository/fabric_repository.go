package repository

import (
	"context"
	"database/sql"
	"time"
)

// Fabric mirrors the 'fabric' table. Dimensions are stored per the supplier
// datasheet: width in cm, weight in g/m, thickness in mm.
type Fabric struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name_f"`
	WidthCm     float64    `json:"width_cm"`
	WeightGm    float64    `json:"weight_gm"`
	ThicknessMm *float64   `json:"thickness_mm"`
	Status      string     `json:"status_f"`
	Image       *string    `json:"image_f"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"-"`
}

// FabricPatch carries optional fields for a partial update.
type FabricPatch struct {
	Name        *string
	WidthCm     *float64
	WeightGm    *float64
	ThicknessMm *float64
	Status      *string
}

type FabricRepo struct{ DB *sql.DB }

func NewFabricRepo(db *sql.DB) *FabricRepo { return &FabricRepo{DB: db} }

func (r *FabricRepo) Insert(ctx context.Context, f *Fabric) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO fabric (name_f, width_cm, weight_gm, thickness_mm, status_f, image_f)
		 VALUES (?,?,?,?,?,?)`,
		f.Name, f.WidthCm, f.WeightGm, f.ThicknessMm, f.Status, f.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

func (r *FabricRepo) GetByID(ctx context.Context, id uint64) (Fabric, error) {
	var f Fabric
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name_f, width_cm, weight_gm, thickness_mm, status_f, image_f, created_at
		 FROM fabric WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&f.ID, &f.Name, &f.WidthCm, &f.WeightGm, &f.ThicknessMm, &f.Status, &f.Image, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return Fabric{}, ErrNotFound
	}
	return f, err
}

func (r *FabricRepo) List(ctx context.Context) ([]Fabric, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name_f, width_cm, weight_gm, thickness_mm, status_f, image_f, created_at
		 FROM fabric WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Fabric, 0)
	for rows.Next() {
		var f Fabric
		if err := rows.Scan(&f.ID, &f.Name, &f.WidthCm, &f.WeightGm, &f.ThicknessMm, &f.Status, &f.Image, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *FabricRepo) CurrentImageTx(ctx context.Context, tx *sql.Tx, id uint64) (*string, error) {
	var img sql.NullString
	err := tx.QueryRowContext(ctx,
		"SELECT image_f FROM fabric WHERE id=? AND deleted_at IS NULL FOR UPDATE", id).Scan(&img)
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

func (r *FabricRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p FabricPatch, imageURL *string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE fabric
		 SET name_f = COALESCE(?, name_f),
		     width_cm = COALESCE(?, width_cm),
		     weight_gm = COALESCE(?, weight_gm),
		     thickness_mm = COALESCE(?, thickness_mm),
		     status_f = COALESCE(?, status_f),
		     image_f = COALESCE(?, image_f)
		 WHERE id=? AND deleted_at IS NULL`,
		p.Name, p.WidthCm, p.WeightGm, p.ThicknessMm, p.Status, imageURL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *FabricRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE fabric SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
