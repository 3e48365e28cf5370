package repository

import (
	"context"
	"database/sql"
	"time"
)

// FabricRoll mirrors the 'fabric_rolls' table. Stock is tracked in meters.
type FabricRoll struct {
	ID        uint64     `json:"roll_id"`
	RollCode  string     `json:"roll_code"`
	TypeID    uint64     `json:"type_id"`
	Name      string     `json:"name"`
	PricePerM float64    `json:"price_per_m"`
	StockM    float64    `json:"stock_m"`
	Image     *string    `json:"image"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// FabricRollPatch carries optional fields for a partial update.
type FabricRollPatch struct {
	RollCode  *string
	TypeID    *uint64
	Name      *string
	PricePerM *float64
	StockM    *float64
}

type FabricRollRepo struct{ DB *sql.DB }

func NewFabricRollRepo(db *sql.DB) *FabricRollRepo { return &FabricRollRepo{DB: db} }

func (r *FabricRollRepo) Insert(ctx context.Context, fr *FabricRoll) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO fabric_rolls (roll_code, type_id, name, price_per_m, stock_m, image)
		 VALUES (?,?,?,?,?,?)`,
		fr.RollCode, fr.TypeID, fr.Name, fr.PricePerM, fr.StockM, fr.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fr.ID = uint64(id)
	return nil
}

func (r *FabricRollRepo) GetByID(ctx context.Context, id uint64) (FabricRoll, error) {
	var fr FabricRoll
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, roll_code, type_id, name, price_per_m, stock_m, image, created_at
		 FROM fabric_rolls WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&fr.ID, &fr.RollCode, &fr.TypeID, &fr.Name, &fr.PricePerM, &fr.StockM, &fr.Image, &fr.CreatedAt)
	if err == sql.ErrNoRows {
		return FabricRoll{}, ErrNotFound
	}
	return fr, err
}

func (r *FabricRollRepo) List(ctx context.Context) ([]FabricRoll, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, roll_code, type_id, name, price_per_m, stock_m, image, created_at
		 FROM fabric_rolls WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]FabricRoll, 0)
	for rows.Next() {
		var fr FabricRoll
		if err := rows.Scan(&fr.ID, &fr.RollCode, &fr.TypeID, &fr.Name, &fr.PricePerM, &fr.StockM, &fr.Image, &fr.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, fr)
	}
	return items, rows.Err()
}

func (r *FabricRollRepo) CurrentImageTx(ctx context.Context, tx *sql.Tx, id uint64) (*string, error) {
	var img sql.NullString
	err := tx.QueryRowContext(ctx,
		"SELECT image FROM fabric_rolls WHERE id=? AND deleted_at IS NULL FOR UPDATE", id).Scan(&img)
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

func (r *FabricRollRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p FabricRollPatch, imageURL *string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE fabric_rolls
		 SET roll_code = COALESCE(?, roll_code),
		     type_id = COALESCE(?, type_id),
		     name = COALESCE(?, name),
		     price_per_m = COALESCE(?, price_per_m),
		     stock_m = COALESCE(?, stock_m),
		     image = COALESCE(?, image)
		 WHERE id=? AND deleted_at IS NULL`,
		p.RollCode, p.TypeID, p.Name, p.PricePerM, p.StockM, imageURL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *FabricRollRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE fabric_rolls SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
