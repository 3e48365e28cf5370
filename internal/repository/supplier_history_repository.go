package repository

import (
	"context"
	"database/sql"
	"time"
)

// SupplierHistory mirrors the 'supplier_fabric_history' table: one row per
// fabric delivery received from a supplier.
type SupplierHistory struct {
	ID         uint64     `json:"id"`
	SupplierID uint64     `json:"supplier_id"`
	RollID     uint64     `json:"roll_id"`
	QtyM       float64    `json:"qty_m"`
	PricePerM  float64    `json:"price_per_m"`
	ReceivedAt *time.Time `json:"received_at"`
	Note       *string    `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"-"`
}

// SupplierHistoryPatch carries optional fields for a partial update.
type SupplierHistoryPatch struct {
	SupplierID *uint64
	RollID     *uint64
	QtyM       *float64
	PricePerM  *float64
	ReceivedAt *time.Time
	Note       *string
}

type SupplierHistoryRepo struct{ DB *sql.DB }

func NewSupplierHistoryRepo(db *sql.DB) *SupplierHistoryRepo {
	return &SupplierHistoryRepo{DB: db}
}

func (r *SupplierHistoryRepo) Insert(ctx context.Context, h *SupplierHistory) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO supplier_fabric_history (supplier_id, roll_id, qty_m, price_per_m, received_at, note)
		 VALUES (?,?,?,?,?,?)`,
		h.SupplierID, h.RollID, h.QtyM, h.PricePerM, h.ReceivedAt, h.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

func (r *SupplierHistoryRepo) GetByID(ctx context.Context, id uint64) (SupplierHistory, error) {
	var h SupplierHistory
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, supplier_id, roll_id, qty_m, price_per_m, received_at, note, created_at
		 FROM supplier_fabric_history WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&h.ID, &h.SupplierID, &h.RollID, &h.QtyM, &h.PricePerM, &h.ReceivedAt, &h.Note, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return SupplierHistory{}, ErrNotFound
	}
	return h, err
}

func (r *SupplierHistoryRepo) List(ctx context.Context) ([]SupplierHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, supplier_id, roll_id, qty_m, price_per_m, received_at, note, created_at
		 FROM supplier_fabric_history WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]SupplierHistory, 0)
	for rows.Next() {
		var h SupplierHistory
		if err := rows.Scan(&h.ID, &h.SupplierID, &h.RollID, &h.QtyM, &h.PricePerM, &h.ReceivedAt, &h.Note, &h.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *SupplierHistoryRepo) Update(ctx context.Context, id uint64, p SupplierHistoryPatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE supplier_fabric_history
		 SET supplier_id = COALESCE(?, supplier_id),
		     roll_id = COALESCE(?, roll_id),
		     qty_m = COALESCE(?, qty_m),
		     price_per_m = COALESCE(?, price_per_m),
		     received_at = COALESCE(?, received_at),
		     note = COALESCE(?, note)
		 WHERE id=? AND deleted_at IS NULL`,
		p.SupplierID, p.RollID, p.QtyM, p.PricePerM, p.ReceivedAt, p.Note, id)
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

func (r *SupplierHistoryRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE supplier_fabric_history SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
