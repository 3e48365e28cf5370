package repository

import (
	"context"
	"database/sql"
	"time"
)

// FabricUsage mirrors the 'fabric_usage' table: consumption of roll stock by
// size and quantity. Unlike the other tables this one is hard-deleted.
type FabricUsage struct {
	ID        uint64    `json:"usage_id"`
	RollID    uint64    `json:"roll_id"`
	SizeID    uint64    `json:"size_id"`
	Qty       uint32    `json:"qty"`
	TotalUseM float64   `json:"total_use_m"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type FabricUsagePatch struct {
	RollID    *uint64
	SizeID    *uint64
	Qty       *uint32
	TotalUseM *float64
	Note      *string
}

type FabricUsageRepo struct{ DB *sql.DB }

func NewFabricUsageRepo(db *sql.DB) *FabricUsageRepo { return &FabricUsageRepo{DB: db} }

func (r *FabricUsageRepo) Insert(ctx context.Context, u *FabricUsage) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO fabric_usage (roll_id, size_id, qty, total_use_m, note) VALUES (?,?,?,?,?)",
		u.RollID, u.SizeID, u.Qty, u.TotalUseM, u.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

func (r *FabricUsageRepo) GetByID(ctx context.Context, id uint64) (FabricUsage, error) {
	var u FabricUsage
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, roll_id, size_id, qty, total_use_m, note, created_at FROM fabric_usage WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.RollID, &u.SizeID, &u.Qty, &u.TotalUseM, &u.Note, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return FabricUsage{}, ErrNotFound
	}
	return u, err
}

func (r *FabricUsageRepo) List(ctx context.Context) ([]FabricUsage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, roll_id, size_id, qty, total_use_m, note, created_at FROM fabric_usage")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]FabricUsage, 0)
	for rows.Next() {
		var u FabricUsage
		if err := rows.Scan(&u.ID, &u.RollID, &u.SizeID, &u.Qty, &u.TotalUseM, &u.Note, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *FabricUsageRepo) Update(ctx context.Context, id uint64, p FabricUsagePatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE fabric_usage
		 SET roll_id = COALESCE(?, roll_id),
		     size_id = COALESCE(?, size_id),
		     qty = COALESCE(?, qty),
		     total_use_m = COALESCE(?, total_use_m),
		     note = COALESCE(?, note)
		 WHERE id=?`,
		p.RollID, p.SizeID, p.Qty, p.TotalUseM, p.Note, id)
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

// Delete removes a usage row permanently.
func (r *FabricUsageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM fabric_usage WHERE id=?", id)
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
