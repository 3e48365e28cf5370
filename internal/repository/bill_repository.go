package repository

import (
	"context"
	"database/sql"
	"time"
)

// Bill mirrors the 'bill' table. Line items and promotion composition are
// handled elsewhere; this repo covers the bill head only.
type Bill struct {
	ID         uint64     `json:"id"`
	BillCode   string     `json:"bill_code"`
	EmployeeID uint64     `json:"employee_id"`
	PaymentID  uint64     `json:"payment_id"`
	Total      float64    `json:"total"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"-"`
}

type BillPatch struct {
	BillCode   *string
	EmployeeID *uint64
	PaymentID  *uint64
	Total      *float64
}

type BillRepo struct{ DB *sql.DB }

func NewBillRepo(db *sql.DB) *BillRepo { return &BillRepo{DB: db} }

func (r *BillRepo) Insert(ctx context.Context, b *Bill) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bill (bill_code, employee_id, payment_id, total) VALUES (?,?,?,?)",
		b.BillCode, b.EmployeeID, b.PaymentID, b.Total)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (r *BillRepo) GetByID(ctx context.Context, id uint64) (Bill, error) {
	var b Bill
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, bill_code, employee_id, payment_id, total, created_at
		 FROM bill WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&b.ID, &b.BillCode, &b.EmployeeID, &b.PaymentID, &b.Total, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return Bill{}, ErrNotFound
	}
	return b, err
}

func (r *BillRepo) List(ctx context.Context) ([]Bill, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, bill_code, employee_id, payment_id, total, created_at
		 FROM bill WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Bill, 0)
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.BillCode, &b.EmployeeID, &b.PaymentID, &b.Total, &b.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *BillRepo) Update(ctx context.Context, id uint64, p BillPatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bill
		 SET bill_code = COALESCE(?, bill_code),
		     employee_id = COALESCE(?, employee_id),
		     payment_id = COALESCE(?, payment_id),
		     total = COALESCE(?, total)
		 WHERE id=? AND deleted_at IS NULL`,
		p.BillCode, p.EmployeeID, p.PaymentID, p.Total, id)
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

func (r *BillRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bill SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
