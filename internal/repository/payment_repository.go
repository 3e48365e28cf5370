package repository

import (
	"context"
	"database/sql"
	"time"
)

// Payment mirrors the 'payment' table: the catalogue of accepted payment
// methods, not individual transactions.
type Payment struct {
	ID          uint64     `json:"id"`
	PaymentType string     `json:"payment_type"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"-"`
}

type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

func (r *PaymentRepo) Insert(ctx context.Context, p *Payment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payment (payment_type) VALUES (?)", p.PaymentType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (Payment, error) {
	var p Payment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, payment_type, created_at FROM payment WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&p.ID, &p.PaymentType, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PaymentRepo) List(ctx context.Context) ([]Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, payment_type, created_at FROM payment WHERE deleted_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Payment, 0)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.PaymentType, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PaymentRepo) Update(ctx context.Context, id uint64, paymentType *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE payment SET payment_type = COALESCE(?, payment_type) WHERE id=? AND deleted_at IS NULL",
		paymentType, id)
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

func (r *PaymentRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE payment SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
