package repository

import (
	"context"
	"database/sql"
	"time"
)

// Promotion mirrors the 'promotion' table.
type Promotion struct {
	ID              uint64     `json:"id"`
	PromoCode       string     `json:"promo_code"`
	DiscountPercent float64    `json:"discount_percent"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"-"`
}

type PromotionPatch struct {
	PromoCode       *string
	DiscountPercent *float64
	StartDate       *time.Time
	EndDate         *time.Time
}

type PromotionRepo struct{ DB *sql.DB }

func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{DB: db} }

func (r *PromotionRepo) Insert(ctx context.Context, p *Promotion) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO promotion (promo_code, discount_percent, start_date, end_date) VALUES (?,?,?,?)",
		p.PromoCode, p.DiscountPercent, p.StartDate, p.EndDate)
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

func (r *PromotionRepo) GetByID(ctx context.Context, id uint64) (Promotion, error) {
	var p Promotion
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, promo_code, discount_percent, start_date, end_date, created_at
		 FROM promotion WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&p.ID, &p.PromoCode, &p.DiscountPercent, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return Promotion{}, ErrNotFound
	}
	return p, err
}

func (r *PromotionRepo) List(ctx context.Context) ([]Promotion, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, promo_code, discount_percent, start_date, end_date, created_at
		 FROM promotion WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Promotion, 0)
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(&p.ID, &p.PromoCode, &p.DiscountPercent, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PromotionRepo) Update(ctx context.Context, id uint64, p PromotionPatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE promotion
		 SET promo_code = COALESCE(?, promo_code),
		     discount_percent = COALESCE(?, discount_percent),
		     start_date = COALESCE(?, start_date),
		     end_date = COALESCE(?, end_date)
		 WHERE id=? AND deleted_at IS NULL`,
		p.PromoCode, p.DiscountPercent, p.StartDate, p.EndDate, id)
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

func (r *PromotionRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE promotion SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
