package repository

import (
	"context"
	"database/sql"
	"time"
)

// Supplier mirrors the 'suppliers' table.
type Supplier struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Phone     *string    `json:"phone"`
	Address   *string    `json:"address"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// SupplierPatch carries optional fields for a partial update.
type SupplierPatch struct {
	Name    *string
	Phone   *string
	Address *string
}

type SupplierRepo struct{ DB *sql.DB }

func NewSupplierRepo(db *sql.DB) *SupplierRepo { return &SupplierRepo{DB: db} }

func (r *SupplierRepo) Insert(ctx context.Context, s *Supplier) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO suppliers (name, phone, address) VALUES (?,?,?)",
		s.Name, s.Phone, s.Address)
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

func (r *SupplierRepo) GetByID(ctx context.Context, id uint64) (Supplier, error) {
	var s Supplier
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, phone, address, created_at
		 FROM suppliers WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return Supplier{}, ErrNotFound
	}
	return s, err
}

func (r *SupplierRepo) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, phone, address, created_at
		 FROM suppliers WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Supplier, 0)
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *SupplierRepo) Update(ctx context.Context, id uint64, p SupplierPatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE suppliers
		 SET name = COALESCE(?, name),
		     phone = COALESCE(?, phone),
		     address = COALESCE(?, address)
		 WHERE id=? AND deleted_at IS NULL`,
		p.Name, p.Phone, p.Address, id)
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

func (r *SupplierRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE suppliers SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
