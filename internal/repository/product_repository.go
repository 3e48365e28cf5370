package repository

import (
	"context"
	"database/sql"
	"time"
)

// Product mirrors the 'products' table.
type Product struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Image     *string    `json:"image"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// ProductPatch carries optional fields for a partial update. Nil keeps the
// stored value.
type ProductPatch struct {
	Name  *string
	Price *float64
}

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// Insert creates a product and populates its generated ID.
func (r *ProductRepo) Insert(ctx context.Context, p *Product) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, price, image) VALUES (?,?,?)",
		p.Name, p.Price, p.Image)
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

// GetByID returns a live product or ErrNotFound.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (Product, error) {
	var p Product
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, price, image, created_at FROM products WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

// List returns all live products.
func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, price, image, created_at FROM products WHERE deleted_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// CurrentImageTx reads and locks the live row's image inside the update
// transaction.
func (r *ProductRepo) CurrentImageTx(ctx context.Context, tx *sql.Tx, id uint64) (*string, error) {
	var img sql.NullString
	err := tx.QueryRowContext(ctx,
		"SELECT image FROM products WHERE id=? AND deleted_at IS NULL FOR UPDATE", id).Scan(&img)
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

// UpdateTx applies a coalesce update inside the transaction and returns the
// affected row count.
func (r *ProductRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, p ProductPatch, imageURL *string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET name = COALESCE(?, name),
		     price = COALESCE(?, price),
		     image = COALESCE(?, image)
		 WHERE id=? AND deleted_at IS NULL`,
		p.Name, p.Price, imageURL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete marks a product as logically removed.
func (r *ProductRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
