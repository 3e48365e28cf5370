package repository

import (
	"context"
	"database/sql"
	"time"
)

// Employee mirrors the 'employee' table.
type Employee struct {
	ID        uint64     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     *string    `json:"phone"`
	Position  *string    `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// EmployeePatch carries optional fields for a partial update.
type EmployeePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Position  *string
}

type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

func (r *EmployeeRepo) Insert(ctx context.Context, e *Employee) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employee (first_name, last_name, phone, position) VALUES (?,?,?,?)",
		e.FirstName, e.LastName, e.Phone, e.Position)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (Employee, error) {
	var e Employee
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, phone, position, created_at
		 FROM employee WHERE id=? AND deleted_at IS NULL LIMIT 1`,
		id).Scan(&e.ID, &e.FirstName, &e.LastName, &e.Phone, &e.Position, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (r *EmployeeRepo) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, first_name, last_name, phone, position, created_at
		 FROM employee WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Employee, 0)
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Phone, &e.Position, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *EmployeeRepo) Update(ctx context.Context, id uint64, p EmployeePatch) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE employee
		 SET first_name = COALESCE(?, first_name),
		     last_name = COALESCE(?, last_name),
		     phone = COALESCE(?, phone),
		     position = COALESCE(?, position)
		 WHERE id=? AND deleted_at IS NULL`,
		p.FirstName, p.LastName, p.Phone, p.Position, id)
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

func (r *EmployeeRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE employee SET deleted_at=CURRENT_TIMESTAMP WHERE id=? AND deleted_at IS NULL", id)
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
