package repository

import (
	"context"
	"database/sql"
	"time"
)

// ActivityLog mirrors the 'activity_logs' table. Rows are written by the
// audit consumer, never by request handlers directly.
type ActivityLog struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  uint64    `json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ActivityLogRepo struct{ DB *sql.DB }

func NewActivityLogRepo(db *sql.DB) *ActivityLogRepo { return &ActivityLogRepo{DB: db} }

func (r *ActivityLogRepo) Insert(ctx context.Context, l *ActivityLog) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO activity_logs (user_id, action, entity, entity_id) VALUES (?,?,?,?)",
		l.UserID, l.Action, l.Entity, l.EntityID)
	return err
}

// List returns recent activity, newest first, capped at limit.
func (r *ActivityLogRepo) List(ctx context.Context, limit int) ([]ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, action, entity, entity_id, created_at FROM activity_logs ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ActivityLog, 0)
	for rows.Next() {
		var l ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Entity, &l.EntityID, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
