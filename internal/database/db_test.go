package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.local", "3306", "backoffice")
	assert.Equal(t,
		"app:s3cret@tcp(db.local:3306)/backoffice?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "backoffice")
	assert.Contains(t, got, "app@tcp(localhost:3306)/backoffice")
}

// A partial update whose values match the stored row must still count as
// one affected row, otherwise the coordinator misreads an idempotent PUT as
// a vanished row. CLIENT_FOUND_ROWS switches the server from changed-rows to
// matched-rows semantics.
func TestDSNRequestsFoundRowsSemantics(t *testing.T) {
	assert.Contains(t, dsn("u", "", "h", "3306", "d"), "clientFoundRows=true")
}
