package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/garment-backoffice/internal/repository"
)

func newFabricUsageHandler(t *testing.T) (*FabricUsageHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFabricUsageHandler(repository.NewFabricUsageRepo(db)), mock
}

func formRequest(target string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req, httptest.NewRecorder()
}

func TestFabricUsageCreate(t *testing.T) {
	h, mock := newFabricUsageHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fabric_usage")).
		WillReturnResult(sqlmock.NewResult(6, 1))

	req, rec := formRequest("/fabricusage", url.Values{
		"roll_id":     {"3"},
		"size_id":     {"2"},
		"qty":         {"12"},
		"total_use_m": {"18.5"},
	})
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A quantity beyond 32 bits must be rejected, not silently wrapped to a
// smaller number.
func TestFabricUsageCreateRejectsOversizedQty(t *testing.T) {
	h, _ := newFabricUsageHandler(t)

	req, rec := formRequest("/fabricusage", url.Values{
		"roll_id":     {"3"},
		"size_id":     {"2"},
		"qty":         {"4294967296"}, // 2^32
		"total_use_m": {"18.5"},
	})
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid numeric field")
}

func TestFabricUsageUpdateRejectsOversizedQty(t *testing.T) {
	h, _ := newFabricUsageHandler(t)

	req, rec := formRequest("/fabricusage/6", url.Values{
		"qty": {"99999999999"},
	})
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("6")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
