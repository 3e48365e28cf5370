package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/garment-backoffice/internal/config"
	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/service"
	"github.com/weftworks/garment-backoffice/internal/utils"
)

var testCfg = config.Config{
	JWTSecret:    "handler-test-secret",
	TokenTTLHour: 1,
	BcryptCost:   4, // minimum cost keeps the tests fast
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepo(db)
	sessions := service.NewSessions(repository.NewTokenRepo(db), nil)
	return NewAuthHandler(testCfg, users, sessions), mock
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

var userCols = []string{"id", "name", "email", "password_hash", "role", "image", "created_at"}

func TestLoginIssuesLedgerToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := utils.HashPassword("pass123", testCfg.BcryptCost)
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, image, created_at FROM users WHERE email=?")).
		WithArgs("ops@weft.example").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(5, "Ops", "ops@weft.example", hash, "admin", nil, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens (user_id, token) VALUES (?,?)")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req, rec := jsonRequest(http.MethodPost, "/auth/login", `{"email":"Ops@weft.example","password":"pass123"}`)
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged in")
	assert.Contains(t, rec.Body.String(), `"token"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ghost@weft.example").
		WillReturnRows(sqlmock.NewRows(userCols))

	req, rec := jsonRequest(http.MethodPost, "/auth/login", `{"email":"ghost@weft.example","password":"x"}`)
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email not found")
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := utils.HashPassword("correct", testCfg.BcryptCost)
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ops@weft.example").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(5, "Ops", "ops@weft.example", hash, "admin", nil, time.Now()))

	req, rec := jsonRequest(http.MethodPost, "/auth/login", `{"email":"ops@weft.example","password":"wrong"}`)
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid password")
}

func TestLoginMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	req, rec := jsonRequest(http.MethodPost, "/auth/login", `{"email":"","password":""}`)
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterCreatesUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role, image) VALUES (?,?,?,?,?)")).
		WillReturnResult(sqlmock.NewResult(11, 1))

	req, rec := jsonRequest(http.MethodPost, "/auth/register", `{"name":"New","email":"New@weft.example","password":"pw","role":"ADMIN"}`)
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registered")
	assert.Contains(t, rec.Body.String(), `"id":11`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysqlDuplicate{})

	req, rec := jsonRequest(http.MethodPost, "/auth/register", `{"name":"New","email":"dup@weft.example","password":"pw"}`)
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
}

// mysqlDuplicate mimics the driver's duplicate-entry error text.
type mysqlDuplicate struct{}

func (*mysqlDuplicate) Error() string {
	return "Error 1062 (23000): Duplicate entry 'dup@weft.example' for key 'users.email'"
}

func TestLogoutRevokesToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE token=?")).
		WithArgs("raw-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer raw-token")
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutWithoutToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
