package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/garment-backoffice/internal/utils"
)

const testSecret = "middleware-test-secret"

// ledgerStub is a Liveness backed by an in-memory set of live tokens.
type ledgerStub struct {
	live map[string]bool
	err  error
}

func (s *ledgerStub) Live(_ context.Context, token string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.live[token], nil
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, bool, Principal) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var reached bool
	var p Principal
	h := mw(func(c echo.Context) error {
		reached = true
		p, _ = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, reached, p
}

func TestAuthenticatedAcceptsLiveToken(t *testing.T) {
	raw, err := utils.NewSessionToken(testSecret, utils.Claims{UserID: 9, Role: "admin", Email: "ops@x.y"}, 1)
	require.NoError(t, err)
	mw := Authenticated(testSecret, &ledgerStub{live: map[string]bool{raw: true}})

	rec, reached, p := invoke(t, mw, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, uint64(9), p.UserID)
	assert.Equal(t, "admin", p.Role)
	assert.Equal(t, raw, p.Token)
}

func TestAuthenticatedRejectsMissingHeader(t *testing.T) {
	mw := Authenticated(testSecret, &ledgerStub{})

	rec, reached, _ := invoke(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "No token provided")
}

func TestAuthenticatedRejectsBadSignature(t *testing.T) {
	raw, err := utils.NewSessionToken("other-secret", utils.Claims{UserID: 9, Role: "admin"}, 1)
	require.NoError(t, err)
	mw := Authenticated(testSecret, &ledgerStub{live: map[string]bool{raw: true}})

	rec, reached, _ := invoke(t, mw, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthenticatedRejectsRevokedToken(t *testing.T) {
	// Valid signature, but the ledger no longer has the row: logout wins
	// over the unexpired exp claim.
	raw, err := utils.NewSessionToken(testSecret, utils.Claims{UserID: 9, Role: "admin"}, 1)
	require.NoError(t, err)
	mw := Authenticated(testSecret, &ledgerStub{live: map[string]bool{}})

	rec, reached, _ := invoke(t, mw, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(principalKey, Principal{UserID: 1, Role: "admin"})

	h := RequireRole("admin")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbidsOtherRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(principalKey, Principal{UserID: 1, Role: "user"})

	h := RequireRole("admin")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forbidden")
}

func TestRequireRoleForbidsMissingPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole("admin")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
