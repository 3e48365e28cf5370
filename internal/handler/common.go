// Package handler implements the HTTP surface. Handlers bind and validate
// input, delegate to repositories or the mutation coordinator, and map
// sentinel errors onto status codes. Responses are JSON with a
// human-readable message; driver detail stays in the server log.
package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weftworks/garment-backoffice/internal/middleware"
	"github.com/weftworks/garment-backoffice/internal/repository"
	"github.com/weftworks/garment-backoffice/internal/storage"
)

// reqTimeout bounds every database call made on behalf of one request.
const reqTimeout = 5 * time.Second

// parseID extracts a numeric :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// actorID returns the authenticated user's id, zero on unprotected routes.
func actorID(c echo.Context) uint64 {
	p, _ := middleware.PrincipalFrom(c)
	return p.UserID
}

// imageFile returns the optional single "image" multipart field. A request
// without a file (or without a multipart body at all) yields nil.
func imageFile(c echo.Context) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

// formString returns a trimmed form value as an optional field: nil when the
// field was not provided.
func formString(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return nil
	}
	return &v
}

// formFloat parses an optional numeric form value. The bool result is false
// when the field was provided but malformed.
func formFloat(c echo.Context, name string) (*float64, bool) {
	s := strings.TrimSpace(c.FormValue(name))
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// formUint parses an optional unsigned form value.
func formUint(c echo.Context, name string) (*uint64, bool) {
	s := strings.TrimSpace(c.FormValue(name))
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// formUint32 parses an optional unsigned form value bounded to 32 bits, for
// columns of that width. Out-of-range input is malformed, not truncated.
func formUint32(c echo.Context, name string) (*uint32, bool) {
	s := strings.TrimSpace(c.FormValue(name))
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, false
	}
	v := uint32(n)
	return &v, true
}

// formDate parses an optional date form value, accepting RFC 3339 or a bare
// YYYY-MM-DD. The bool result is false when provided but malformed.
func formDate(c echo.Context, name string) (*time.Time, bool) {
	s := strings.TrimSpace(c.FormValue(name))
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// writeError maps sentinel errors to responses. Anything unrecognized is a
// 500 with a generic body; the real error goes to the log only.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not found"})
	case errors.Is(err, repository.ErrNoChange):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not found"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already exists"})
	case errors.Is(err, storage.ErrUploadType):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Only image files are allowed"})
	case errors.Is(err, storage.ErrUploadTooLarge):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "File too large"})
	default:
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
}
