package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// maxFormImage caps how much of a multipart file is read into memory. The
// image service enforces the configured limit on what is read.
const maxFormImage = 16 << 20

// ok writes the success envelope {"success": true, ...payload}.
func ok(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

func message(c echo.Context, msg string) error {
	return ok(c, http.StatusOK, echo.Map{"message": msg})
}

// bind decodes the request body and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// viewerID is the caller's id for personalised reads, empty when anonymous.
func viewerID(c echo.Context) string {
	if a := middleware.ActorFrom(c); a != nil {
		return a.ID
	}
	return ""
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("invalid " + name)
	}
	return id, nil
}

// formImage reads an optional multipart file. A missing field yields nil.
func formImage(c echo.Context, field string) (*ports.ImageInput, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, domain.Invalid("invalid multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFormImage))
	if err != nil {
		return nil, err
	}
	return &ports.ImageInput{Filename: fh.Filename, Data: data}, nil
}

// optional returns nil for an empty form value.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
