package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// UploadHandler serves POST /api/uploads.
type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload stores a standalone image. Relative references are made absolute
// against the request host.
//
// @Summary      Upload image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Image (jpeg, png, webp, gif; max 5 MB)"
// @Success      201    {object}  domain.Upload
// @Failure      400    {object}  map[string]any
// @Router       /uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	img, err := formImage(c, "image")
	if err != nil {
		return err
	}
	if img == nil {
		return domain.Invalid("image file is required")
	}

	up, err := h.service.Store(c.Request().Context(), middleware.ActorFrom(c), *img)
	if err != nil {
		return err
	}

	url := up.URL
	if strings.HasPrefix(url, "/") {
		url = c.Scheme() + "://" + c.Request().Host + url
	}
	return ok(c, http.StatusCreated, echo.Map{"url": url, "filename": up.Filename})
}
