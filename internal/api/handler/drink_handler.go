package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// DrinkHandler serves /api/drinks and drink reviews.
type DrinkHandler struct {
	service ports.DrinkService
}

func NewDrinkHandler(service ports.DrinkService) *DrinkHandler {
	return &DrinkHandler{service: service}
}

type drinkRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	Ingredients []string `json:"ingredients"`
}

type drinkPatchRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	ImageURL    *string   `json:"image_url"`
	Ingredients *[]string `json:"ingredients"`
}

type reviewRequest struct {
	Rating  int     `json:"rating"`
	Content *string `json:"content"`
}

// List returns the menu with aggregated ratings.
//
// @Summary      List drinks
// @Tags         drinks
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /drinks [get]
func (h *DrinkHandler) List(c echo.Context) error {
	drinks, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"drinks": drinks})
}

// Get returns one drink.
//
// @Summary      Get drink
// @Tags         drinks
// @Produce      json
// @Param        id   path      int  true  "Drink id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /drinks/{id} [get]
func (h *DrinkHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	drink, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"drink": drink})
}

// Create adds a drink from a JSON body.
//
// @Summary      Create drink
// @Tags         drinks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      drinkRequest  true  "Drink"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /drinks [post]
func (h *DrinkHandler) Create(c echo.Context) error {
	var req drinkRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.create(c, ports.DrinkInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Ingredients: req.Ingredients,
		ImageURL:    optionalPtr(req.ImageURL),
	})
}

// CreateWithUpload adds a drink from a multipart form with an "image" file.
// Ingredients may be a JSON array or a comma-separated list.
//
// @Summary      Create drink with image
// @Tags         drinks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name         formData  string  true   "Name"
// @Param        description  formData  string  false  "Description"
// @Param        price        formData  number  false  "Price"
// @Param        category     formData  string  false  "Category"
// @Param        ingredients  formData  string  false  "Ingredients"
// @Param        image        formData  file    false  "Image"
// @Success      201          {object}  map[string]any
// @Router       /drinks/upload [post]
func (h *DrinkHandler) CreateWithUpload(c echo.Context) error {
	in := ports.DrinkInput{
		Name:        c.FormValue("name"),
		Description: optional(c.FormValue("description")),
		Category:    optional(c.FormValue("category")),
		ImageURL:    optional(c.FormValue("image_url")),
		Ingredients: parseIngredients(c.FormValue("ingredients")),
	}
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Invalid("price must be a number")
		}
		in.Price = &price
	}

	img, err := formImage(c, "image")
	if err != nil {
		return err
	}
	in.Image = img
	return h.create(c, in)
}

func (h *DrinkHandler) create(c echo.Context, in ports.DrinkInput) error {
	drink, err := h.service.Create(c.Request().Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{"drink": drink})
}

// Update changes the given fields of a drink.
//
// @Summary      Update drink
// @Tags         drinks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Drink id"
// @Param        body  body      drinkPatchRequest  true  "Fields to change"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /drinks/{id} [patch]
func (h *DrinkHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req drinkPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	drink, err := h.service.Update(c.Request().Context(), middleware.ActorFrom(c), id, domain.DrinkPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"drink": drink})
}

// Delete removes a drink and its reviews.
//
// @Summary      Delete drink
// @Tags         drinks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Drink id"
// @Success      200  {object}  map[string]any
// @Router       /drinks/{id} [delete]
func (h *DrinkHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	removed, err := h.service.Delete(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"message": "drink deleted", "removed": removed})
}

// Reviews lists reviews of a drink, newest first.
//
// @Summary      List reviews
// @Tags         drinks
// @Produce      json
// @Param        id   path      int  true  "Drink id"
// @Success      200  {object}  map[string]any
// @Router       /drinks/{id}/reviews [get]
func (h *DrinkHandler) Reviews(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.service.Reviews(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"reviews": reviews})
}

// AddReview rates a drink as the caller and returns the new aggregate.
//
// @Summary      Add review
// @Tags         drinks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Drink id"
// @Param        body  body      reviewRequest  true  "Review"
// @Success      201   {object}  domain.ReviewSummary
// @Failure      400   {object}  map[string]any
// @Router       /drinks/{id}/reviews [post]
func (h *DrinkHandler) AddReview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	sum, err := h.service.AddReview(c.Request().Context(), middleware.ActorFrom(c), id, ports.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Content,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{
		"review":        sum.Review,
		"rating":        sum.Rating,
		"reviews_count": sum.ReviewsCount,
	})
}

// DeleteReview removes a review. Authors may delete their own, staff any.
//
// @Summary      Delete review
// @Tags         drinks
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true  "Drink id"
// @Param        reviewId  path      int  true  "Review id"
// @Success      200       {object}  map[string]any
// @Router       /drinks/{id}/reviews/{reviewId} [delete]
func (h *DrinkHandler) DeleteReview(c echo.Context) error {
	drinkID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "reviewId")
	if err != nil {
		return err
	}
	if err := h.service.DeleteReview(c.Request().Context(), middleware.ActorFrom(c), drinkID, reviewID); err != nil {
		return err
	}
	return message(c, "review deleted")
}

func parseIngredients(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
