package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// FeedHandler serves one article feed. News and posts share it and differ
// only in the response keys.
type FeedHandler struct {
	service ports.FeedService
	listKey string
	itemKey string
}

// NewNewsHandler serves /api/news.
func NewNewsHandler(service ports.FeedService) *FeedHandler {
	return &FeedHandler{service: service, listKey: "news", itemKey: "news"}
}

// NewPostsHandler serves /api/posts.
func NewPostsHandler(service ports.FeedService) *FeedHandler {
	return &FeedHandler{service: service, listKey: "posts", itemKey: "post"}
}

type articleRequest struct {
	Title    string  `json:"title"     form:"title"`
	Content  string  `json:"content"   form:"content"`
	ImageURL *string `json:"image_url" form:"image_url"`
}

type articlePatchRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// List returns every article, newest first, with like and comment counts.
//
// @Summary      List articles
// @Tags         feed
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /news [get]
// @Router       /posts [get]
func (h *FeedHandler) List(c echo.Context) error {
	articles, err := h.service.List(c.Request().Context(), viewerID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{h.listKey: articles})
}

// Get returns one article.
//
// @Summary      Get article
// @Tags         feed
// @Produce      json
// @Param        id   path      int  true  "Article id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /news/{id} [get]
// @Router       /posts/{id} [get]
func (h *FeedHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	article, err := h.service.Get(c.Request().Context(), id, viewerID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{h.itemKey: article})
}

// Create publishes an article from JSON, or from a multipart form with an
// optional "image" file.
//
// @Summary      Create article
// @Tags         feed
// @Accept       json,multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body   body      articleRequest  false  "Article"
// @Param        image  formData  file            false  "Image"
// @Success      201    {object}  map[string]any
// @Failure      400    {object}  map[string]any
// @Failure      403    {object}  map[string]any
// @Router       /news [post]
// @Router       /news/upload [post]
// @Router       /news/with-image [post]
// @Router       /posts [post]
func (h *FeedHandler) Create(c echo.Context) error {
	var req articleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	img, err := formImage(c, "image")
	if err != nil {
		return err
	}

	article, err := h.service.Create(c.Request().Context(), middleware.ActorFrom(c), ports.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: optionalPtr(req.ImageURL),
		Image:    img,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{h.itemKey: article})
}

// Update changes the given fields of an article.
//
// @Summary      Update article
// @Tags         feed
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Article id"
// @Param        body  body      articlePatchRequest  true  "Fields to change"
// @Success      200   {object}  map[string]any
// @Router       /news/{id} [put]
// @Router       /posts/{id} [put]
func (h *FeedHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req articlePatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	article, err := h.service.Update(c.Request().Context(), middleware.ActorFrom(c), id, domain.ArticlePatch{
		Title:   req.Title,
		Content: req.Content,
		Image:   req.ImageURL,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{h.itemKey: article})
}

// Delete removes an article with its likes and comments.
//
// @Summary      Delete article
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Article id"
// @Success      200  {object}  map[string]any
// @Router       /news/{id} [delete]
// @Router       /posts/{id} [delete]
func (h *FeedHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	removed, err := h.service.Delete(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"message": "deleted", "removed": removed})
}

// ToggleLike likes the article, or removes the caller's like.
//
// @Summary      Toggle like
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Article id"
// @Success      200  {object}  domain.LikeResult
// @Router       /news/{id}/like [post]
// @Router       /posts/{id}/like [post]
func (h *FeedHandler) ToggleLike(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.service.ToggleLike(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"likes_count": res.LikesCount, "user_has_liked": res.UserHasLiked})
}

// Comments lists the comments of an article, newest first.
//
// @Summary      List comments
// @Tags         feed
// @Produce      json
// @Param        id   path      int  true  "Article id"
// @Success      200  {object}  map[string]any
// @Router       /news/{id}/comments [get]
// @Router       /posts/{id}/comments [get]
func (h *FeedHandler) Comments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.service.Comments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"comments": comments})
}

// AddComment posts a comment as the caller.
//
// @Summary      Add comment
// @Tags         feed
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Article id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  map[string]any
// @Router       /news/{id}/comments [post]
// @Router       /posts/{id}/comments [post]
func (h *FeedHandler) AddComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.Request().Context(), middleware.ActorFrom(c), id, req.Content)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{"comment": comment})
}

// DeleteComment removes a comment. Authors may delete their own, staff any.
//
// @Summary      Delete comment
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int  true  "Article id"
// @Param        commentId  path      int  true  "Comment id"
// @Success      200        {object}  map[string]any
// @Router       /news/{id}/comments/{commentId} [delete]
// @Router       /posts/{id}/comments/{commentId} [delete]
func (h *FeedHandler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.Request().Context(), middleware.ActorFrom(c), id, commentID); err != nil {
		return err
	}
	return message(c, "comment deleted")
}

func optionalPtr(v *string) *string {
	if v == nil {
		return nil
	}
	return optional(*v)
}
