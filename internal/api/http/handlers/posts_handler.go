package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/titan-observatory/internal/api/dto"
	"github.com/spec-kit/titan-observatory/internal/auth"
	"github.com/spec-kit/titan-observatory/internal/service"
	apperrors "github.com/spec-kit/titan-observatory/pkg/util/errorutil"
)

// PostsHandler manages blog endpoints.
type PostsHandler struct {
	service *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{service: postService}
}

// ListPosts GET /api/posts. The list is a bare JSON array.
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListPosts(c.UserContext())
	if err != nil {
		return mapPostError(err)
	}
	items := make([]dto.PostSummary, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostSummary(&posts[i]))
	}
	return c.JSON(items)
}

// GetPost GET /api/posts/:slug.
func (h *PostsHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.service.GetPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return mapPostError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewPostDetail(post)})
}

// CreatePost POST /api/posts.
func (h *PostsHandler) CreatePost(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	post, err := h.service.CreatePost(c.UserContext(), principal.User, postInput(req))
	if err != nil {
		return mapPostError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPostDetail(post)})
}

// UpdatePost PUT /api/posts/:id.
func (h *PostsHandler) UpdatePost(c *fiber.Ctx) error {
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	post, err := h.service.UpdatePost(c.UserContext(), c.Params("id"), postInput(req))
	if err != nil {
		return mapPostError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewPostDetail(post)})
}

// DeletePost DELETE /api/posts/:id.
func (h *PostsHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.service.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return mapPostError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func postInput(req dto.PostRequest) service.PostInput {
	return service.PostInput{Title: req.Title, Slug: req.Slug, Content: req.Content}
}

func mapPostError(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperrors.NewValidationError(verr.Reason, nil)
	case errors.Is(err, service.ErrPostNotFound):
		return apperrors.NewNotFound("Post", nil)
	case errors.Is(err, service.ErrSlugTaken):
		return apperrors.NewConflict("Slug already in use", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
