package server

import (
	"fmt"
	"strings"
	"time"

	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetBlogs handles GET /api/blogs. Public callers see published articles;
// a status query is honored only behind a valid admin session.
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	page, limit := parsePage(c, repository.DefaultPageSize)

	status := models.BlogStatusPublished
	if requested := c.Query("status"); requested != "" && s.optionalAdmin(c) {
		status = requested
	}

	blogs, total, err := s.blogRepo.List(c.Context(), status, limit, (page-1)*limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Blogs retrieved", blogs, total, page, limit)
}

// GetBlogBySlug handles GET /api/blogs/slug/:slug
func (s *Server) GetBlogBySlug(c *fiber.Ctx) error {
	blog, err := s.blogRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	if blog.Status != models.BlogStatusPublished && !s.optionalAdmin(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Blog", c.Params("slug")))
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Blog retrieved", blog)
}

// GetBlog handles GET /api/blogs/:id (admin).
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	blog, err := s.blogRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Blog retrieved", blog)
}

// CreateBlog handles POST /api/blogs (admin).
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Category   string `json:"category"`
		CoverImage string `json:"coverImage"`
		Status     string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}

	status := req.Status
	if status == "" {
		status = models.BlogStatusDraft
	}
	if status != models.BlogStatusDraft && status != models.BlogStatusPublished {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status must be draft or published"))
	}

	blog := &models.Blog{
		Title:      req.Title,
		Slug:       blogSlug(req.Title),
		Content:    req.Content,
		Category:   req.Category,
		CoverImage: req.CoverImage,
		Status:     status,
		AuthorID:   currentAdminID(c),
	}
	if err := s.blogRepo.Create(c.Context(), blog); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Blog created", blog)
}

// UpdateBlog handles PUT /api/blogs/:id (admin).
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	blog, err := s.blogRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		Category   *string `json:"category"`
		CoverImage *string `json:"coverImage"`
		Status     *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != nil && *req.Title != blog.Title {
		blog.Title = *req.Title
		blog.Slug = blogSlug(*req.Title)
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Category != nil {
		blog.Category = *req.Category
	}
	if req.CoverImage != nil {
		blog.CoverImage = *req.CoverImage
	}
	if req.Status != nil {
		if *req.Status != models.BlogStatusDraft && *req.Status != models.BlogStatusPublished {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("status must be draft or published"))
		}
		blog.Status = *req.Status
	}

	if err := s.blogRepo.Update(c.Context(), blog); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Blog updated", blog)
}

// DeleteBlog handles DELETE /api/blogs/:id (admin).
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.blogRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Blog deleted", nil)
}

func blogSlug(title string) string {
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return validation.Slugify(title) + "-" + suffix
}
