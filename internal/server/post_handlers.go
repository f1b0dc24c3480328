package server

import (
	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type postRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Amount      string   `json:"amount"`
	Type        string   `json:"type"`
	Species     string   `json:"species"`
	Category    string   `json:"category"`
	AgeValue    *int     `json:"age_value"`
	AgeUnit     string   `json:"age_unit"`
	AddressID   *uint    `json:"address_id"`
}

// GetPosts handles GET /api/posts. Public browse: only available listings
// unless an explicit status override is given.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	f := parsePostFilter(c, repository.DefaultPageSize, models.PostStatusAvailable)

	posts, total, err := s.postService.FilterPosts(c.Context(), f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Posts retrieved", posts, total, f.Page, f.Limit)
}

// FilterPosts handles GET /api/posts/filter with the full filter surface.
func (s *Server) FilterPosts(c *fiber.Ctx) error {
	f := parsePostFilter(c, repository.DefaultFilterPageSize, models.PostStatusAvailable)

	posts, total, err := s.postService.FilterPosts(c.Context(), f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Posts retrieved", posts, total, f.Page, f.Limit)
}

// GetPostBySlug handles GET /api/posts/slug/:slug
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	post, err := s.postService.GetPostBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post retrieved", post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post retrieved", post)
}

// GetMyPosts handles GET /api/posts/user-posts. Owners see all of their
// listings regardless of status.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	f := parsePostFilter(c, repository.DefaultPageSize, repository.StatusAll)
	f.OwnerID = currentUserID(c)

	posts, total, err := s.postService.FilterPosts(c.Context(), f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Posts retrieved", posts, total, f.Page, f.Limit)
}

// GetPendingApprovals handles GET /api/posts/pending-approvals. Defaults to
// the moderation queue; status=all widens to every listing.
func (s *Server) GetPendingApprovals(c *fiber.Ctx) error {
	f := parsePostFilter(c, repository.DefaultPageSize, models.PostStatusPending)

	posts, total, err := s.postService.FilterPosts(c.Context(), f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Posts retrieved", posts, total, f.Page, f.Limit)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	amount := decimal.Zero
	if req.Amount != "" {
		var err error
		if amount, err = decimal.NewFromString(req.Amount); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewFieldValidationError("Invalid input", map[string]string{"amount": "amount must be a number"}))
		}
	}

	in := service.CreatePostInput{
		OwnerID:     currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Amount:      amount,
		Type:        req.Type,
		Species:     req.Species,
		Category:    req.Category,
		AgeUnit:     req.AgeUnit,
		AddressID:   req.AddressID,
	}
	if req.AgeValue != nil {
		in.AgeValue = *req.AgeValue
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Post created", post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdatePostInput{
		PostID:      id,
		OwnerID:     currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Category:    req.Category,
		AgeValue:    req.AgeValue,
		AgeUnit:     req.AgeUnit,
		AddressID:   req.AddressID,
	}
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewFieldValidationError("Invalid input", map[string]string{"amount": "amount must be a number"}))
		}
		in.Amount = &amount
	}

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post updated", post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.Context(), id, currentUserID(c), currentUserRole(c)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post deleted", nil)
}

// ApprovePost handles PUT /api/posts/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.Approve(c.Context(), currentAdminRole(c), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post approved", post)
}

// RejectPost handles POST /api/posts/:id/reject
func (s *Server) RejectPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	post, err := s.postService.Reject(c.Context(), currentAdminRole(c), id, req.Reason)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post rejected", post)
}

// BanPost handles PUT /api/posts/:id/ban
func (s *Server) BanPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.Ban(c.Context(), currentAdminRole(c), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post banned", post)
}

// UpdatePostStatus handles PUT /api/posts/:id/status, the owner-facing
// generic status change (sold, adopted).
func (s *Server) UpdatePostStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status is required"))
	}

	post, err := s.postService.UpdateListingStatus(c.Context(), service.UpdateStatusInput{
		PostID:    id,
		ActorID:   currentUserID(c),
		ActorRole: currentUserRole(c),
		Status:    req.Status,
		Reason:    req.Reason,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Post status updated", post)
}
