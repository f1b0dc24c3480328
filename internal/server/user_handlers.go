package server

import (
	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserCard handles GET /api/users/:id, the public owner card.
func (s *Server) GetUserCard(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "User retrieved", user.Card())
}

// GetMyProfile handles GET /api/users/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Profile retrieved", user)
}

// UpdateMyProfile handles PUT /api/users/profile/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	return s.updateUserProfile(c, currentUserID(c))
}

// UpdateUser handles PUT /api/users/:id (self or admin).
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentUserID(c) && !isAdminRole(currentUserRole(c)) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own profile"))
	}
	return s.updateUserProfile(c, id)
}

func (s *Server) updateUserProfile(c *fiber.Ctx, userID uint) error {
	var req struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Gender    string `json:"gender"`
		Phone     string `json:"phone"`
		About     string `json:"about"`
		Picture   string `json:"userpic"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Phone:     req.Phone,
		About:     req.About,
		Picture:   req.Picture,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Profile updated", user)
}

// GetAllUsers handles GET /api/users (admin only).
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page, limit := parsePage(c, repository.DefaultPageSize)

	users, total, err := s.userService.ListUsers(c.Context(), limit, (page-1)*limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Users retrieved", users, total, page, limit)
}

// DeleteUser handles DELETE /api/users/:id (self or admin).
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.Context(), id, currentUserID(c), currentUserRole(c)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "User deleted", nil)
}

func isAdminRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}
