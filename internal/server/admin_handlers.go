package server

import (
	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdminProfile handles GET /api/admin/profile
func (s *Server) GetAdminProfile(c *fiber.Ctx) error {
	admin, err := s.adminService.GetAdmin(c.Context(), currentAdminID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Profile retrieved", admin)
}

// UpdateAdminProfile handles PUT /api/admin/profile
func (s *Server) UpdateAdminProfile(c *fiber.Ctx) error {
	admin, err := s.adminService.GetAdmin(c.Context(), currentAdminID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	var req struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Gender    string `json:"gender"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.FirstName != "" {
		admin.FirstName = req.FirstName
	}
	if req.LastName != "" {
		admin.LastName = req.LastName
	}
	if req.Gender != "" {
		admin.Gender = req.Gender
	}

	if err := s.adminRepo.Update(c.Context(), admin); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Profile updated", admin)
}

// GetDashboardStats handles GET /api/admin/dashboard/stats
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Dashboard stats retrieved", stats)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return models.RespondSuccess(c, fiber.StatusOK, "Feature flags retrieved", s.featureFlags.Raw())
}

// GetAdmins handles GET /api/admin
func (s *Server) GetAdmins(c *fiber.Ctx) error {
	page, limit := parsePage(c, repository.DefaultPageSize)

	admins, total, err := s.adminService.ListAdmins(c.Context(), limit, (page-1)*limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondPaginated(c, "Admins retrieved", admins, total, page, limit)
}

// CreateAdmin handles POST /api/admin (superadmin only).
func (s *Server) CreateAdmin(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		Gender    string `json:"gender"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.adminService.CreateAdmin(c.Context(), service.CreateAdminInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Gender:    req.Gender,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return models.RespondSuccess(c, fiber.StatusCreated, "Admin created", admin)
}

// GetAdmin handles GET /api/admin/:id (superadmin only).
func (s *Server) GetAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	admin, err := s.adminService.GetAdmin(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Admin retrieved", admin)
}

// UpdateAdmin handles PUT /api/admin/:id (superadmin only).
func (s *Server) UpdateAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	admin, err := s.adminService.GetAdmin(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	var req struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Role      string `json:"role"`
		Status    string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.FirstName != "" {
		admin.FirstName = req.FirstName
	}
	if req.LastName != "" {
		admin.LastName = req.LastName
	}
	if req.Role != "" {
		if req.Role != models.RoleAdmin && req.Role != models.RoleSuperAdmin {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("role must be admin or superadmin"))
		}
		admin.Role = req.Role
	}
	if req.Status != "" {
		if req.Status != models.AdminStatusActive && req.Status != models.AdminStatusInactive {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("status must be active or inactive"))
		}
		admin.Status = req.Status
	}

	if err := s.adminRepo.Update(c.Context(), admin); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Admin updated", admin)
}

// DeleteAdmin handles DELETE /api/admin/:id (superadmin only).
func (s *Server) DeleteAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id == currentAdminID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot delete your own admin account"))
	}
	if err := s.adminService.DeleteAdmin(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Admin deleted", nil)
}
