package server

import (
	"pickmypit/internal/middleware"
	"pickmypit/internal/models"
	"pickmypit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		FirstName    string `json:"firstname"`
		LastName     string `json:"lastname"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Gender       string `json:"gender"`
		ReferralCode string `json:"referralCode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(ctx, service.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Gender:       req.Gender,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	token, err := middleware.SignToken(user.ID, user.Email, user.Role, s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	s.setAuthCookies(c, middleware.AuthCookieName, token)

	return models.RespondSuccess(c, fiber.StatusCreated, "Account created", user)
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	token, err := middleware.SignToken(user.ID, user.Email, user.Role, s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	s.setAuthCookies(c, middleware.AuthCookieName, token)

	return models.RespondSuccess(c, fiber.StatusOK, "Logged in", user)
}

// GoogleAuth handles POST /api/auth/google-auth
func (s *Server) GoogleAuth(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		AccessToken  string `json:"access_token"`
		ReferralCode string `json:"referralCode"`
	}
	if err := c.BodyParser(&req); err != nil || req.AccessToken == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("access_token is required"))
	}

	user, created, err := s.userService.GoogleAuth(ctx, req.AccessToken, req.ReferralCode)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	token, err := middleware.SignToken(user.ID, user.Email, user.Role, s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	s.setAuthCookies(c, middleware.AuthCookieName, token)

	status := fiber.StatusOK
	message := "Logged in"
	if created {
		status = fiber.StatusCreated
		message = "Account created"
	}
	return models.RespondSuccess(c, status, message, user)
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearAuthCookies(c, middleware.AuthCookieName, middleware.AdminCookieName)
	return models.RespondSuccess(c, fiber.StatusOK, "Logged out", nil)
}

// VerifyToken handles GET /api/auth/verify-token. AuthRequired already
// validated the session; return the fresh account state.
func (s *Server) VerifyToken(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Token valid", user)
}

// AdminLogin handles POST /api/auth/admin/login
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.adminService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	token, err := middleware.SignToken(admin.ID, admin.Email, admin.Role, s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	s.setAuthCookies(c, middleware.AdminCookieName, token)

	return models.RespondSuccess(c, fiber.StatusOK, "Logged in", admin)
}

// AdminVerify handles GET /api/auth/admin/verify
func (s *Server) AdminVerify(c *fiber.Ctx) error {
	admin, err := s.adminRepo.GetByID(c.Context(), currentAdminID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Token valid", admin)
}
