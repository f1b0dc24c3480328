package server

import (
	"errors"
	"strings"
	"time"

	"pickmypit/internal/middleware"
	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's id set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// currentUserRole returns the role claim set by AuthRequired.
func currentUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals("userRole").(string)
	return role
}

// currentAdminID returns the authenticated admin's id set by AdminRequired.
func currentAdminID(c *fiber.Ctx) uint {
	id, _ := c.Locals("adminID").(uint)
	return id
}

// currentAdminRole returns the effective admin role set by AdminRequired.
func currentAdminRole(c *fiber.Ctx) string {
	role, _ := c.Locals("adminRole").(string)
	return role
}

// optionalAdmin attempts to authenticate an admin session without enforcing
// it. Public routes use this to widen visibility for logged-in moderators.
func (s *Server) optionalAdmin(c *fiber.Ctx) bool {
	token := c.Cookies(middleware.AdminCookieName)
	if token == "" {
		auth := c.Get("Authorization")
		if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
			token = after
		}
	}
	if token == "" {
		return false
	}
	claims, err := middleware.ParseToken(token, s.config.JWTSecret)
	if err != nil {
		return false
	}
	if _, err := s.adminRepo.ValidateAdmin(c.Context(), claims.ID, claims.Email); err != nil {
		return false
	}
	return true
}

// parsePage extracts page/limit query parameters with the given default limit.
// Unparsable values silently fall back to defaults.
func parsePage(c *fiber.Ctx, defaultLimit int) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}
	return page, limit
}

// parsePostFilter builds a PostFilter from query parameters. Absent or
// malformed values are skipped, never errors.
func parsePostFilter(c *fiber.Ctx, defaultLimit int, defaultStatus string) repository.PostFilter {
	f := repository.PostFilter{
		// species/breed predicates run against the slug columns, so "Dog"
		// and "dog" must both find the dog listings
		Species: validation.Slugify(c.Query("species")),
		Breed:   validation.Slugify(c.Query("breed")),
		Type:    c.Query("type"),
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Status:  c.Query("status", defaultStatus),
	}
	f.Page, f.Limit = parsePage(c, defaultLimit)

	if f.Type == models.PostTypePaid {
		if min, err := decimal.NewFromString(c.Query("minPrice")); err == nil {
			f.MinPrice = &min
		}
		if max, err := decimal.NewFromString(c.Query("maxPrice")); err == nil {
			f.MaxPrice = &max
		}
	}

	if c.QueryBool("nearMe") {
		lat := c.QueryFloat("latitude")
		lng := c.QueryFloat("longitude")
		radius := c.QueryFloat("maxDistance", 50)
		if lat != 0 || lng != 0 {
			f.Latitude = &lat
			f.Longitude = &lng
			f.RadiusKM = radius
		}
	}
	return f
}

// setAuthCookies writes the session cookie pair: the httpOnly token plus a
// JS-readable flag the frontend uses to gate UI state.
func (s *Server) setAuthCookies(c *fiber.Ctx, name, token string) {
	expires := time.Now().Add(middleware.TokenTTL)
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: "Lax",
		Domain:   s.config.CookieDomain,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "is_authenticated",
		Value:    "true",
		Expires:  expires,
		HTTPOnly: false,
		Secure:   s.config.CookieSecure,
		SameSite: "Lax",
		Domain:   s.config.CookieDomain,
		Path:     "/",
	})
}

// clearAuthCookies expires the session cookie pair.
func (s *Server) clearAuthCookies(c *fiber.Ctx, names ...string) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range append(names, "is_authenticated") {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: name != "is_authenticated",
			Secure:   s.config.CookieSecure,
			SameSite: "Lax",
			Domain:   s.config.CookieDomain,
			Path:     "/",
		})
	}
}
