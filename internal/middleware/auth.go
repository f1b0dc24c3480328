package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"pickmypit/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AuthCookieName is the cookie carrying the user session token.
	AuthCookieName = "auth_token"
	// AdminCookieName is the cookie carrying the admin session token.
	AdminCookieName = "admin_token"
)

// TokenTTL is how long signed session tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the validated identity extracted from a session token.
type Claims struct {
	ID    uint
	Email string
	Role  string
}

// SignToken mints an HS256 session token for the given principal.
func SignToken(id uint, email, role, secret string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(id), 10),
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates a signed token and extracts its claims.
// Expired tokens return jwt.ErrTokenExpired so callers can distinguish
// re-login prompts from tampered tokens.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, ok := mc["sub"]
	if !ok {
		return nil, errors.New("token missing subject")
	}
	subStr, ok := sub.(string)
	if !ok {
		return nil, errors.New("invalid token subject type")
	}
	id, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return nil, errors.New("invalid subject in token")
	}

	claims := &Claims{ID: uint(id)}
	if email, ok := mc["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = role
	}
	return claims, nil
}

// tokenFromRequest returns the session token for the request, preferring the
// named cookie and falling back to a Bearer Authorization header.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if tok := c.Cookies(cookieName); tok != "" {
		return tok
	}
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired enforces user authentication for protected routes. The token is
// read from the auth_token cookie or a Bearer header. lookupStatus re-checks
// the account against the database so blocked users lose access immediately.
func AuthRequired(secret string, lookupStatus func(ctx context.Context, id uint) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c, AuthCookieName)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required. Please log in."))
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewTokenExpiredError())
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authentication token"))
		}

		if lookupStatus != nil {
			status, err := lookupStatus(c.UserContext(), claims.ID)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Account no longer exists"))
			}
			if status != models.UserStatusActive {
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewForbiddenError("Account is not active"))
			}
		}

		c.Locals("userID", claims.ID)
		c.Locals("userRole", claims.Role)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.ID))

		return c.Next()
	}
}

// AdminRequired enforces admin authentication. The token is read from the
// admin_token cookie or a Bearer header and must carry an admin role claim.
// validate re-checks the principal against the admins table (with a fallback
// to admin-role users) so revoked admins are rejected even with a live token.
func AdminRequired(secret string, validate func(ctx context.Context, id uint, email string) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c, AdminCookieName)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Admin authentication required"))
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewTokenExpiredError())
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authentication token"))
		}

		if claims.Role != models.RoleAdmin && claims.Role != models.RoleSuperAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		role := claims.Role
		if validate != nil {
			role, err = validate(c.UserContext(), claims.ID, claims.Email)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewForbiddenError("Admin account not found or inactive"))
			}
		}

		c.Locals("adminID", claims.ID)
		c.Locals("adminRole", role)
		c.SetUserContext(context.WithValue(c.UserContext(), AdminIDKey, claims.ID))

		return c.Next()
	}
}

// SuperAdminRequired gates routes to superadmin principals. It must run after
// AdminRequired.
func SuperAdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("adminRole").(string)
		if role != models.RoleSuperAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Superadmin access required"))
		}
		return c.Next()
	}
}
