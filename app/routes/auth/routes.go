package auth

import (
	"database/sql"
	"strings"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"

	"github.com/gofiber/fiber/v2"
)

// Principal is the authenticated caller attached to every request.
// Handlers read it instead of re-parsing the token.
type Principal struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
}

func (p *Principal) HasRole(names ...string) bool {
	for _, want := range names {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (p *Principal) IsStaff() bool {
	return p.HasRole(models.RoleSuperAdmin, models.RoleRegistrar)
}

func SetupAuthRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/login", LoginAPI)
	api.Post("/register", RegisterGuardianAPI)
	api.Post("/logout", AuthMiddleware, LogoutAPI)
	api.Get("/me", AuthMiddleware, MeAPI)
	api.Post("/change-password", AuthMiddleware, ChangePasswordAPI)
}

// AuthMiddleware validates the JWT from the cookie or Authorization
// header and stores the resulting Principal in c.Locals("principal").
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("jwt_token")

	if tokenString == "" {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		c.ClearCookie("jwt_token")
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	c.Locals("principal", &Principal{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Roles:     claims.Roles,
	})

	return c.Next()
}

// RoleMiddleware allows the request through only when the principal
// carries at least one of the named roles.
func RoleMiddleware(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := CurrentPrincipal(c)
		if principal == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		if !principal.HasRole(roles...) {
			return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
		}

		return c.Next()
	}
}

func CurrentPrincipal(c *fiber.Ctx) *Principal {
	principal, ok := c.Locals("principal").(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// CurrentGuardian resolves the guardian profile behind the principal.
// Staff callers have no guardian profile and get nil without error.
func CurrentGuardian(c *fiber.Ctx) (*models.Guardian, error) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	if !principal.HasRole(models.RoleGuardian) {
		return nil, nil
	}

	guardian, err := database.GetGuardianByUserID(config.GetDB(), principal.UserID)
	if err == sql.ErrNoRows {
		return nil, fiber.NewError(fiber.StatusForbidden, "No guardian profile linked to this account")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve guardian profile")
	}

	return guardian, nil
}
