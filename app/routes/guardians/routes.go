package guardians

import (
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupGuardianRoutes(app *fiber.App) {
	api := app.Group("/api/guardians", auth.AuthMiddleware)

	api.Get("/profile", auth.RoleMiddleware(models.RoleGuardian), GetProfileAPI)
	api.Put("/profile", auth.RoleMiddleware(models.RoleGuardian), UpdateProfileAPI)

	api.Get("/", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), ListGuardiansAPI)
	api.Get("/:id", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), GetGuardianAPI)
	api.Get("/:id/students", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), GetGuardianStudentsAPI)
}
