package students

import (
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(app *fiber.App) {
	api := app.Group("/api/students", auth.AuthMiddleware)

	api.Get("/", ListStudentsAPI)
	api.Get("/stats", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), StudentsStatsAPI)
	api.Post("/", CreateStudentAPI)
	api.Get("/:id", GetStudentAPI)
	api.Put("/:id", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), UpdateStudentAPI)
	api.Delete("/:id", auth.RoleMiddleware(models.RoleSuperAdmin), DeleteStudentAPI)

	api.Get("/:id/guardians", GetStudentGuardiansAPI)
	api.Post("/:id/guardians", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), LinkGuardianAPI)
	api.Delete("/:id/guardians/:guardianId", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), UnlinkGuardianAPI)
}
