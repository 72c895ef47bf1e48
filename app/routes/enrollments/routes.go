package enrollments

import (
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	api := app.Group("/api/enrollments", auth.AuthMiddleware)

	api.Get("/", ListEnrollmentsAPI)
	api.Post("/", SubmitEnrollmentAPI)
	api.Get("/check-eligibility", CheckEligibilityAPI)
	api.Get("/:id", GetEnrollmentAPI)
	api.Put("/:id", auth.RoleMiddleware(models.RoleGuardian), UpdateEnrollmentAPI)
	api.Delete("/:id", auth.RoleMiddleware(models.RoleGuardian), CancelEnrollmentAPI)

	staff := auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar)
	api.Post("/bulk-approve", staff, BulkApproveAPI)
	api.Post("/:id/approve", staff, ApproveEnrollmentAPI)
	api.Post("/:id/reject", staff, RejectEnrollmentAPI)
	api.Post("/:id/complete", staff, CompleteEnrollmentAPI)
}
