package fees

import (
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupFeeRoutes(app *fiber.App) {
	api := app.Group("/api/fees", auth.AuthMiddleware)

	// Schedules are readable by anyone authenticated so guardians can
	// see what an enrollment will cost.
	api.Get("/", ListFeeSchedulesAPI)
	api.Get("/lookup", LookupFeeScheduleAPI)
	api.Get("/:id", GetFeeScheduleAPI)

	staff := auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar)
	api.Post("/", staff, CreateFeeScheduleAPI)
	api.Put("/:id", staff, UpdateFeeScheduleAPI)
	api.Post("/:id/duplicate", staff, DuplicateFeeScheduleAPI)
	api.Delete("/:id", auth.RoleMiddleware(models.RoleSuperAdmin), DeleteFeeScheduleAPI)
}
