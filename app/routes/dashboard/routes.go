package dashboard

import (
	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	api := app.Group("/api/dashboard", auth.AuthMiddleware)
	api.Get("/stats", auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar), DashboardStatsAPI)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Lakeside Academy",
		}, "layouts/main")
	})
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Sign in",
		}, "layouts/main")
	})
}

func DashboardStatsAPI(c *fiber.Ctx) error {
	stats, err := database.GetDashboardStats(config.GetDB())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch dashboard stats")
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
