package dashboard

import (
	"database/sql"
	"strconv"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	api := app.Group("/api/notifications", auth.AuthMiddleware)

	api.Get("/", ListNotificationsAPI)
	api.Post("/read-all", MarkAllReadAPI)
	api.Post("/:id/read", MarkReadAPI)
}

func ListNotificationsAPI(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	notifications, err := database.GetNotificationsForUser(
		config.GetDB(), principal.UserID, c.Query("unread") == "true", limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(fiber.Map{"success": true, "data": notifications})
}

func MarkReadAPI(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)

	err := database.MarkNotificationRead(config.GetDB(), c.Params("id"), principal.UserID)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Notification not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to mark notification read")
	}
	return c.JSON(fiber.Map{"success": true})
}

func MarkAllReadAPI(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)

	count, err := database.MarkAllNotificationsRead(config.GetDB(), principal.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to mark notifications read")
	}
	return c.JSON(fiber.Map{"success": true, "marked": count})
}
