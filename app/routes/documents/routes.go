package documents

import (
	"lakeside-academy/app/config"
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"
	"lakeside-academy/app/services"

	"github.com/gofiber/fiber/v2"
)

var store services.Storage

func SetupDocumentRoutes(app *fiber.App) {
	store = services.NewLocalStorage(config.AppConfig.UploadDir, config.AppConfig.SecretKey)

	api := app.Group("/api/documents", auth.AuthMiddleware)

	api.Get("/", ListDocumentsAPI)
	api.Post("/", UploadDocumentAPI)
	api.Get("/:id", GetDocumentAPI)
	api.Delete("/:id", DeleteDocumentAPI)

	staff := auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar)
	api.Post("/:id/verify", staff, VerifyDocumentAPI)
	api.Post("/:id/reject", staff, RejectDocumentAPI)

	// Signed download links resolve here without auth middleware; the
	// HMAC signature and expiry are the access control.
	app.Get("/files/*", DownloadFileAPI)
}
