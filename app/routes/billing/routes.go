package billing

import (
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupBillingRoutes(app *fiber.App) {
	api := app.Group("/api/billing", auth.AuthMiddleware)

	staff := auth.RoleMiddleware(models.RoleSuperAdmin, models.RoleRegistrar)

	api.Get("/invoices", ListInvoicesAPI)
	api.Post("/invoices", staff, CreateInvoiceAPI)
	api.Get("/invoices/:id", GetInvoiceAPI)
	api.Get("/invoices/:id/payments", GetInvoicePaymentsAPI)
	api.Post("/invoices/:id/payments", staff, RecordPaymentAPI)

	api.Get("/payments/:paymentId/receipt", GetReceiptAPI)
	api.Get("/stats", staff, BillingStatsAPI)
}
