package main

import (
	"encoding/json"
	"log"
	"time"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/routes/auth"
	"lakeside-academy/app/routes/billing"
	"lakeside-academy/app/routes/dashboard"
	"lakeside-academy/app/routes/documents"
	"lakeside-academy/app/routes/enrollments"
	"lakeside-academy/app/routes/fees"
	"lakeside-academy/app/routes/guardians"
	"lakeside-academy/app/routes/students"
	"lakeside-academy/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// customErrorHandler renders API errors as JSON envelopes and web errors
// through the error templates.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title": "Page Not Found - Lakeside Academy",
		})
	case 401:
		return c.Redirect("/login")
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - Lakeside Academy",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		log.Printf("Warning: failed to load Asia/Manila location, falling back to UTC+8: %v", err)
		time.Local = time.FixedZone("PHT", 8*60*60)
	} else {
		time.Local = loc
	}

	config.InitDB()
	defer config.GetDB().Close()

	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	services.StartScheduler(config.GetDB(), database.MarkOverdueInvoices)

	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
		BodyLimit:         12 * 1024 * 1024,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Static("/static", "./static")

	auth.SetupAuthRoutes(app)
	dashboard.SetupDashboardRoutes(app)
	dashboard.SetupNotificationRoutes(app)
	students.SetupStudentRoutes(app)
	guardians.SetupGuardianRoutes(app)
	fees.SetupFeeRoutes(app)
	enrollments.SetupEnrollmentRoutes(app)
	billing.SetupBillingRoutes(app)
	documents.SetupDocumentRoutes(app)

	// Catch-all 404, must be registered last.
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	log.Println("Server starting on :8080")
	log.Fatal(app.Listen(":8080"))
}
