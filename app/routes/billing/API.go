package billing

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"
	"lakeside-academy/app/routes/auth"
	"lakeside-academy/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateInvoiceRequest struct {
	EnrollmentID string            `json:"enrollment_id" validate:"required,uuid"`
	DueDate      models.CustomTime `json:"due_date" validate:"required"`
}

type RecordPaymentRequest struct {
	AmountCents int64             `json:"amount_cents" validate:"required,gt=0"`
	Method      string            `json:"method" validate:"required"`
	PaymentDate models.CustomTime `json:"payment_date" validate:"required"`
	Reference   *string           `json:"reference"`
}

// fetchVisibleInvoice loads an invoice with guardian row scoping applied:
// guardians only ever see invoices of their own students, and an invoice
// outside that set reads as not found.
func fetchVisibleInvoice(c *fiber.Ctx, db *sql.DB, invoiceID string) (*models.Invoice, error) {
	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return nil, err
	}

	var inv *models.Invoice
	if guardian != nil {
		inv, err = database.GetInvoiceForGuardian(db, invoiceID, guardian.ID)
	} else {
		inv, err = database.GetInvoiceByID(db, invoiceID)
	}
	if err == sql.ErrNoRows {
		return nil, fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoice")
	}
	return inv, nil
}

func CreateInvoiceAPI(c *fiber.Ctx) error {
	var req CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Enrollment and due date are required")
	}

	db := config.GetDB()

	inv, err := database.CreateInvoice(db, req.EnrollmentID, req.DueDate.Time)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
	}
	if errors.Is(err, database.ErrNotApproved) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if errors.Is(err, database.ErrInvoiceExists) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create invoice")
	}

	if e, err := database.GetEnrollmentByID(db, inv.EnrollmentID); err == nil {
		services.NotifyGuardiansOfStudent(db, e.StudentID, services.EventInvoiceCreated,
			"Invoice issued",
			fmt.Sprintf("Invoice %s has been issued for school year %s.", inv.InvoiceNumber, e.SchoolYear))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": inv})
}

func ListInvoicesAPI(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	filters := database.InvoiceFilters{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	guardian, err := auth.CurrentGuardian(c)
	if err != nil {
		return err
	}
	if guardian != nil {
		filters.GuardianID = guardian.ID
	}

	invoices, err := database.ListInvoices(config.GetDB(), filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoices")
	}

	return c.JSON(fiber.Map{"success": true, "data": invoices, "page": page, "limit": limit})
}

func GetInvoiceAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	inv, err := fetchVisibleInvoice(c, db, c.Params("id"))
	if err != nil {
		return err
	}

	if payments, err := database.GetPaymentsByInvoice(db, inv.ID); err == nil {
		inv.Payments = payments
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"data":          inv,
		"balance_cents": inv.BalanceCents(),
	})
}

func GetInvoicePaymentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	inv, err := fetchVisibleInvoice(c, db, c.Params("id"))
	if err != nil {
		return err
	}

	payments, err := database.GetPaymentsByInvoice(db, inv.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}
	return c.JSON(fiber.Map{"success": true, "data": payments})
}

func RecordPaymentAPI(c *fiber.Ctx) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payment details: "+err.Error())
	}

	principal := auth.CurrentPrincipal(c)
	db := config.GetDB()

	payment := &models.Payment{
		InvoiceID:   c.Params("id"),
		AmountCents: req.AmountCents,
		Method:      req.Method,
		PaymentDate: req.PaymentDate,
		Reference:   req.Reference,
		ReceivedBy:  principal.UserID,
	}

	receipt, err := database.RecordPayment(db, payment)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}
	if errors.Is(err, database.ErrInvoiceNotOpen) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
	}

	if inv, err := database.GetInvoiceByID(db, payment.InvoiceID); err == nil {
		if e, err := database.GetEnrollmentByID(db, inv.EnrollmentID); err == nil {
			services.NotifyGuardiansOfStudent(db, e.StudentID, services.EventPaymentReceived,
				"Payment received",
				fmt.Sprintf("A payment was recorded on invoice %s. Receipt %s has been issued.", inv.InvoiceNumber, receipt.ReceiptNumber))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"payment": payment,
			"receipt": receipt,
		},
	})
}

func GetReceiptAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	payment, err := database.GetPaymentByID(db, c.Params("paymentId"))
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Receipt not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment")
	}

	// Visibility follows the invoice the payment was made against.
	if _, err := fetchVisibleInvoice(c, db, payment.InvoiceID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Receipt not found")
	}

	receipt, err := database.GetReceiptByPayment(db, payment.ID)
	if err == sql.ErrNoRows {
		return fiber.NewError(fiber.StatusNotFound, "Receipt not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch receipt")
	}
	receipt.Payment = payment

	return c.JSON(fiber.Map{"success": true, "data": receipt})
}

func BillingStatsAPI(c *fiber.Ctx) error {
	billed, collected, overdue, err := database.GetBillingStats(config.GetDB())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch billing stats")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_billed_cents":    billed,
			"total_collected_cents": collected,
			"outstanding_cents":     billed - collected,
			"overdue_invoices":      overdue,
		},
	})
}
