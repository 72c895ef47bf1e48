package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lakeside-academy/app/models"
	"lakeside-academy/app/services"
)

var (
	ErrInvoiceExists  = errors.New("an invoice already exists for this enrollment")
	ErrInvoiceNotOpen = errors.New("invoice does not accept payments in its current state")
	ErrNotApproved    = errors.New("invoices can only be issued for approved enrollments")
)

const invoiceColumns = `id, enrollment_id, invoice_number, total_amount_cents, paid_amount_cents,
	status, due_date, issued_at, created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var dueDate sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.EnrollmentID, &inv.InvoiceNumber, &inv.TotalAmountCents, &inv.PaidAmountCents,
		&inv.Status, &dueDate, &inv.IssuedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		inv.DueDate = models.CustomTime{Time: dueDate.Time}
	}
	return inv, nil
}

// nextScopedSequence scans the max existing sequence for numbers with the
// given prefix and returns max+1. Runs inside the caller's transaction; the
// unique index on the number column is the guard against concurrent writers.
func nextScopedSequence(tx *sql.Tx, table, column, prefix string) (int64, error) {
	var maxSeq sql.NullInt64
	query := fmt.Sprintf(`SELECT MAX(CAST(SUBSTRING(%s FROM $1) AS INTEGER)) FROM %s WHERE %s LIKE $2`,
		column, table, column)
	if err := tx.QueryRow(query, len(prefix)+1, prefix+"%").Scan(&maxSeq); err != nil {
		return 0, err
	}
	if !maxSeq.Valid {
		return 1, nil
	}
	return maxSeq.Int64 + 1, nil
}

// CreateInvoice issues an invoice for an enrolled enrollment, numbered
// INV-<year>-<seq> and immediately marked sent.
func CreateInvoice(db *sql.DB, enrollmentID string, dueDate time.Time) (*models.Invoice, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := scanEnrollment(tx.QueryRow(
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		enrollmentID))
	if err != nil {
		return nil, err
	}
	if e.Status != models.EnrollmentEnrolled && e.Status != models.EnrollmentCompleted {
		return nil, ErrNotApproved
	}

	var existing int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM invoices WHERE enrollment_id = $1 AND deleted_at IS NULL`,
		enrollmentID).Scan(&existing); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrInvoiceExists
	}

	now := time.Now()
	seq, err := nextScopedSequence(tx, "invoices", "invoice_number", services.InvoicePeriodPrefix(now))
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice sequence: %v", err)
	}

	inv := &models.Invoice{
		EnrollmentID:     enrollmentID,
		InvoiceNumber:    services.FormatInvoiceNumber(now.Year(), seq),
		TotalAmountCents: e.NetAmountCents,
		Status:           models.InvoiceSent,
		DueDate:          models.CustomTime{Time: dueDate},
	}

	query := `INSERT INTO invoices
			  (enrollment_id, invoice_number, total_amount_cents, paid_amount_cents, status, due_date, issued_at, created_at, updated_at)
			  VALUES ($1, $2, $3, 0, $4, $5, NOW(), NOW(), NOW())
			  RETURNING id, issued_at, created_at, updated_at`
	err = tx.QueryRow(query,
		inv.EnrollmentID, inv.InvoiceNumber, inv.TotalAmountCents, string(inv.Status), dueDate,
	).Scan(&inv.ID, &inv.IssuedAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inv, nil
}

func GetInvoiceByID(db *sql.DB, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND deleted_at IS NULL`
	return scanInvoice(db.QueryRow(query, id))
}

// GetInvoiceForGuardian fetches an invoice only when it belongs to one of
// the guardian's students. Absence and denial are indistinguishable: both
// come back as sql.ErrNoRows.
func GetInvoiceForGuardian(db *sql.DB, id, guardianID string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i
			  WHERE i.id = $1 AND i.deleted_at IS NULL
			  AND i.enrollment_id IN (
				  SELECT e.id FROM enrollments e
				  JOIN guardian_students gs ON gs.student_id = e.student_id
				  WHERE gs.guardian_id = $2)`
	return scanInvoice(db.QueryRow(query, id, guardianID))
}

// InvoiceFilters represents list filtering for invoices.
type InvoiceFilters struct {
	Status     string
	GuardianID string
	Limit      int
	Offset     int
}

func ListInvoices(db *sql.DB, filters InvoiceFilters) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE deleted_at IS NULL`
	var args []interface{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.GuardianID != "" {
		args = append(args, filters.GuardianID)
		query += fmt.Sprintf(` AND enrollment_id IN (
			SELECT e.id FROM enrollments e
			JOIN guardian_students gs ON gs.student_id = e.student_id
			WHERE gs.guardian_id = $%d)`, len(args))
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// RecordPayment applies a payment to an invoice in one transaction:
// payment insert, invoice paid-amount bump and status re-derivation,
// enrollment amount_paid/balance/payment_status recomputation, and receipt
// issuance with the next OR-<YYYYMM>-<NNNN> number.
func RecordPayment(db *sql.DB, payment *models.Payment) (*models.Receipt, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv, err := scanInvoice(tx.QueryRow(
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		payment.InvoiceID))
	if err != nil {
		return nil, err
	}
	if inv.Status == models.InvoicePaid || inv.Status == models.InvoiceDraft {
		return nil, ErrInvoiceNotOpen
	}

	// 1. Insert payment record
	query := `INSERT INTO payments (invoice_id, amount_cents, method, payment_date, reference, received_by, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		payment.InvoiceID, payment.AmountCents, payment.Method,
		payment.PaymentDate, payment.Reference, payment.ReceivedBy,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %v", err)
	}

	// 2. Bump invoice running total and re-derive status
	newPaid := inv.PaidAmountCents + payment.AmountCents
	newStatus := services.DeriveInvoiceStatus(inv.TotalAmountCents, newPaid, inv.Status)
	_, err = tx.Exec(
		`UPDATE invoices SET paid_amount_cents = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		newPaid, string(newStatus), inv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice: %v", err)
	}

	// 3. Recompute the enrollment's paid/balance/payment_status
	e, err := scanEnrollment(tx.QueryRow(
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, inv.EnrollmentID))
	if err != nil {
		return nil, err
	}
	e.AmountPaidCents += payment.AmountCents
	e.RecomputeTotals()

	var due *time.Time
	if !inv.DueDate.Time.IsZero() {
		due = &inv.DueDate.Time
	}
	paymentStatus := services.DerivePaymentStatus(e.NetAmountCents, e.AmountPaidCents, due, time.Now())

	_, err = tx.Exec(
		`UPDATE enrollments SET amount_paid_cents = $1, balance_cents = $2, payment_status = $3, updated_at = NOW() WHERE id = $4`,
		e.AmountPaidCents, e.BalanceCents, string(paymentStatus), e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment balance: %v", err)
	}

	// 4. Issue the receipt
	now := time.Now()
	seq, err := nextScopedSequence(tx, "receipts", "receipt_number", services.ReceiptPeriodPrefix(now))
	if err != nil {
		return nil, fmt.Errorf("failed to scan receipt sequence: %v", err)
	}
	receipt := &models.Receipt{
		PaymentID:     payment.ID,
		ReceiptNumber: services.FormatReceiptNumber(now, seq),
	}
	err = tx.QueryRow(
		`INSERT INTO receipts (payment_id, receipt_number, issued_at, created_at)
		 VALUES ($1, $2, NOW(), NOW()) RETURNING id, issued_at, created_at`,
		receipt.PaymentID, receipt.ReceiptNumber,
	).Scan(&receipt.ID, &receipt.IssuedAt, &receipt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert receipt: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetPaymentsByInvoice returns payments on an invoice, oldest first.
func GetPaymentsByInvoice(db *sql.DB, invoiceID string) ([]*models.Payment, error) {
	query := `SELECT id, invoice_id, amount_cents, method, payment_date, reference, received_by, created_at, updated_at
			  FROM payments WHERE invoice_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at`
	rows, err := db.Query(query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.AmountCents, &p.Method, &p.PaymentDate,
			&p.Reference, &p.ReceivedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetPaymentByID fetches a single payment.
func GetPaymentByID(db *sql.DB, paymentID string) (*models.Payment, error) {
	p := &models.Payment{}
	query := `SELECT id, invoice_id, amount_cents, method, payment_date, reference, received_by, created_at, updated_at
			  FROM payments WHERE id = $1 AND deleted_at IS NULL`
	err := db.QueryRow(query, paymentID).Scan(
		&p.ID, &p.InvoiceID, &p.AmountCents, &p.Method, &p.PaymentDate,
		&p.Reference, &p.ReceivedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetReceiptByPayment fetches the receipt issued for a payment.
func GetReceiptByPayment(db *sql.DB, paymentID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	query := `SELECT id, payment_id, receipt_number, issued_at, created_at
			  FROM receipts WHERE payment_id = $1`
	err := db.QueryRow(query, paymentID).Scan(
		&receipt.ID, &receipt.PaymentID, &receipt.ReceiptNumber, &receipt.IssuedAt, &receipt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// MarkOverdueInvoices flags unpaid invoices past their due date and cascades
// the overdue payment status onto their enrollments. Returns the number of
// invoices flagged. Called by the daily scheduler.
func MarkOverdueInvoices(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		UPDATE invoices SET status = 'overdue', updated_at = NOW()
		WHERE status IN ('sent', 'partially_paid')
		  AND due_date < CURRENT_DATE
		  AND paid_amount_cents < total_amount_cents
		  AND deleted_at IS NULL
		RETURNING enrollment_id
	`)
	if err != nil {
		return 0, err
	}
	var enrollmentIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		enrollmentIDs = append(enrollmentIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range enrollmentIDs {
		_, err := tx.Exec(
			`UPDATE enrollments SET payment_status = 'overdue', updated_at = NOW()
			 WHERE id = $1 AND payment_status != 'paid'`, id)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(enrollmentIDs), nil
}

// GetBillingStats returns headline billing numbers for dashboards.
func GetBillingStats(db *sql.DB) (billed, collected int64, overdue int, err error) {
	query := `
		SELECT COALESCE(SUM(total_amount_cents), 0),
			   COALESCE(SUM(paid_amount_cents), 0),
			   COUNT(*) FILTER (WHERE status = 'overdue')
		FROM invoices WHERE deleted_at IS NULL
	`
	err = db.QueryRow(query).Scan(&billed, &collected, &overdue)
	return billed, collected, overdue, err
}
