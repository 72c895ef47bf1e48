package services

import (
	"fmt"
	"time"

	"lakeside-academy/app/models"
)

// DeriveInvoiceStatus recomputes an invoice's status from its amounts.
// Draft/sent survive until money arrives; an existing overdue marking is
// only cleared by full payment.
func DeriveInvoiceStatus(totalCents, paidCents int64, prev models.InvoiceStatus) models.InvoiceStatus {
	switch {
	case totalCents > 0 && paidCents >= totalCents:
		return models.InvoicePaid
	case paidCents > 0:
		if prev == models.InvoiceOverdue {
			return models.InvoiceOverdue
		}
		return models.InvoicePartiallyPaid
	default:
		return prev
	}
}

// DerivePaymentStatus recomputes an enrollment's payment status from its net
// amount, the amount paid, and an optional due date.
func DerivePaymentStatus(netCents, paidCents int64, dueDate *time.Time, now time.Time) models.PaymentStatus {
	if netCents > 0 && paidCents >= netCents {
		return models.PaymentPaid
	}
	if dueDate != nil && now.After(*dueDate) {
		return models.PaymentOverdue
	}
	if paidCents > 0 {
		return models.PaymentPartial
	}
	return models.PaymentPending
}

// FormatReceiptNumber builds an official receipt number scoped to a calendar
// month: OR-<YYYYMM>-<NNNN>, sequence zero-padded to 4 digits.
func FormatReceiptNumber(period time.Time, seq int64) string {
	return fmt.Sprintf("OR-%s-%04d", period.Format("200601"), seq)
}

// ReceiptPeriodPrefix is the LIKE prefix matching all receipt numbers of the
// month containing t.
func ReceiptPeriodPrefix(t time.Time) string {
	return fmt.Sprintf("OR-%s-", t.Format("200601"))
}

// FormatInvoiceNumber builds an invoice number scoped to a calendar year:
// INV-<YYYY>-<NNNN>.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// InvoicePeriodPrefix is the LIKE prefix matching all invoice numbers of the
// year containing t.
func InvoicePeriodPrefix(t time.Time) string {
	return fmt.Sprintf("INV-%d-", t.Year())
}
