package services

import (
	"testing"
	"time"

	"lakeside-academy/app/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		paid  int64
		prev  models.InvoiceStatus
		want  models.InvoiceStatus
	}{
		{"untouched sent invoice stays sent", 100_000, 0, models.InvoiceSent, models.InvoiceSent},
		{"partial payment", 100_000, 40_000, models.InvoiceSent, models.InvoicePartiallyPaid},
		{"full payment", 100_000, 100_000, models.InvoiceSent, models.InvoicePaid},
		{"overpayment counts as paid", 100_000, 120_000, models.InvoicePartiallyPaid, models.InvoicePaid},
		{"partial payment does not clear overdue", 100_000, 40_000, models.InvoiceOverdue, models.InvoiceOverdue},
		{"full payment clears overdue", 100_000, 100_000, models.InvoiceOverdue, models.InvoicePaid},
		{"zero total never reads paid", 0, 0, models.InvoiceSent, models.InvoiceSent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveInvoiceStatus(tt.total, tt.paid, tt.prev))
		})
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	tests := []struct {
		name string
		net  int64
		paid int64
		due  *time.Time
		want models.PaymentStatus
	}{
		{"nothing paid", 100_000, 0, nil, models.PaymentPending},
		{"partial", 100_000, 40_000, &future, models.PaymentPartial},
		{"fully paid", 100_000, 100_000, &past, models.PaymentPaid},
		{"past due beats partial", 100_000, 40_000, &past, models.PaymentOverdue},
		{"past due with nothing paid", 100_000, 0, &past, models.PaymentOverdue},
		{"zero net never reads paid", 0, 0, nil, models.PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(tt.net, tt.paid, tt.due, now))
		})
	}
}

func TestReceiptNumberFormatting(t *testing.T) {
	period := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "OR-202508-0001", FormatReceiptNumber(period, 1))
	assert.Equal(t, "OR-202508-0042", FormatReceiptNumber(period, 42))
	assert.Equal(t, "OR-202508-12345", FormatReceiptNumber(period, 12345))
	assert.Equal(t, "OR-202508-", ReceiptPeriodPrefix(period))

	// The sequence restarts when the month rolls over.
	january := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "OR-202601-0001", FormatReceiptNumber(january, 1))
}

func TestInvoiceNumberFormatting(t *testing.T) {
	assert.Equal(t, "INV-2025-0007", FormatInvoiceNumber(2025, 7))
	assert.Equal(t, "INV-2025-", InvoicePeriodPrefix(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}
