package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotals(t *testing.T) {
	e := &Enrollment{
		TuitionFeeCents: 2_000_000,
		MiscFeeCents:    150_000,
		LabFeeCents:     0,
		LibraryFeeCents: 50_000,
		SportsFeeCents:  30_000,
	}
	e.RecomputeTotals()

	assert.Equal(t, int64(2_230_000), e.TotalAmountCents)
	assert.Equal(t, int64(2_230_000), e.NetAmountCents)
	assert.Equal(t, int64(2_230_000), e.BalanceCents)
}

func TestRecomputeTotalsWithDiscountAndPayments(t *testing.T) {
	e := &Enrollment{
		TuitionFeeCents: 1_000_000,
		MiscFeeCents:    100_000,
		DiscountCents:   50_000,
		AmountPaidCents: 500_000,
	}
	e.RecomputeTotals()

	assert.Equal(t, int64(1_100_000), e.TotalAmountCents)
	assert.Equal(t, int64(1_050_000), e.NetAmountCents)
	assert.Equal(t, int64(550_000), e.BalanceCents)
}

func TestEnrollmentStateHelpers(t *testing.T) {
	e := &Enrollment{Status: EnrollmentPending}
	assert.True(t, e.IsPending())
	assert.False(t, e.IsActive())

	e.Status = EnrollmentEnrolled
	assert.False(t, e.IsPending())
	assert.True(t, e.IsActive())
}

func TestInvoiceBalanceCents(t *testing.T) {
	inv := &Invoice{TotalAmountCents: 2_230_000, PaidAmountCents: 1_000_000}
	assert.Equal(t, int64(1_230_000), inv.BalanceCents())
}

func TestFeeScheduleTotalCents(t *testing.T) {
	fs := &FeeSchedule{
		TuitionFeeCents: 2_000_000,
		MiscFeeCents:    150_000,
		LibraryFeeCents: 50_000,
		SportsFeeCents:  30_000,
	}
	assert.Equal(t, int64(2_230_000), fs.TotalCents())
}
