package services

import (
	"testing"

	"lakeside-academy/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grade7Schedule() *models.FeeSchedule {
	return &models.FeeSchedule{
		GradeLevel:      models.Grade7,
		SchoolYear:      "2025-2026",
		TuitionFeeCents: 2_000_000,
		MiscFeeCents:    150_000,
		LabFeeCents:     0,
		LibraryFeeCents: 50_000,
		SportsFeeCents:  30_000,
		IsActive:        true,
	}
}

func TestResolveFeesFromSchedule(t *testing.T) {
	fb, err := ResolveFees(grade7Schedule(), ZeroFill)
	require.NoError(t, err)

	assert.Equal(t, int64(2_000_000), fb.TuitionCents)
	assert.Equal(t, int64(150_000), fb.MiscCents)
	assert.Equal(t, int64(0), fb.LabCents)
	assert.Equal(t, int64(50_000), fb.LibraryCents)
	assert.Equal(t, int64(30_000), fb.SportsCents)
	assert.Equal(t, int64(2_230_000), fb.Total())
}

func TestResolveFeesMissingSchedule(t *testing.T) {
	fb, err := ResolveFees(nil, ZeroFill)
	require.NoError(t, err)
	assert.Equal(t, FeeBreakdown{}, fb)
	assert.Equal(t, int64(0), fb.Total())

	_, err = ResolveFees(nil, Fail)
	assert.ErrorIs(t, err, ErrNoFeeSchedule)
}

func TestFeeBreakdownNet(t *testing.T) {
	fb, err := ResolveFees(grade7Schedule(), Fail)
	require.NoError(t, err)

	assert.Equal(t, int64(2_230_000), fb.Net(0))
	assert.Equal(t, int64(2_130_000), fb.Net(100_000))
}

func TestApplyFeeSnapshot(t *testing.T) {
	fb, err := ResolveFees(grade7Schedule(), Fail)
	require.NoError(t, err)

	e := &models.Enrollment{}
	ApplyFeeSnapshot(e, fb, 0)

	assert.Equal(t, int64(2_230_000), e.TotalAmountCents)
	assert.Equal(t, int64(2_230_000), e.NetAmountCents)
	assert.Equal(t, int64(2_230_000), e.BalanceCents)
	assert.Equal(t, int64(0), e.AmountPaidCents)
}

func TestApplyFeeSnapshotWithDiscount(t *testing.T) {
	fb, err := ResolveFees(grade7Schedule(), Fail)
	require.NoError(t, err)

	e := &models.Enrollment{AmountPaidCents: 230_000}
	ApplyFeeSnapshot(e, fb, 100_000)

	assert.Equal(t, int64(2_230_000), e.TotalAmountCents)
	assert.Equal(t, int64(100_000), e.DiscountCents)
	assert.Equal(t, int64(2_130_000), e.NetAmountCents)
	assert.Equal(t, int64(1_900_000), e.BalanceCents)
}
