package services

import (
	"errors"

	"lakeside-academy/app/models"
)

// MissingFeeScheduleAction names the policy applied when no active fee
// schedule exists for a (grade, year) pair at enrollment time.
type MissingFeeScheduleAction int

const (
	// ZeroFill creates the enrollment with every fee line at zero; an
	// admin fixes the amounts up later. This keeps missing billing data
	// from blocking enrollment and is the default.
	ZeroFill MissingFeeScheduleAction = iota
	// Fail rejects the operation instead. Used by admin tooling that
	// must not silently produce zero-fee enrollments.
	Fail
)

// ErrNoFeeSchedule is returned by ResolveFees under the Fail policy.
var ErrNoFeeSchedule = errors.New("no active fee schedule for this grade level and school year")

// FeeBreakdown is a snapshot of fee lines in integer cents.
type FeeBreakdown struct {
	TuitionCents int64 `json:"tuition_cents"`
	MiscCents    int64 `json:"misc_cents"`
	LabCents     int64 `json:"lab_cents"`
	LibraryCents int64 `json:"library_cents"`
	SportsCents  int64 `json:"sports_cents"`
}

// Total sums every fee line.
func (fb FeeBreakdown) Total() int64 {
	return fb.TuitionCents + fb.MiscCents + fb.LabCents + fb.LibraryCents + fb.SportsCents
}

// Net is the total minus a discount.
func (fb FeeBreakdown) Net(discountCents int64) int64 {
	return fb.Total() - discountCents
}

// ResolveFees converts a fee schedule row into a breakdown. fs may be nil
// (no active row found); the action decides whether that zero-fills or
// fails.
func ResolveFees(fs *models.FeeSchedule, action MissingFeeScheduleAction) (FeeBreakdown, error) {
	if fs == nil {
		if action == Fail {
			return FeeBreakdown{}, ErrNoFeeSchedule
		}
		return FeeBreakdown{}, nil
	}
	return FeeBreakdown{
		TuitionCents: fs.TuitionFeeCents,
		MiscCents:    fs.MiscFeeCents,
		LabCents:     fs.LabFeeCents,
		LibraryCents: fs.LibraryFeeCents,
		SportsCents:  fs.SportsFeeCents,
	}, nil
}

// ApplyFeeSnapshot writes a breakdown onto an enrollment and re-derives the
// dependent totals. Payment fields are left untouched.
func ApplyFeeSnapshot(e *models.Enrollment, fb FeeBreakdown, discountCents int64) {
	e.TuitionFeeCents = fb.TuitionCents
	e.MiscFeeCents = fb.MiscCents
	e.LabFeeCents = fb.LabCents
	e.LibraryFeeCents = fb.LibraryCents
	e.SportsFeeCents = fb.SportsCents
	e.DiscountCents = discountCents
	e.RecomputeTotals()
}
