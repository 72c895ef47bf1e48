package services

import (
	"errors"
	"fmt"

	"lakeside-academy/app/models"
)

// Eligibility errors, surfaced to the caller as user-facing messages.
var (
	ErrDuplicateYear    = errors.New("an enrollment already exists for this student and school year")
	ErrPendingExists    = errors.New("student already has a pending enrollment awaiting review")
	ErrActiveEnrollment = errors.New("student is currently enrolled and cannot submit a new enrollment")
	ErrInvalidGrade     = errors.New("requested grade level is not on the grade ladder")
	ErrGradeRegression  = errors.New("requested grade level is lower than the student's current grade")
	ErrGradeSkip        = errors.New("requested grade level skips ahead of the expected next grade")
	ErrRetentionDenied  = errors.New("repeating the current grade requires registrar approval")
)

// EligibilityOverrides are registrar-only relaxations of the strict
// next-rung progression rule.
type EligibilityOverrides struct {
	// AllowRetention permits re-enrolling at the student's current grade.
	AllowRetention bool
	// AllowAcceleration permits enrolling above the expected next grade.
	AllowAcceleration bool
}

// CurrentGradeLevel derives a student's effective grade from enrollment
// history: the grade of the most recent enrollment with status enrolled or
// completed. ok is false for a new student with no such history.
func CurrentGradeLevel(history []models.Enrollment) (grade models.GradeLevel, ok bool) {
	var latest *models.Enrollment
	for i := range history {
		e := &history[i]
		if e.Status != models.EnrollmentEnrolled && e.Status != models.EnrollmentCompleted {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return "", false
	}
	return latest.GradeLevel, true
}

// IsNewStudent reports whether the student has no enrolled/completed history.
func IsNewStudent(history []models.Enrollment) bool {
	_, ok := CurrentGradeLevel(history)
	return !ok
}

// EffectiveQuarter returns the quarter an enrollment will actually start in.
// New students choose freely; returning students are forced to First
// regardless of the requested value.
func EffectiveQuarter(history []models.Enrollment, requested models.Quarter) models.Quarter {
	if IsNewStudent(history) {
		return requested
	}
	return models.FirstQuarter
}

// CheckEligibility decides whether an enrollment may be created for the
// student. history must contain every non-deleted enrollment of the student,
// any status, any year. Checks run in a fixed order and the first failure is
// returned; the caller creates no row on failure.
//
// Order: duplicate-year, pending-exists, active-enrollment-exists,
// grade-progression.
func CheckEligibility(history []models.Enrollment, schoolYear string, requestedGrade models.GradeLevel, ov EligibilityOverrides) error {
	for i := range history {
		if history[i].SchoolYear == schoolYear {
			return ErrDuplicateYear
		}
	}

	for i := range history {
		if history[i].Status == models.EnrollmentPending {
			return ErrPendingExists
		}
	}

	for i := range history {
		if history[i].Status == models.EnrollmentEnrolled {
			return ErrActiveEnrollment
		}
	}

	return checkProgression(history, requestedGrade, ov)
}

func checkProgression(history []models.Enrollment, requested models.GradeLevel, ov EligibilityOverrides) error {
	if !models.IsValidGrade(requested) {
		return ErrInvalidGrade
	}

	current, returning := CurrentGradeLevel(history)
	if !returning {
		// New students may start at any rung on the ladder.
		return nil
	}

	currentRank := models.GradeRank(current)
	requestedRank := models.GradeRank(requested)

	switch {
	case requestedRank < currentRank:
		return ErrGradeRegression
	case requestedRank == currentRank:
		if !ov.AllowRetention {
			return ErrRetentionDenied
		}
		return nil
	case requestedRank == currentRank+1:
		return nil
	default:
		if !ov.AllowAcceleration {
			next, _ := models.NextGrade(current)
			return fmt.Errorf("%w (expected %s)", ErrGradeSkip, next)
		}
		return nil
	}
}
