package services

import (
	"testing"
	"time"

	"lakeside-academy/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrollment(year string, grade models.GradeLevel, status models.EnrollmentStatus, createdAt time.Time) models.Enrollment {
	return models.Enrollment{
		SchoolYear: year,
		GradeLevel: grade,
		Status:     status,
		CreatedAt:  createdAt,
	}
}

func TestCheckEligibilityNewStudent(t *testing.T) {
	// No history: any rung on the ladder is allowed.
	for _, grade := range []models.GradeLevel{models.Nursery, models.Grade7, models.Grade12} {
		err := CheckEligibility(nil, "2025-2026", grade, EligibilityOverrides{})
		assert.NoError(t, err, "grade %s", grade)
	}
}

func TestCheckEligibilityInvalidGrade(t *testing.T) {
	err := CheckEligibility(nil, "2025-2026", "grade_13", EligibilityOverrides{})
	assert.ErrorIs(t, err, ErrInvalidGrade)
}

func TestCheckEligibilityDuplicateYear(t *testing.T) {
	history := []models.Enrollment{
		enrollment("2025-2026", models.Grade3, models.EnrollmentRejected, time.Now()),
	}
	// A rejected enrollment still occupies the school year.
	err := CheckEligibility(history, "2025-2026", models.Grade3, EligibilityOverrides{})
	assert.ErrorIs(t, err, ErrDuplicateYear)
}

func TestCheckEligibilityPendingExists(t *testing.T) {
	history := []models.Enrollment{
		enrollment("2024-2025", models.Grade3, models.EnrollmentPending, time.Now()),
	}
	err := CheckEligibility(history, "2025-2026", models.Grade3, EligibilityOverrides{})
	assert.ErrorIs(t, err, ErrPendingExists)
}

func TestCheckEligibilityActiveEnrollment(t *testing.T) {
	history := []models.Enrollment{
		enrollment("2024-2025", models.Grade3, models.EnrollmentEnrolled, time.Now()),
	}
	err := CheckEligibility(history, "2025-2026", models.Grade4, EligibilityOverrides{})
	assert.ErrorIs(t, err, ErrActiveEnrollment)
}

func TestCheckEligibilityOrderIsFixed(t *testing.T) {
	// One row trips duplicate-year, pending, and progression at once; the
	// duplicate-year check must win because it runs first.
	history := []models.Enrollment{
		enrollment("2025-2026", models.Grade5, models.EnrollmentPending, time.Now()),
	}
	err := CheckEligibility(history, "2025-2026", models.Grade2, EligibilityOverrides{})
	assert.ErrorIs(t, err, ErrDuplicateYear)
}

func TestCheckEligibilityProgression(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	history := []models.Enrollment{
		enrollment("2024-2025", models.Grade6, models.EnrollmentCompleted, base),
	}

	t.Run("next rung allowed", func(t *testing.T) {
		err := CheckEligibility(history, "2025-2026", models.Grade7, EligibilityOverrides{})
		assert.NoError(t, err)
	})

	t.Run("regression rejected", func(t *testing.T) {
		err := CheckEligibility(history, "2025-2026", models.Grade5, EligibilityOverrides{})
		assert.ErrorIs(t, err, ErrGradeRegression)
	})

	t.Run("retention requires override", func(t *testing.T) {
		err := CheckEligibility(history, "2025-2026", models.Grade6, EligibilityOverrides{})
		assert.ErrorIs(t, err, ErrRetentionDenied)

		err = CheckEligibility(history, "2025-2026", models.Grade6, EligibilityOverrides{AllowRetention: true})
		assert.NoError(t, err)
	})

	t.Run("skip requires override and names the expected grade", func(t *testing.T) {
		err := CheckEligibility(history, "2025-2026", models.Grade9, EligibilityOverrides{})
		require.ErrorIs(t, err, ErrGradeSkip)
		assert.Contains(t, err.Error(), string(models.Grade7))

		err = CheckEligibility(history, "2025-2026", models.Grade9, EligibilityOverrides{AllowAcceleration: true})
		assert.NoError(t, err)
	})
}

func TestCurrentGradeLevelUsesLatestCountedEnrollment(t *testing.T) {
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	history := []models.Enrollment{
		enrollment("2023-2024", models.Grade4, models.EnrollmentCompleted, base),
		enrollment("2024-2025", models.Grade5, models.EnrollmentCompleted, base.AddDate(1, 0, 0)),
		// Rejected rows never contribute a grade.
		enrollment("2025-2026", models.Grade6, models.EnrollmentRejected, base.AddDate(2, 0, 0)),
	}

	grade, ok := CurrentGradeLevel(history)
	require.True(t, ok)
	assert.Equal(t, models.Grade5, grade)
}

func TestCurrentGradeLevelNewStudent(t *testing.T) {
	_, ok := CurrentGradeLevel(nil)
	assert.False(t, ok)

	history := []models.Enrollment{
		enrollment("2024-2025", models.Grade3, models.EnrollmentRejected, time.Now()),
	}
	_, ok = CurrentGradeLevel(history)
	assert.False(t, ok)
	assert.True(t, IsNewStudent(history))
}

func TestEffectiveQuarter(t *testing.T) {
	// New students keep their requested quarter.
	assert.Equal(t, models.ThirdQuarter, EffectiveQuarter(nil, models.ThirdQuarter))

	// Returning students are forced to the first quarter.
	history := []models.Enrollment{
		enrollment("2024-2025", models.Grade3, models.EnrollmentCompleted, time.Now()),
	}
	assert.Equal(t, models.FirstQuarter, EffectiveQuarter(history, models.ThirdQuarter))
}
