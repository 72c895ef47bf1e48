package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeLadderOrder(t *testing.T) {
	require.Len(t, GradeLadder, 14)
	assert.Equal(t, Nursery, GradeLadder[0])
	assert.Equal(t, Kindergarten, GradeLadder[1])
	assert.Equal(t, Grade12, GradeLadder[len(GradeLadder)-1])

	for i, grade := range GradeLadder {
		assert.Equal(t, i, GradeRank(grade))
	}
}

func TestGradeRankUnknown(t *testing.T) {
	assert.Equal(t, -1, GradeRank("grade_13"))
	assert.False(t, IsValidGrade("college"))
	assert.True(t, IsValidGrade(Kindergarten))
}

func TestNextGrade(t *testing.T) {
	next, ok := NextGrade(Nursery)
	require.True(t, ok)
	assert.Equal(t, Kindergarten, next)

	next, ok = NextGrade(Grade6)
	require.True(t, ok)
	assert.Equal(t, Grade7, next)

	_, ok = NextGrade(Grade12)
	assert.False(t, ok)

	_, ok = NextGrade("not_a_grade")
	assert.False(t, ok)
}

func TestIsValidQuarter(t *testing.T) {
	for _, q := range []Quarter{FirstQuarter, SecondQuarter, ThirdQuarter, FourthQuarter} {
		assert.True(t, IsValidQuarter(q))
	}
	assert.False(t, IsValidQuarter("fifth"))
	assert.False(t, IsValidQuarter(""))
}

func TestIsValidDocumentType(t *testing.T) {
	assert.True(t, IsValidDocumentType(BirthCertificate))
	assert.True(t, IsValidDocumentType(OtherDocument))
	assert.False(t, IsValidDocumentType("diploma"))
}

func TestIsSchoolYear(t *testing.T) {
	assert.True(t, IsSchoolYear("2025-2026"))
	assert.True(t, IsSchoolYear("1999-2000"))

	assert.False(t, IsSchoolYear(""))
	assert.False(t, IsSchoolYear("2025"))
	assert.False(t, IsSchoolYear("2025-2027"))
	assert.False(t, IsSchoolYear("2026-2025"))
	assert.False(t, IsSchoolYear("2025/2026"))
	assert.False(t, IsSchoolYear("2025-20267"))
	assert.False(t, IsSchoolYear("abcd-efgh"))
}
