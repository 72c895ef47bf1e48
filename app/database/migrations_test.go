package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func statementFor(t *testing.T, fragment string) string {
	t.Helper()
	for _, stmt := range migrationStatements {
		if strings.Contains(stmt, fragment) {
			return stmt
		}
	}
	t.Fatalf("no migration statement mentions %q", fragment)
	return ""
}

func TestFeeScheduleUniquenessIgnoresSoftDeletedRows(t *testing.T) {
	// A table-level UNIQUE would keep counting soft-deleted rows, making a
	// deleted (grade, year) price list impossible to recreate.
	table := statementFor(t, "CREATE TABLE IF NOT EXISTS grade_level_fees")
	assert.NotContains(t, table, "UNIQUE (grade_level, school_year)")

	index := statementFor(t, "idx_fee_schedules_grade_year")
	assert.Contains(t, index, "ON grade_level_fees (grade_level, school_year)")
	assert.Contains(t, index, "WHERE deleted_at IS NULL")
}

func TestDocumentLinkDoesNotBlockEnrollmentCancellation(t *testing.T) {
	// Cancelling a pending enrollment hard-deletes the row. Documents
	// tagged with it must unlink rather than veto the delete.
	table := statementFor(t, "CREATE TABLE IF NOT EXISTS documents")
	assert.Contains(t, table, "enrollment_id UUID REFERENCES enrollments(id) ON DELETE SET NULL")
}

func TestMigrationStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range migrationStatements {
		assert.Contains(t, stmt, "IF NOT EXISTS", "statement must be safe to rerun at boot: %s", stmt)
	}
}
