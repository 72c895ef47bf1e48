package database

import (
	"database/sql"
	"fmt"
	"strings"

	"lakeside-academy/app/models"
)

const feeScheduleColumns = `id, grade_level, school_year, tuition_fee_cents, misc_fee_cents,
	lab_fee_cents, library_fee_cents, sports_fee_cents, is_active, created_at, updated_at`

func scanFeeSchedule(row interface{ Scan(...interface{}) error }) (*models.FeeSchedule, error) {
	fs := &models.FeeSchedule{}
	err := row.Scan(
		&fs.ID, &fs.GradeLevel, &fs.SchoolYear,
		&fs.TuitionFeeCents, &fs.MiscFeeCents, &fs.LabFeeCents,
		&fs.LibraryFeeCents, &fs.SportsFeeCents,
		&fs.IsActive, &fs.CreatedAt, &fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// GetActiveFeeSchedule looks up the active fee schedule for the exact
// (grade_level, school_year) pair. Returns (nil, nil) when absent so callers
// can apply the missing-schedule policy explicitly.
func GetActiveFeeSchedule(db *sql.DB, gradeLevel models.GradeLevel, schoolYear string) (*models.FeeSchedule, error) {
	query := `SELECT ` + feeScheduleColumns + `
			  FROM grade_level_fees
			  WHERE grade_level = $1 AND school_year = $2 AND is_active = true AND deleted_at IS NULL`

	fs, err := scanFeeSchedule(db.QueryRow(query, string(gradeLevel), schoolYear))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func getActiveFeeScheduleTx(tx *sql.Tx, gradeLevel models.GradeLevel, schoolYear string) (*models.FeeSchedule, error) {
	query := `SELECT ` + feeScheduleColumns + `
			  FROM grade_level_fees
			  WHERE grade_level = $1 AND school_year = $2 AND is_active = true AND deleted_at IS NULL`

	fs, err := scanFeeSchedule(tx.QueryRow(query, string(gradeLevel), schoolYear))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func GetFeeScheduleByID(db *sql.DB, id string) (*models.FeeSchedule, error) {
	query := `SELECT ` + feeScheduleColumns + `
			  FROM grade_level_fees WHERE id = $1 AND deleted_at IS NULL`
	return scanFeeSchedule(db.QueryRow(query, id))
}

// ListFeeSchedules returns schedules filtered by school year and/or active
// flag, ordered by year then ladder-independent grade name.
func ListFeeSchedules(db *sql.DB, schoolYear string, activeOnly bool) ([]*models.FeeSchedule, error) {
	query := `SELECT ` + feeScheduleColumns + ` FROM grade_level_fees WHERE deleted_at IS NULL`
	var args []interface{}
	if schoolYear != "" {
		args = append(args, schoolYear)
		query += fmt.Sprintf(" AND school_year = $%d", len(args))
	}
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY school_year DESC, grade_level"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.FeeSchedule
	for rows.Next() {
		fs, err := scanFeeSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, fs)
	}
	return schedules, rows.Err()
}

// ErrFeeScheduleExists signals a uniqueness violation on (grade, year).
var ErrFeeScheduleExists = fmt.Errorf("a fee schedule already exists for this grade level and school year")

// CreateFeeSchedule inserts a fee schedule row. Duplicate (grade, year)
// pairs surface as ErrFeeScheduleExists.
func CreateFeeSchedule(db *sql.DB, fs *models.FeeSchedule) error {
	query := `INSERT INTO grade_level_fees
			  (grade_level, school_year, tuition_fee_cents, misc_fee_cents, lab_fee_cents,
			   library_fee_cents, sports_fee_cents, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := db.QueryRow(query,
		string(fs.GradeLevel), fs.SchoolYear,
		fs.TuitionFeeCents, fs.MiscFeeCents, fs.LabFeeCents,
		fs.LibraryFeeCents, fs.SportsFeeCents, fs.IsActive,
	).Scan(&fs.ID, &fs.CreatedAt, &fs.UpdatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return ErrFeeScheduleExists
		}
		return err
	}
	return nil
}

// UpdateFeeSchedule updates amounts and the active flag. Grade level and
// school year are fixed after creation; duplicate a schedule instead.
func UpdateFeeSchedule(db *sql.DB, fs *models.FeeSchedule) error {
	query := `UPDATE grade_level_fees
			  SET tuition_fee_cents = $1, misc_fee_cents = $2, lab_fee_cents = $3,
				  library_fee_cents = $4, sports_fee_cents = $5, is_active = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted_at IS NULL`

	result, err := db.Exec(query,
		fs.TuitionFeeCents, fs.MiscFeeCents, fs.LabFeeCents,
		fs.LibraryFeeCents, fs.SportsFeeCents, fs.IsActive, fs.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DuplicateFeeSchedule copies an existing schedule to a new school year.
// Fails with ErrFeeScheduleExists when the target (year, grade) row exists.
func DuplicateFeeSchedule(db *sql.DB, sourceID, targetYear string) (*models.FeeSchedule, error) {
	source, err := GetFeeScheduleByID(db, sourceID)
	if err != nil {
		return nil, err
	}

	copied := &models.FeeSchedule{
		GradeLevel:      source.GradeLevel,
		SchoolYear:      targetYear,
		TuitionFeeCents: source.TuitionFeeCents,
		MiscFeeCents:    source.MiscFeeCents,
		LabFeeCents:     source.LabFeeCents,
		LibraryFeeCents: source.LibraryFeeCents,
		SportsFeeCents:  source.SportsFeeCents,
		IsActive:        true,
	}
	if err := CreateFeeSchedule(db, copied); err != nil {
		return nil, err
	}
	return copied, nil
}

// DeleteFeeSchedule soft-deletes a schedule row.
func DeleteFeeSchedule(db *sql.DB, id string) error {
	result, err := db.Exec(
		`UPDATE grade_level_fees SET deleted_at = NOW(), is_active = false WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
