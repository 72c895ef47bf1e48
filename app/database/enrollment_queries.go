package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lakeside-academy/app/models"
	"lakeside-academy/app/services"
)

// Enrollment state-transition errors.
var (
	ErrNotPending       = errors.New("enrollment is not pending")
	ErrNotEnrolled      = errors.New("enrollment is not active")
	ErrUnpaidCompletion = errors.New("cannot complete enrollment with unpaid fees")
	ErrNotOwnedByCaller = errors.New("enrollment does not belong to this guardian")
	ErrEditNotPermitted = errors.New("only pending enrollments can be modified")
)

const enrollmentColumns = `id, student_id, guardian_id, school_year, quarter, grade_level, status,
	tuition_fee_cents, misc_fee_cents, lab_fee_cents, library_fee_cents, sports_fee_cents,
	total_amount_cents, discount_cents, net_amount_cents, amount_paid_cents, balance_cents,
	payment_status, approved_at, approved_by, remarks, created_at, updated_at`

func scanEnrollment(row interface{ Scan(...interface{}) error }) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	err := row.Scan(
		&e.ID, &e.StudentID, &e.GuardianID, &e.SchoolYear, &e.Quarter, &e.GradeLevel, &e.Status,
		&e.TuitionFeeCents, &e.MiscFeeCents, &e.LabFeeCents, &e.LibraryFeeCents, &e.SportsFeeCents,
		&e.TotalAmountCents, &e.DiscountCents, &e.NetAmountCents, &e.AmountPaidCents, &e.BalanceCents,
		&e.PaymentStatus, &e.ApprovedAt, &e.ApprovedBy, &e.Remarks, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func GetEnrollmentByID(db *sql.DB, id string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1 AND deleted_at IS NULL`
	return scanEnrollment(db.QueryRow(query, id))
}

// GetEnrollmentsByStudent returns every non-deleted enrollment of a student,
// newest first. This is the history fed to the eligibility checker.
func GetEnrollmentsByStudent(db *sql.DB, studentID string) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + `
			  FROM enrollments WHERE student_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at DESC`
	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *e)
	}
	return history, rows.Err()
}

func getEnrollmentsByStudentTx(tx *sql.Tx, studentID string) ([]models.Enrollment, error) {
	// FOR UPDATE serializes concurrent enrollment creation per student, so
	// a racing request cannot pass the eligibility checks in parallel.
	query := `SELECT ` + enrollmentColumns + `
			  FROM enrollments WHERE student_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at DESC
			  FOR UPDATE`
	rows, err := tx.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *e)
	}
	return history, rows.Err()
}

// CreateEnrollment runs the whole enrollment submission atomically:
// eligibility re-check against the student's locked history, fee snapshot
// from the active schedule (zero-filled when absent), row insert in pending
// status. The partial unique indexes on enrollments back these checks
// against concurrent writers.
func CreateEnrollment(db *sql.DB, e *models.Enrollment, ov services.EligibilityOverrides) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	history, err := getEnrollmentsByStudentTx(tx, e.StudentID)
	if err != nil {
		return fmt.Errorf("failed to load enrollment history: %v", err)
	}

	if err := services.CheckEligibility(history, e.SchoolYear, e.GradeLevel, ov); err != nil {
		return err
	}
	e.Quarter = services.EffectiveQuarter(history, e.Quarter)

	fs, err := getActiveFeeScheduleTx(tx, e.GradeLevel, e.SchoolYear)
	if err != nil {
		return fmt.Errorf("failed to resolve fee schedule: %v", err)
	}
	breakdown, _ := services.ResolveFees(fs, services.ZeroFill)
	services.ApplyFeeSnapshot(e, breakdown, e.DiscountCents)

	e.Status = models.EnrollmentPending
	e.PaymentStatus = models.PaymentPending
	e.AmountPaidCents = 0
	e.RecomputeTotals()

	query := `INSERT INTO enrollments
			  (student_id, guardian_id, school_year, quarter, grade_level, status,
			   tuition_fee_cents, misc_fee_cents, lab_fee_cents, library_fee_cents, sports_fee_cents,
			   total_amount_cents, discount_cents, net_amount_cents, amount_paid_cents, balance_cents,
			   payment_status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = tx.QueryRow(query,
		e.StudentID, e.GuardianID, e.SchoolYear, string(e.Quarter), string(e.GradeLevel), string(e.Status),
		e.TuitionFeeCents, e.MiscFeeCents, e.LabFeeCents, e.LibraryFeeCents, e.SportsFeeCents,
		e.TotalAmountCents, e.DiscountCents, e.NetAmountCents, e.AmountPaidCents, e.BalanceCents,
		string(e.PaymentStatus),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "idx_enrollments_student_year") {
			return services.ErrDuplicateYear
		}
		if strings.Contains(msg, "idx_enrollments_one_pending") {
			return services.ErrPendingExists
		}
		if strings.Contains(msg, "idx_enrollments_one_enrolled") {
			return services.ErrActiveEnrollment
		}
		return fmt.Errorf("failed to insert enrollment: %v", err)
	}

	return tx.Commit()
}

// ApproveEnrollment transitions pending → enrolled. A non-pending row leaves
// the record untouched and returns ErrNotPending. The status flip and the
// denormalized student grade update commit together or not at all.
func ApproveEnrollment(db *sql.DB, enrollmentID, approverID string, remarks *string) (*models.Enrollment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `UPDATE enrollments
			  SET status = 'enrolled', approved_at = NOW(), approved_by = $1,
				  remarks = COALESCE($2, remarks), updated_at = NOW()
			  WHERE id = $3 AND status = 'pending' AND deleted_at IS NULL
			  RETURNING ` + enrollmentColumns

	e, err := scanEnrollment(tx.QueryRow(query, approverID, remarks, enrollmentID))
	if err == sql.ErrNoRows {
		if _, lookupErr := GetEnrollmentByID(db, enrollmentID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, err
	}

	// Denormalized current grade follows the approved enrollment.
	if _, err := tx.Exec(`UPDATE students SET grade_level = $1, updated_at = NOW() WHERE id = $2`,
		string(e.GradeLevel), e.StudentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

// RejectEnrollment transitions pending → rejected with a required reason.
func RejectEnrollment(db *sql.DB, enrollmentID, approverID, reason string) (*models.Enrollment, error) {
	query := `UPDATE enrollments
			  SET status = 'rejected', approved_at = NOW(), approved_by = $1,
				  remarks = $2, updated_at = NOW()
			  WHERE id = $3 AND status = 'pending' AND deleted_at IS NULL
			  RETURNING ` + enrollmentColumns

	e, err := scanEnrollment(db.QueryRow(query, approverID, reason, enrollmentID))
	if err == sql.ErrNoRows {
		if _, lookupErr := GetEnrollmentByID(db, enrollmentID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotPending
	}
	return e, err
}

// BulkApproveEnrollments applies the approve transition to each ID, counting
// only rows that were pending. Non-pending rows are skipped silently.
func BulkApproveEnrollments(db *sql.DB, enrollmentIDs []string, approverID string) (int, error) {
	approved := 0
	for _, id := range enrollmentIDs {
		_, err := ApproveEnrollment(db, id, approverID, nil)
		if err == ErrNotPending || err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return approved, err
		}
		approved++
	}
	return approved, nil
}

// CompleteEnrollment transitions enrolled → completed, valid only when the
// enrollment is fully paid.
func CompleteEnrollment(db *sql.DB, enrollmentID string) (*models.Enrollment, error) {
	e, err := GetEnrollmentByID(db, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Status != models.EnrollmentEnrolled {
		return nil, ErrNotEnrolled
	}
	if e.PaymentStatus != models.PaymentPaid {
		return nil, ErrUnpaidCompletion
	}

	query := `UPDATE enrollments SET status = 'completed', updated_at = NOW()
			  WHERE id = $1 AND status = 'enrolled' AND payment_status = 'paid' AND deleted_at IS NULL
			  RETURNING ` + enrollmentColumns
	updated, err := scanEnrollment(db.QueryRow(query, enrollmentID))
	if err == sql.ErrNoRows {
		return nil, ErrUnpaidCompletion
	}
	return updated, err
}

// UpdatePendingEnrollment lets the owning guardian change grade_level and
// quarter while the application is still pending. The new values are
// re-validated against the eligibility rules inside the transaction.
func UpdatePendingEnrollment(db *sql.DB, enrollmentID, guardianID string, gradeLevel models.GradeLevel, quarter models.Quarter) (*models.Enrollment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + enrollmentColumns + ` FROM enrollments
			  WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	e, err := scanEnrollment(tx.QueryRow(query, enrollmentID))
	if err != nil {
		return nil, err
	}
	if e.GuardianID == nil || *e.GuardianID != guardianID {
		return nil, ErrNotOwnedByCaller
	}
	if e.Status != models.EnrollmentPending {
		return nil, ErrEditNotPermitted
	}

	history, err := getEnrollmentsByStudentTx(tx, e.StudentID)
	if err != nil {
		return nil, err
	}
	// Drop the row being edited from the history it is validated against.
	others := history[:0]
	for i := range history {
		if history[i].ID != e.ID {
			others = append(others, history[i])
		}
	}
	if err := services.CheckEligibility(others, e.SchoolYear, gradeLevel, services.EligibilityOverrides{}); err != nil {
		return nil, err
	}
	quarter = services.EffectiveQuarter(others, quarter)

	// Grade changes re-snapshot fees from the schedule of the new grade.
	fs, err := getActiveFeeScheduleTx(tx, gradeLevel, e.SchoolYear)
	if err != nil {
		return nil, err
	}
	breakdown, _ := services.ResolveFees(fs, services.ZeroFill)
	services.ApplyFeeSnapshot(e, breakdown, e.DiscountCents)

	update := `UPDATE enrollments
			   SET grade_level = $1, quarter = $2,
				   tuition_fee_cents = $3, misc_fee_cents = $4, lab_fee_cents = $5,
				   library_fee_cents = $6, sports_fee_cents = $7,
				   total_amount_cents = $8, net_amount_cents = $9, balance_cents = $10,
				   updated_at = NOW()
			   WHERE id = $11
			   RETURNING ` + enrollmentColumns
	updated, err := scanEnrollment(tx.QueryRow(update,
		string(gradeLevel), string(quarter),
		e.TuitionFeeCents, e.MiscFeeCents, e.LabFeeCents, e.LibraryFeeCents, e.SportsFeeCents,
		e.TotalAmountCents, e.NetAmountCents, e.BalanceCents, enrollmentID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelPendingEnrollment hard-deletes a pending enrollment on behalf of the
// owning guardian.
func CancelPendingEnrollment(db *sql.DB, enrollmentID, guardianID string) error {
	e, err := GetEnrollmentByID(db, enrollmentID)
	if err != nil {
		return err
	}
	if e.GuardianID == nil || *e.GuardianID != guardianID {
		return ErrNotOwnedByCaller
	}
	if e.Status != models.EnrollmentPending {
		return ErrEditNotPermitted
	}

	result, err := db.Exec(`DELETE FROM enrollments WHERE id = $1 AND status = 'pending'`, enrollmentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return ErrEditNotPermitted
	}
	return nil
}

// EnrollmentFilters represents list filtering for registrar views.
type EnrollmentFilters struct {
	SchoolYear    string
	Status        string
	PaymentStatus string
	GradeLevel    string
	GuardianID    string
	Search        string
	Limit         int
	Offset        int
}

// ListEnrollments returns joined summary rows plus the unpaginated total.
// When GuardianID is set, only rows of that guardian's students are visible.
func ListEnrollments(db *sql.DB, filters EnrollmentFilters) ([]models.EnrollmentSummary, int, error) {
	base := `FROM enrollments e
			 JOIN students s ON s.id = e.student_id
			 WHERE e.deleted_at IS NULL AND s.deleted_at IS NULL`

	var conditions []string
	var args []interface{}
	argIndex := 1

	addCond := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filters.SchoolYear != "" {
		addCond("e.school_year = $%d", filters.SchoolYear)
	}
	if filters.Status != "" {
		addCond("e.status = $%d", filters.Status)
	}
	if filters.PaymentStatus != "" {
		addCond("e.payment_status = $%d", filters.PaymentStatus)
	}
	if filters.GradeLevel != "" {
		addCond("e.grade_level = $%d", filters.GradeLevel)
	}
	if filters.GuardianID != "" {
		addCond(`e.student_id IN (SELECT student_id FROM guardian_students WHERE guardian_id = $%d)`, filters.GuardianID)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(s.first_name || ' ' || s.last_name) LIKE $%d OR LOWER(s.student_number) LIKE $%d)`,
			argIndex, argIndex+1))
		args = append(args, pattern, pattern)
		argIndex += 2
	}

	where := base
	for _, cond := range conditions {
		where += " AND " + cond
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT e.id, s.first_name || ' ' || s.last_name, s.student_number,
			  e.school_year, e.grade_level, e.status, e.payment_status, e.balance_cents, e.created_at ` +
		where + " ORDER BY e.created_at DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []models.EnrollmentSummary
	for rows.Next() {
		var s models.EnrollmentSummary
		if err := rows.Scan(
			&s.ID, &s.StudentName, &s.StudentNumber, &s.SchoolYear,
			&s.GradeLevel, &s.Status, &s.PaymentStatus, &s.BalanceCents, &s.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}
