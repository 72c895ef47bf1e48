package database

import (
	"database/sql"
	"fmt"
	"strings"

	"lakeside-academy/app/models"
)

// CreateGuardian inserts a guardian profile for an existing user account.
func CreateGuardian(db *sql.DB, guardian *models.Guardian) error {
	query := `INSERT INTO guardians (user_id, phone, address, occupation, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := db.QueryRow(query, guardian.UserID, guardian.Phone, guardian.Address, guardian.Occupation).Scan(
		&guardian.ID, &guardian.CreatedAt, &guardian.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert guardian: %v", err)
	}
	return nil
}

// GetGuardianByUserID resolves the guardian profile behind an authenticated
// user, or sql.ErrNoRows when the user has no guardian profile.
func GetGuardianByUserID(db *sql.DB, userID string) (*models.Guardian, error) {
	guardian := &models.Guardian{User: &models.User{}}
	query := `SELECT g.id, g.user_id, g.phone, g.address, g.occupation, g.created_at, g.updated_at,
			  u.email, u.first_name, u.last_name
			  FROM guardians g
			  JOIN users u ON u.id = g.user_id
			  WHERE g.user_id = $1 AND g.deleted_at IS NULL`

	err := db.QueryRow(query, userID).Scan(
		&guardian.ID, &guardian.UserID, &guardian.Phone, &guardian.Address, &guardian.Occupation,
		&guardian.CreatedAt, &guardian.UpdatedAt,
		&guardian.User.Email, &guardian.User.FirstName, &guardian.User.LastName,
	)
	if err != nil {
		return nil, err
	}
	guardian.User.ID = guardian.UserID
	return guardian, nil
}

func GetGuardianByID(db *sql.DB, guardianID string) (*models.Guardian, error) {
	guardian := &models.Guardian{User: &models.User{}}
	query := `SELECT g.id, g.user_id, g.phone, g.address, g.occupation, g.created_at, g.updated_at,
			  u.email, u.first_name, u.last_name
			  FROM guardians g
			  JOIN users u ON u.id = g.user_id
			  WHERE g.id = $1 AND g.deleted_at IS NULL`

	err := db.QueryRow(query, guardianID).Scan(
		&guardian.ID, &guardian.UserID, &guardian.Phone, &guardian.Address, &guardian.Occupation,
		&guardian.CreatedAt, &guardian.UpdatedAt,
		&guardian.User.Email, &guardian.User.FirstName, &guardian.User.LastName,
	)
	if err != nil {
		return nil, err
	}
	guardian.User.ID = guardian.UserID
	return guardian, nil
}

// LinkGuardianToStudent attaches a guardian to a student. Linking twice is a
// no-op except for updating the join attributes.
func LinkGuardianToStudent(db *sql.DB, guardianID, studentID string, relationship models.RelationshipType, isPrimary bool) error {
	query := `INSERT INTO guardian_students (guardian_id, student_id, relationship_type, is_primary_contact)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (guardian_id, student_id)
			  DO UPDATE SET relationship_type = $3, is_primary_contact = $4`
	_, err := db.Exec(query, guardianID, studentID, string(relationship), isPrimary)
	return err
}

// UnlinkGuardianFromStudent removes a guardian-student link.
func UnlinkGuardianFromStudent(db *sql.DB, guardianID, studentID string) error {
	result, err := db.Exec(
		`DELETE FROM guardian_students WHERE guardian_id = $1 AND student_id = $2`,
		guardianID, studentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsGuardianOf reports whether the guardian is linked to the student. Used
// for row-level scoping: callers translate "no" into a 404.
func IsGuardianOf(db *sql.DB, guardianID, studentID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM guardian_students WHERE guardian_id = $1 AND student_id = $2)`
	err := db.QueryRow(query, guardianID, studentID).Scan(&exists)
	return exists, err
}

// GetStudentsForGuardian returns all students linked to a guardian.
func GetStudentsForGuardian(db *sql.DB, guardianID string) ([]*models.Student, error) {
	query := `
		SELECT s.id, s.student_number, s.first_name, s.last_name, s.birthdate, s.gender,
			   s.grade_level, s.is_active, s.created_at, s.updated_at
		FROM students s
		JOIN guardian_students gs ON gs.student_id = s.id
		WHERE gs.guardian_id = $1 AND s.deleted_at IS NULL
		ORDER BY s.first_name, s.last_name
	`
	rows, err := db.Query(query, guardianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		var gradeLevel sql.NullString
		if err := rows.Scan(
			&student.ID, &student.StudentNumber, &student.FirstName, &student.LastName,
			&student.Birthdate, &student.Gender, &gradeLevel,
			&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if gradeLevel.Valid {
			student.GradeLevel = models.GradeLevel(gradeLevel.String)
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

// ListGuardians returns all guardians, optionally filtered by a search
// term against the linked user's name or email.
func ListGuardians(db *sql.DB, search string) ([]*models.Guardian, error) {
	query := `
		SELECT g.id, g.user_id, g.phone, g.address, g.occupation, g.created_at, g.updated_at,
			   u.email, u.first_name, u.last_name
		FROM guardians g
		JOIN users u ON u.id = g.user_id
		WHERE g.deleted_at IS NULL`
	var args []interface{}
	if search != "" {
		query += ` AND (LOWER(u.email) LIKE $1 OR LOWER(u.first_name || ' ' || u.last_name) LIKE $1)`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY u.first_name, u.last_name`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guardians []*models.Guardian
	for rows.Next() {
		guardian := &models.Guardian{User: &models.User{}}
		if err := rows.Scan(
			&guardian.ID, &guardian.UserID, &guardian.Phone, &guardian.Address, &guardian.Occupation,
			&guardian.CreatedAt, &guardian.UpdatedAt,
			&guardian.User.Email, &guardian.User.FirstName, &guardian.User.LastName,
		); err != nil {
			return nil, err
		}
		guardian.User.ID = guardian.UserID
		guardians = append(guardians, guardian)
	}
	return guardians, rows.Err()
}

// UpdateGuardianProfile updates the guardian-owned contact fields.
func UpdateGuardianProfile(db *sql.DB, guardian *models.Guardian) error {
	result, err := db.Exec(
		`UPDATE guardians SET phone = $1, address = $2, occupation = $3, updated_at = NOW()
		 WHERE id = $4 AND deleted_at IS NULL`,
		guardian.Phone, guardian.Address, guardian.Occupation, guardian.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
