package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lakeside-academy/app/models"
)

// StudentFilters represents filtering options for students
type StudentFilters struct {
	Search     string
	Status     string
	GradeLevel string
	Gender     string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// GenerateStudentNumber produces the next immutable student identifier for
// the given year, formatted LSA-<YYYY>-<NNNN>. The sequence restarts each
// calendar year.
func GenerateStudentNumber(db *sql.DB, year int) (string, error) {
	prefix := fmt.Sprintf("LSA-%d-", year)

	var maxSeq sql.NullInt64
	query := `SELECT MAX(CAST(SUBSTRING(student_number FROM $1) AS INTEGER))
			  FROM students WHERE student_number LIKE $2`
	err := db.QueryRow(query, len(prefix)+1, prefix+"%").Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("failed to scan student number sequence: %v", err)
	}

	next := int64(1)
	if maxSeq.Valid {
		next = maxSeq.Int64 + 1
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// CreateStudent inserts a student row. The caller must have generated the
// student number already.
func CreateStudent(db *sql.DB, student *models.Student) error {
	query := `INSERT INTO students (student_number, first_name, last_name, birthdate, gender, grade_level, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := db.QueryRow(query,
		student.StudentNumber, student.FirstName, student.LastName,
		student.Birthdate, string(student.Gender), string(student.GradeLevel),
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert student: %v", err)
	}
	student.IsActive = true
	return nil
}

func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	student := &models.Student{}
	var gradeLevel sql.NullString
	query := `SELECT id, student_number, first_name, last_name, birthdate, gender, grade_level,
			  is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.StudentNumber, &student.FirstName, &student.LastName,
		&student.Birthdate, &student.Gender, &gradeLevel,
		&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if gradeLevel.Valid {
		student.GradeLevel = models.GradeLevel(gradeLevel.String)
	}
	return student, nil
}

// GetStudentsWithFilters returns students matching the filters plus the
// unpaginated total count.
func GetStudentsWithFilters(db *sql.DB, filters StudentFilters) ([]*models.Student, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	base := `FROM students WHERE deleted_at IS NULL`

	if filters.Status == "active" {
		conditions = append(conditions, "is_active = true")
	} else if filters.Status == "inactive" {
		conditions = append(conditions, "is_active = false")
	}
	if filters.GradeLevel != "" {
		conditions = append(conditions, fmt.Sprintf("grade_level = $%d", argIndex))
		args = append(args, filters.GradeLevel)
		argIndex++
	}
	if filters.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("gender = $%d", argIndex))
		args = append(args, filters.Gender)
		argIndex++
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(student_number) LIKE $%d OR LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d
			  OR LOWER(first_name || ' ' || last_name) LIKE $%d)`,
			argIndex, argIndex+1, argIndex+2, argIndex+3))
		args = append(args, pattern, pattern, pattern, pattern)
		argIndex += 4
	}

	where := base
	for _, cond := range conditions {
		where += " AND " + cond
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy := "student_number"
	switch filters.SortBy {
	case "name":
		sortBy = "first_name, last_name"
	case "grade_level":
		sortBy = "grade_level"
	case "created_at":
		sortBy = "created_at"
	}
	order := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		order = "DESC"
	}

	query := fmt.Sprintf(`SELECT id, student_number, first_name, last_name, birthdate, gender, grade_level,
			is_active, created_at, updated_at %s ORDER BY %s %s`, where, sortBy, order)
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
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
			return nil, 0, err
		}
		if gradeLevel.Valid {
			student.GradeLevel = models.GradeLevel(gradeLevel.String)
		}
		students = append(students, student)
	}
	return students, total, rows.Err()
}

// UpdateStudent updates the mutable fields of a student. The student number
// is immutable and never written after creation.
func UpdateStudent(db *sql.DB, student *models.Student) error {
	query := `UPDATE students
			  SET first_name = $1, last_name = $2, birthdate = $3, gender = $4,
				  grade_level = NULLIF($5, ''), is_active = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted_at IS NULL`

	result, err := db.Exec(query,
		student.FirstName, student.LastName, student.Birthdate,
		string(student.Gender), string(student.GradeLevel), student.IsActive, student.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteStudent soft-deletes a student row.
func DeleteStudent(db *sql.DB, studentID string) error {
	query := `UPDATE students SET deleted_at = NOW(), is_active = false WHERE id = $1 AND deleted_at IS NULL`
	result, err := db.Exec(query, studentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetStudentGuardians returns every guardian linked to a student with the
// join attributes.
func GetStudentGuardians(db *sql.DB, studentID string) ([]*models.GuardianLink, error) {
	query := `
		SELECT g.id, g.user_id, g.phone, g.address, gs.relationship_type, gs.is_primary_contact,
			   u.email, u.first_name, u.last_name
		FROM guardian_students gs
		JOIN guardians g ON g.id = gs.guardian_id AND g.deleted_at IS NULL
		JOIN users u ON u.id = g.user_id
		WHERE gs.student_id = $1
		ORDER BY gs.is_primary_contact DESC, u.first_name
	`
	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.GuardianLink
	for rows.Next() {
		link := &models.GuardianLink{Guardian: models.Guardian{User: &models.User{}}}
		if err := rows.Scan(
			&link.Guardian.ID, &link.Guardian.UserID, &link.Guardian.Phone, &link.Guardian.Address,
			&link.RelationshipType, &link.IsPrimaryContact,
			&link.Guardian.User.Email, &link.Guardian.User.FirstName, &link.Guardian.User.LastName,
		); err != nil {
			return nil, err
		}
		link.Guardian.User.ID = link.Guardian.UserID
		links = append(links, link)
	}
	return links, rows.Err()
}

// GetStudentsStats returns headline counts for the students page.
func GetStudentsStats(db *sql.DB) (map[string]interface{}, error) {
	var total, active, enrolled int
	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE is_active),
			   COUNT(*) FILTER (WHERE EXISTS (
				   SELECT 1 FROM enrollments e
				   WHERE e.student_id = students.id AND e.status = 'enrolled' AND e.deleted_at IS NULL))
		FROM students WHERE deleted_at IS NULL
	`
	if err := db.QueryRow(query).Scan(&total, &active, &enrolled); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_students":    total,
		"active_students":   active,
		"enrolled_students": enrolled,
		"generated_at":      time.Now(),
	}, nil
}
