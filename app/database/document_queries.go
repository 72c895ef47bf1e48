package database

import (
	"database/sql"
	"errors"
	"fmt"

	"lakeside-academy/app/models"
)

// ErrNotPendingDocument signals a verify/reject attempt on a document that
// already left the pending state.
var ErrNotPendingDocument = errors.New("document has already been verified or rejected")

const documentColumns = `id, student_id, enrollment_id, document_type, file_name, file_path,
	verification_status, verified_by, verified_at, rejection_reason, created_at, updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.Document, error) {
	d := &models.Document{}
	err := row.Scan(
		&d.ID, &d.StudentID, &d.EnrollmentID, &d.DocumentType, &d.FileName, &d.FilePath,
		&d.VerificationStatus, &d.VerifiedBy, &d.VerifiedAt, &d.RejectionReason,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// CreateDocument records an uploaded document in pending status.
func CreateDocument(db *sql.DB, d *models.Document) error {
	query := `INSERT INTO documents
			  (student_id, enrollment_id, document_type, file_name, file_path, verification_status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, 'pending', NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := db.QueryRow(query,
		d.StudentID, d.EnrollmentID, string(d.DocumentType), d.FileName, d.FilePath,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %v", err)
	}
	d.VerificationStatus = models.VerificationPending
	return nil
}

func GetDocumentByID(db *sql.DB, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(db.QueryRow(query, id))
}

// GetDocumentForGuardian fetches a document only when it belongs to one of
// the guardian's students; otherwise sql.ErrNoRows.
func GetDocumentForGuardian(db *sql.DB, id, guardianID string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents d
			  WHERE d.id = $1
			  AND d.student_id IN (SELECT student_id FROM guardian_students WHERE guardian_id = $2)`
	return scanDocument(db.QueryRow(query, id, guardianID))
}

// ListDocuments returns documents, optionally filtered by student, status,
// or guardian scope.
func ListDocuments(db *sql.DB, studentID, status, guardianID string) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	var args []interface{}
	if studentID != "" {
		args = append(args, studentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND verification_status = $%d", len(args))
	}
	if guardianID != "" {
		args = append(args, guardianID)
		query += fmt.Sprintf(
			" AND student_id IN (SELECT student_id FROM guardian_students WHERE guardian_id = $%d)", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// VerifyDocument transitions pending → verified, clearing any prior
// rejection reason.
func VerifyDocument(db *sql.DB, documentID, verifierID string) (*models.Document, error) {
	query := `UPDATE documents
			  SET verification_status = 'verified', verified_by = $1, verified_at = NOW(),
				  rejection_reason = NULL, updated_at = NOW()
			  WHERE id = $2 AND verification_status = 'pending'
			  RETURNING ` + documentColumns

	d, err := scanDocument(db.QueryRow(query, verifierID, documentID))
	if err == sql.ErrNoRows {
		if _, lookupErr := GetDocumentByID(db, documentID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotPendingDocument
	}
	return d, err
}

// RejectDocument transitions pending → rejected with a required reason.
func RejectDocument(db *sql.DB, documentID, verifierID, reason string) (*models.Document, error) {
	query := `UPDATE documents
			  SET verification_status = 'rejected', verified_by = $1, verified_at = NOW(),
				  rejection_reason = $2, updated_at = NOW()
			  WHERE id = $3 AND verification_status = 'pending'
			  RETURNING ` + documentColumns

	d, err := scanDocument(db.QueryRow(query, verifierID, reason, documentID))
	if err == sql.ErrNoRows {
		if _, lookupErr := GetDocumentByID(db, documentID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotPendingDocument
	}
	return d, err
}

// DeleteDocument removes the row and returns the stored file path so the
// caller can attempt file deletion afterwards.
func DeleteDocument(db *sql.DB, documentID string) (filePath string, err error) {
	err = db.QueryRow(
		`DELETE FROM documents WHERE id = $1 RETURNING file_path`, documentID).Scan(&filePath)
	if err != nil {
		return "", err
	}
	return filePath, nil
}
