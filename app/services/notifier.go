package services

import (
	"database/sql"
	"fmt"
	"log"
	"net/smtp"

	"lakeside-academy/app/config"
)

// Notification event types.
const (
	EventEnrollmentSubmitted = "enrollment_submitted"
	EventEnrollmentApproved  = "enrollment_approved"
	EventEnrollmentRejected  = "enrollment_rejected"
	EventDocumentVerified    = "document_verified"
	EventDocumentRejected    = "document_rejected"
	EventPaymentReceived     = "payment_received"
	EventInvoiceCreated      = "invoice_created"
)

// Notify stores an in-app notification for a user and attempts best-effort
// email delivery. Fire-and-forget: failures are logged, never propagated,
// and the work runs off the request path.
func Notify(db *sql.DB, userID, event, title, message string) {
	go func() {
		query := `INSERT INTO notifications (user_id, event, title, message) VALUES ($1, $2, $3, $4)`
		if _, err := db.Exec(query, userID, event, title, message); err != nil {
			log.Printf("Failed to store notification for user %s: %v", userID, err)
			return
		}
		sendEmail(db, userID, title, message)
	}()
}

// NotifyGuardiansOfStudent fans a notification out to every guardian linked
// to the student.
func NotifyGuardiansOfStudent(db *sql.DB, studentID, event, title, message string) {
	query := `
		SELECT g.user_id
		FROM guardians g
		JOIN guardian_students gs ON gs.guardian_id = g.id
		WHERE gs.student_id = $1 AND g.deleted_at IS NULL
	`
	rows, err := db.Query(query, studentID)
	if err != nil {
		log.Printf("Failed to resolve guardians for student %s: %v", studentID, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			log.Printf("Failed to resolve guardians for student %s: %v", studentID, err)
			return
		}
		Notify(db, userID, event, title, message)
	}
}

func sendEmail(db *sql.DB, userID, subject, body string) {
	smtpCfg := config.AppConfig.SMTP
	if smtpCfg.Username == "" {
		// No mail credentials configured; in-app notification stands alone.
		return
	}

	var email string
	err := db.QueryRow(`SELECT email FROM users WHERE id = $1 AND deleted_at IS NULL`, userID).Scan(&email)
	if err != nil {
		log.Printf("Failed to load user %s for email notification: %v", userID, err)
		return
	}

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", email, subject, body))
	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	auth := smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)

	if err := smtp.SendMail(addr, auth, smtpCfg.From, []string{email}, msg); err != nil {
		log.Printf("Failed to send email to %s: %v", email, err)
	}
}
