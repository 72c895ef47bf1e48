package database

import (
	"database/sql"

	"lakeside-academy/app/models"
)

// GetNotificationsForUser returns a user's notifications, newest first.
// unreadOnly narrows to rows not yet marked read.
func GetNotificationsForUser(db *sql.DB, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := `SELECT id, user_id, event, title, message, read_at, created_at
			  FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Event, &n.Title, &n.Message, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead stamps a single notification. Scoped to the owner so
// one user cannot mark another's rows.
func MarkNotificationRead(db *sql.DB, notificationID, userID string) error {
	result, err := db.Exec(
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		notificationID, userID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllNotificationsRead stamps every unread notification of a user.
func MarkAllNotificationsRead(db *sql.DB, userID string) (int64, error) {
	result, err := db.Exec(
		`UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
