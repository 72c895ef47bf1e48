package database

import (
	"database/sql"

	"lakeside-academy/app/models"
)

// GetDashboardStats assembles the registrar dashboard numbers.
func GetDashboardStats(db *sql.DB) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	query := `
		SELECT
			(SELECT COUNT(*) FROM students WHERE deleted_at IS NULL AND is_active),
			(SELECT COUNT(*) FROM enrollments WHERE deleted_at IS NULL AND status = 'pending'),
			(SELECT COUNT(*) FROM enrollments WHERE deleted_at IS NULL AND status = 'enrolled'),
			(SELECT COUNT(*) FROM documents WHERE verification_status = 'pending')
	`
	err := db.QueryRow(query).Scan(
		&stats.TotalStudents, &stats.PendingEnrollments,
		&stats.ActiveEnrollments, &stats.PendingDocuments,
	)
	if err != nil {
		return nil, err
	}

	billed, collected, overdue, err := GetBillingStats(db)
	if err != nil {
		return nil, err
	}
	stats.BilledCents = billed
	stats.CollectedCents = collected
	stats.OutstandingCents = billed - collected
	stats.OverdueInvoices = overdue
	if billed > 0 {
		stats.FeeCollectionRate = float64(collected) / float64(billed) * 100
	}

	recent, _, err := ListEnrollments(db, EnrollmentFilters{Limit: 10})
	if err != nil {
		return nil, err
	}
	stats.RecentEnrollments = recent

	return stats, nil
}
