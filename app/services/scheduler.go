package services

import (
	"database/sql"
	"log"
	"time"
)

// OverdueMarker flags overdue invoices and returns how many were flagged.
type OverdueMarker func(db *sql.DB) (int, error)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB, markOverdue OverdueMarker) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger at 6:05 AM, before the registrar's day starts
			if now.Hour() == 6 && now.Minute() == 5 {
				log.Println("Triggering scheduled tasks [06:05]...")

				count, err := markOverdue(db)
				if err != nil {
					log.Printf("Error marking overdue invoices: %v", err)
				} else if count > 0 {
					log.Printf("Marked %d invoices as overdue", count)
				}
			}
		}
	}()
}
