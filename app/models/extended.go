package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CustomTime allows parsing dates in YYYY-MM-DD format
type CustomTime struct {
	time.Time
}

// UnmarshalJSON parses dates in YYYY-MM-DD format
func (ct *CustomTime) UnmarshalJSON(data []byte) error {
	// Handle null or empty
	s := string(data)
	if s == "null" || s == "" || s == `""` {
		ct.Time = time.Time{}
		return nil
	}

	// Remove quotes
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}

	ct.Time = t
	return nil
}

// MarshalJSON formats dates in YYYY-MM-DD format
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, ct.Time.Format("2006-01-02"))), nil
}

// Scan implements the Scanner interface for database reading
func (ct *CustomTime) Scan(value interface{}) error {
	if value == nil {
		ct.Time = time.Time{}
		return nil
	}

	if t, ok := value.(time.Time); ok {
		ct.Time = t
		return nil
	}

	return fmt.Errorf("cannot scan %T into CustomTime", value)
}

// Value implements the Valuer interface for database writing
func (ct CustomTime) Value() (driver.Value, error) {
	return ct.Time, nil
}

// DashboardStats summarizes the registrar dashboard.
type DashboardStats struct {
	TotalStudents      int                 `json:"total_students"`
	PendingEnrollments int                 `json:"pending_enrollments"`
	ActiveEnrollments  int                 `json:"active_enrollments"`
	PendingDocuments   int                 `json:"pending_documents"`
	BilledCents        int64               `json:"billed_cents"`
	CollectedCents     int64               `json:"collected_cents"`
	OutstandingCents   int64               `json:"outstanding_cents"`
	FeeCollectionRate  float64             `json:"fee_collection_rate"`
	OverdueInvoices    int                 `json:"overdue_invoices"`
	RecentEnrollments  []EnrollmentSummary `json:"recent_enrollments"`
}

// EnrollmentSummary is a joined row for dashboards and list views.
type EnrollmentSummary struct {
	ID            string           `json:"id"`
	StudentName   string           `json:"student_name"`
	StudentNumber string           `json:"student_number"`
	SchoolYear    string           `json:"school_year"`
	GradeLevel    GradeLevel       `json:"grade_level"`
	Status        EnrollmentStatus `json:"status"`
	PaymentStatus PaymentStatus    `json:"payment_status"`
	BalanceCents  int64            `json:"balance_cents"`
	CreatedAt     time.Time        `json:"created_at"`
}
