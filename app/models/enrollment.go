package models

import "time"

// Enrollment is one school-year application/registration record for a
// student. The fee snapshot is taken from the fee schedule at creation time
// and all amounts are integer cents.
type Enrollment struct {
	ID         string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID  string           `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	GuardianID *string          `json:"guardian_id,omitempty" gorm:"index;type:uuid"`
	SchoolYear string           `json:"school_year" gorm:"not null;type:varchar(9)" validate:"required"`
	Quarter    Quarter          `json:"quarter" gorm:"not null;type:varchar(10)" validate:"required"`
	GradeLevel GradeLevel       `json:"grade_level" gorm:"not null;type:varchar(20)" validate:"required"`
	Status     EnrollmentStatus `json:"status" gorm:"not null;default:'pending';index;type:varchar(20)"`

	// Fee snapshot, fixed at creation from the grade's fee schedule.
	TuitionFeeCents int64 `json:"tuition_fee_cents" gorm:"not null;default:0"`
	MiscFeeCents    int64 `json:"misc_fee_cents" gorm:"not null;default:0"`
	LabFeeCents     int64 `json:"lab_fee_cents" gorm:"not null;default:0"`
	LibraryFeeCents int64 `json:"library_fee_cents" gorm:"not null;default:0"`
	SportsFeeCents  int64 `json:"sports_fee_cents" gorm:"not null;default:0"`

	// Derived amounts, kept consistent by RecomputeTotals.
	TotalAmountCents int64 `json:"total_amount_cents" gorm:"not null;default:0"`
	DiscountCents    int64 `json:"discount_cents" gorm:"not null;default:0"`
	NetAmountCents   int64 `json:"net_amount_cents" gorm:"not null;default:0"`
	AmountPaidCents  int64 `json:"amount_paid_cents" gorm:"not null;default:0"`
	BalanceCents     int64 `json:"balance_cents" gorm:"not null;default:0"`

	PaymentStatus PaymentStatus `json:"payment_status" gorm:"not null;default:'pending';index;type:varchar(20)"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *string    `json:"approved_by,omitempty" gorm:"type:uuid"`
	Remarks    *string    `json:"remarks,omitempty" gorm:"type:varchar(500)"`

	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Student  *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Guardian *Guardian `json:"guardian,omitempty" gorm:"foreignKey:GuardianID;references:ID"`
}

// RecomputeTotals re-derives total, net, and balance from their inputs:
//
//	total   = tuition + misc + lab + library + sports
//	net     = total - discount
//	balance = net - amount_paid
func (e *Enrollment) RecomputeTotals() {
	e.TotalAmountCents = e.TuitionFeeCents + e.MiscFeeCents + e.LabFeeCents +
		e.LibraryFeeCents + e.SportsFeeCents
	e.NetAmountCents = e.TotalAmountCents - e.DiscountCents
	e.BalanceCents = e.NetAmountCents - e.AmountPaidCents
}

// IsPending reports whether the application still awaits registrar action.
func (e *Enrollment) IsPending() bool {
	return e.Status == EnrollmentPending
}

// IsActive reports whether the enrollment currently occupies the student's
// single active-enrollment slot.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentEnrolled
}
