package models

import "time"

// Invoice is a billing document raised against an enrollment. Status is
// derived from comparing paid_amount_cents to total_amount_cents, never set
// directly by callers.
type Invoice struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EnrollmentID     string        `json:"enrollment_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	InvoiceNumber    string        `json:"invoice_number" gorm:"uniqueIndex;not null"`
	TotalAmountCents int64         `json:"total_amount_cents" gorm:"not null" validate:"gte=0"`
	PaidAmountCents  int64         `json:"paid_amount_cents" gorm:"not null;default:0"`
	Status           InvoiceStatus `json:"status" gorm:"not null;default:'draft';index;type:varchar(20)"`
	DueDate          CustomTime    `json:"due_date" gorm:"type:date"`
	IssuedAt         *time.Time    `json:"issued_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt        *time.Time    `json:"deleted_at,omitempty" gorm:"index"`

	Enrollment *Enrollment `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID;references:ID"`
	Payments   []*Payment  `json:"payments,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
}

// BalanceCents is the amount still owed on the invoice.
func (i *Invoice) BalanceCents() int64 {
	return i.TotalAmountCents - i.PaidAmountCents
}

// Payment records money received against an invoice.
type Payment struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceID   string     `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AmountCents int64      `json:"amount_cents" gorm:"not null" validate:"required,gt=0"`
	Method      string     `json:"method" gorm:"not null;type:varchar(50)" validate:"required"`
	PaymentDate CustomTime `json:"payment_date" gorm:"not null"`
	Reference   *string    `json:"reference,omitempty"`
	ReceivedBy  string     `json:"received_by" gorm:"not null;type:uuid"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Invoice *Invoice `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	Receipt *Receipt `json:"receipt,omitempty" gorm:"foreignKey:PaymentID;references:ID"`
}

// Receipt is generated 1:1 from a payment, numbered OR-<YYYYMM>-<NNNN>.
type Receipt struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentID     string    `json:"payment_id" gorm:"uniqueIndex;not null;type:uuid"`
	ReceiptNumber string    `json:"receipt_number" gorm:"uniqueIndex;not null"`
	IssuedAt      time.Time `json:"issued_at" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`

	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:PaymentID;references:ID"`
}
