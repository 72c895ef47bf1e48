package models

import "time"

// Document is one uploaded piece of enrollment paperwork. Verification runs
// independently of the enrollment workflow.
type Document struct {
	ID                 string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID          string             `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	EnrollmentID       *string            `json:"enrollment_id,omitempty" gorm:"index;type:uuid"`
	DocumentType       DocumentType       `json:"document_type" gorm:"not null;type:varchar(30)" validate:"required"`
	FileName           string             `json:"file_name" gorm:"not null"`
	FilePath           string             `json:"file_path" gorm:"not null"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	VerifiedBy         *string            `json:"verified_by,omitempty" gorm:"type:uuid"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	RejectionReason    *string            `json:"rejection_reason,omitempty" gorm:"type:text"`
	CreatedAt          time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `json:"updated_at" gorm:"autoUpdateTime"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
