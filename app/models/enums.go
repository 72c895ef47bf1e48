package models

import "strconv"

// GradeLevel defines a rung on the school's grade ladder.
type GradeLevel string

const (
	Nursery      GradeLevel = "nursery"
	Kindergarten GradeLevel = "kindergarten"
	Grade1       GradeLevel = "grade_1"
	Grade2       GradeLevel = "grade_2"
	Grade3       GradeLevel = "grade_3"
	Grade4       GradeLevel = "grade_4"
	Grade5       GradeLevel = "grade_5"
	Grade6       GradeLevel = "grade_6"
	Grade7       GradeLevel = "grade_7"
	Grade8       GradeLevel = "grade_8"
	Grade9       GradeLevel = "grade_9"
	Grade10      GradeLevel = "grade_10"
	Grade11      GradeLevel = "grade_11"
	Grade12      GradeLevel = "grade_12"
)

// GradeLadder is the ordered progression of grade levels, lowest first.
var GradeLadder = []GradeLevel{
	Nursery, Kindergarten,
	Grade1, Grade2, Grade3, Grade4, Grade5, Grade6,
	Grade7, Grade8, Grade9, Grade10, Grade11, Grade12,
}

// GradeRank returns the position of a grade on the ladder, or -1 if the
// grade is not part of the ladder.
func GradeRank(g GradeLevel) int {
	for i, rung := range GradeLadder {
		if rung == g {
			return i
		}
	}
	return -1
}

// IsValidGrade reports whether g is a rung on the ladder.
func IsValidGrade(g GradeLevel) bool {
	return GradeRank(g) >= 0
}

// NextGrade returns the rung after g. ok is false when g is Grade12 or not
// on the ladder.
func NextGrade(g GradeLevel) (next GradeLevel, ok bool) {
	rank := GradeRank(g)
	if rank < 0 || rank+1 >= len(GradeLadder) {
		return "", false
	}
	return GradeLadder[rank+1], true
}

// Quarter defines the school-year quarter an enrollment starts in.
type Quarter string

const (
	FirstQuarter  Quarter = "first"
	SecondQuarter Quarter = "second"
	ThirdQuarter  Quarter = "third"
	FourthQuarter Quarter = "fourth"
)

// IsValidQuarter reports whether q is one of the four quarters.
func IsValidQuarter(q Quarter) bool {
	switch q {
	case FirstQuarter, SecondQuarter, ThirdQuarter, FourthQuarter:
		return true
	}
	return false
}

// EnrollmentStatus defines the lifecycle state of an enrollment application.
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentRejected  EnrollmentStatus = "rejected"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// PaymentStatus defines how much of an enrollment's net amount has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// InvoiceStatus defines the state of a billing invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceSent          InvoiceStatus = "sent"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
)

// VerificationStatus defines the state of an uploaded document.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// DocumentType defines the kinds of paperwork required for enrollment.
type DocumentType string

const (
	BirthCertificate DocumentType = "birth_certificate"
	ReportCard       DocumentType = "report_card"
	Form138          DocumentType = "form_138"
	GoodMoral        DocumentType = "good_moral"
	IDPhoto          DocumentType = "id_photo"
	OtherDocument    DocumentType = "other"
)

// IsValidDocumentType reports whether t is a known document type.
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case BirthCertificate, ReportCard, Form138, GoodMoral, IDPhoto, OtherDocument:
		return true
	}
	return false
}

// RelationshipType defines the relationship of a guardian to a student.
type RelationshipType string

const (
	Father        RelationshipType = "father"
	Mother        RelationshipType = "mother"
	LegalGuardian RelationshipType = "guardian"
	OtherRelation RelationshipType = "other"
)

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// IsSchoolYear reports whether s is a pair of consecutive calendar years
// in the "2025-2026" shape the enrollment and fee tables store.
func IsSchoolYear(s string) bool {
	if len(s) != 9 || s[4] != '-' {
		return false
	}
	first, err := strconv.Atoi(s[:4])
	if err != nil {
		return false
	}
	second, err := strconv.Atoi(s[5:])
	if err != nil {
		return false
	}
	return second == first+1
}

// Role names known to the system.
const (
	RoleSuperAdmin = "super_admin"
	RoleRegistrar  = "registrar"
	RoleGuardian   = "guardian"
	RoleStudent    = "student"
)
