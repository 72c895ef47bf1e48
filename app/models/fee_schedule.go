package models

import "time"

// FeeSchedule is the per-grade, per-school-year price list. All amounts are
// integer cents. Unique on (grade_level, school_year).
type FeeSchedule struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	GradeLevel       GradeLevel `json:"grade_level" gorm:"not null;type:varchar(20);uniqueIndex:idx_fee_grade_year" validate:"required"`
	SchoolYear       string     `json:"school_year" gorm:"not null;type:varchar(9);uniqueIndex:idx_fee_grade_year" validate:"required"`
	TuitionFeeCents  int64      `json:"tuition_fee_cents" gorm:"not null;default:0" validate:"gte=0"`
	MiscFeeCents     int64      `json:"misc_fee_cents" gorm:"not null;default:0" validate:"gte=0"`
	LabFeeCents      int64      `json:"lab_fee_cents" gorm:"not null;default:0" validate:"gte=0"`
	LibraryFeeCents  int64      `json:"library_fee_cents" gorm:"not null;default:0" validate:"gte=0"`
	SportsFeeCents   int64      `json:"sports_fee_cents" gorm:"not null;default:0" validate:"gte=0"`
	IsActive         bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// TotalCents sums every fee line of the schedule.
func (fs *FeeSchedule) TotalCents() int64 {
	return fs.TuitionFeeCents + fs.MiscFeeCents + fs.LabFeeCents + fs.LibraryFeeCents + fs.SportsFeeCents
}
