package models

import "time"

// Student represents an enrolled or prospective learner. StudentNumber is
// generated once at creation and never changes afterwards.
type Student struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentNumber string     `json:"student_number" gorm:"uniqueIndex;not null"`
	FirstName     string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName      string     `json:"last_name" gorm:"not null" validate:"required"`
	Birthdate     CustomTime `json:"birthdate" gorm:"not null;type:date" validate:"required"`
	Gender        Gender     `json:"gender" gorm:"type:varchar(10)" validate:"required,oneof=male female other"`
	GradeLevel    GradeLevel `json:"grade_level" gorm:"type:varchar(20);index"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Guardians []*GuardianLink `json:"guardians,omitempty" gorm:"-"`
}

// FullName returns "First Last".
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// GuardianLink is one guardian attached to a student together with the join
// attributes carried by the guardian_students table.
type GuardianLink struct {
	Guardian         Guardian         `json:"guardian"`
	RelationshipType RelationshipType `json:"relationship_type"`
	IsPrimaryContact bool             `json:"is_primary_contact"`
}
