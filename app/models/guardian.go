package models

import "time"

// Guardian is a parent/guardian profile wrapping an authenticated user
// account. Students are linked many-to-many via guardian_students.
type Guardian struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	Phone      *string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Address    *string    `json:"address,omitempty" gorm:"type:text"`
	Occupation *string    `json:"occupation,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	User     *User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Students []*Student `json:"students,omitempty" gorm:"many2many:guardian_students;"`
}

// GuardianStudent is the join row between a guardian and a student.
type GuardianStudent struct {
	ID               string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GuardianID       string           `json:"guardian_id" gorm:"not null;index;type:uuid"`
	StudentID        string           `json:"student_id" gorm:"not null;index;type:uuid"`
	RelationshipType RelationshipType `json:"relationship_type" gorm:"not null;type:varchar(20)"`
	IsPrimaryContact bool             `json:"is_primary_contact" gorm:"default:false"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime"`

	Guardian *Guardian `json:"guardian,omitempty" gorm:"foreignKey:GuardianID;references:ID"`
	Student  *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
