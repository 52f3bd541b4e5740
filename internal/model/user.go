package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Teacher    UserRole = "teacher"
	Admin      UserRole = "admin"
	SuperAdmin UserRole = "super_admin"
)

// IsStaff reports whether the role may manage exams and see other students' results.
func (r UserRole) IsStaff() bool {
	return r == Teacher || r == Admin || r == SuperAdmin
}

// swagger:model User
type User struct {
	BaseModel
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:100;unique;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Role      UserRole   `gorm:"type:enum('student','teacher','admin','super_admin');default:'student'" json:"role"`
	Disabled  bool       `gorm:"default:false" json:"disabled"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
