package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Staff   UserRole = "staff"
	Admin   UserRole = "admin"
)

// User is the aggregate root every analytics entity hangs off of. Deleting a
// user must cascade through all of them in one transaction.
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Language  string    `gorm:"size:10;default:'en'" json:"language"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
