package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a store account. Email is the login identifier; the
// profile fields are snapshotted onto orders at checkout time.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Username    string     `json:"username" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Password    string     `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	FirstName   string     `json:"first_name" gorm:"type:varchar(150)"`
	LastName    string     `json:"last_name" gorm:"type:varchar(150)"`
	Address     string     `json:"address" gorm:"type:varchar(255)"`
	City        string     `json:"city" gorm:"type:varchar(50)"`
	Country     string     `json:"country" gorm:"type:varchar(100)"`
	PostCode    string     `json:"post_code" gorm:"type:varchar(30)"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	IsStaff     bool       `json:"is_staff"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FullName joins the profile name fields the way billing snapshots expect.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
