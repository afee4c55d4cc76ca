package models

import "time"

// User is a storefront customer account.
type User struct {
	ID        uint         `gorm:"primaryKey"                      json:"id"`
	Username  string       `gorm:"size:150;not null;uniqueIndex"   json:"username"`
	Email     string       `gorm:"size:254;not null;uniqueIndex"   json:"email"`
	FirstName string       `gorm:"size:30"                         json:"first_name"`
	LastName  string       `gorm:"size:30"                         json:"last_name"`
	Password  string       `gorm:"size:255;not null"               json:"-"` // bcrypt hash, never serialised
	Profile   *UserProfile `gorm:"constraint:OnDelete:CASCADE"     json:"profile,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// UserProfile holds the contact defaults used to prefill checkout.
type UserProfile struct {
	ID          uint       `gorm:"primaryKey"              json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex"    json:"user_id"`
	PhoneNumber string     `gorm:"size:15"                 json:"phone_number"`
	Address     string     `gorm:"type:text"               json:"address"`
	DateOfBirth *time.Time `gorm:"type:date"               json:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
