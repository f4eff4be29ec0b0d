package models

import "time"

const RoleAdmin = "ADMIN"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	// bcrypt hash, never serialized.
	Password string `gorm:"size:100;not null" json:"-"`
	Phone    string `gorm:"size:15" json:"phone,omitempty"`
	Role     string `gorm:"size:20;not null" json:"role"`
}

type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
}
