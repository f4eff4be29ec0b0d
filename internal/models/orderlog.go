package models

import "time"

// OrderLog is an append-only audit entry. There is no update path anywhere
// in the codebase; deletion happens only through the explicit admin endpoint.
type OrderLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"timestamp"`

	OrderID uint  `gorm:"not null;index" json:"order_id"`
	UserID  uint  `gorm:"not null" json:"user_id"`
	User    *User `json:"-"`

	Message string `gorm:"size:255;not null" json:"message"`
}

// Username resolves the actor label for serialized log entries.
func (l *OrderLog) Username() string {
	if l.User != nil {
		return l.User.Username
	}
	return "System"
}
