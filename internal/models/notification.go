package models

import "time"

// Notification records a message sent for an order (currently WhatsApp
// completion notices written by the deliver flow).
type Notification struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	SentAt time.Time `gorm:"autoCreateTime" json:"sent_at"`

	OrderID uint `gorm:"not null;index" json:"order_id"`

	Channel   string `gorm:"size:50;not null" json:"channel"`
	Recipient string `gorm:"size:100" json:"recipient"`
	Message   string `gorm:"size:255" json:"message"`
}
