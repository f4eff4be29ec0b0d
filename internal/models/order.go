package models

import "time"

// Order is a repair ticket grouping one or more devices for a client.
// Children cascade on delete together with the order row.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ClientID uint    `gorm:"not null;index" json:"client_id"`
	Client   *Client `gorm:"constraint:OnDelete:CASCADE" json:"client,omitempty"`
	UserID   uint    `gorm:"not null;index" json:"user_id"`
	User     *User   `json:"-"`

	Status string `gorm:"size:50;not null" json:"status"`

	ClientQrLink string `gorm:"size:255" json:"client_qr_link,omitempty"`
	ClientQrPath string `gorm:"size:255" json:"client_qr_path,omitempty"`

	Devices       []Device        `gorm:"constraint:OnDelete:CASCADE" json:"devices,omitempty"`
	Documents     []OrderDocument `gorm:"constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	Logs          []OrderLog      `gorm:"constraint:OnDelete:CASCADE" json:"logs,omitempty"`
	Notifications []Notification  `gorm:"constraint:OnDelete:CASCADE" json:"notifications,omitempty"`
}

type OrderPatch struct {
	ClientID *uint   `json:"client_id"`
	UserID   *uint   `json:"user_id"`
	Status   *string `json:"status"`
}
