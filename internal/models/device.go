package models

import (
	"time"

	"gorm.io/datatypes"
)

// Device is a physical item under repair. Its status is independent of the
// owning order's status; changes feed the order synchronization rule.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID uint   `gorm:"not null;index" json:"order_id"`
	Order   *Order `json:"-"`

	Brand        string `gorm:"size:50" json:"brand"`
	Model        string `gorm:"size:50" json:"model"`
	SerialNumber string `gorm:"size:50;uniqueIndex;not null" json:"serial_number"`
	Status       string `gorm:"size:50;not null" json:"status"`

	// Accessories left with the device: predefined vocabulary plus free text.
	Accessories datatypes.JSONSlice[string] `json:"accessories,omitempty"`

	Note       string `gorm:"size:255" json:"note,omitempty"`
	ToDo       string `gorm:"size:255" json:"to_do,omitempty"`
	Credential string `gorm:"size:255" json:"credential,omitempty"`
	LicenseKey string `gorm:"size:255" json:"license_key,omitempty"`

	ServiceQrLink string `gorm:"size:255" json:"service_qr_link,omitempty"`
	ServiceQrPath string `gorm:"size:255" json:"service_qr_path,omitempty"`
}

type DevicePatch struct {
	Brand        *string   `json:"brand"`
	Model        *string   `json:"model"`
	SerialNumber *string   `json:"serial_number"`
	Status       *string   `json:"status"`
	Accessories  *[]string `json:"accessories"`
	Note         *string   `json:"note"`
	ToDo         *string   `json:"to_do"`
	Credential   *string   `json:"credential"`
	LicenseKey   *string   `json:"license_key"`
}
