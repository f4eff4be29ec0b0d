package models

import "time"

// OrderDocument is metadata plus a URL for a file attached to an order.
// The file itself lives wherever the URL points; this backend never stores
// document bytes.
type OrderDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"upload_date"`

	OrderID uint `gorm:"not null;index" json:"order_id"`

	DocumentType string `gorm:"size:50;not null" json:"document_type"`
	DocumentURL  string `gorm:"size:255;not null" json:"document_url"`
	UploadedBy   string `gorm:"size:100;not null" json:"uploaded_by"`
}

type OrderDocumentPatch struct {
	DocumentType *string `json:"document_type"`
	DocumentURL  *string `json:"document_url"`
	UploadedBy   *string `json:"uploaded_by"`
}
