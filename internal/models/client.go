package models

type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Surname string `gorm:"size:100;not null" json:"surname"`
	// Email and CUI are optional; when present they must be unique, which the
	// store enforces so that rows without them do not collide on an index.
	Email string `gorm:"size:100;index" json:"email,omitempty"`
	Phone string `gorm:"size:15" json:"phone,omitempty"`
	Type  string `gorm:"size:15" json:"type,omitempty"`
	CUI   string `gorm:"column:cui;size:15;index" json:"cui,omitempty"`

	Orders []Order `gorm:"constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}

// ClientPatch carries the partial update for a client. Nil means
// "leave the stored value alone".
type ClientPatch struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Type    *string `json:"type"`
	CUI     *string `json:"cui"`
}
