package models

import "time"

// Page is the envelope returned by the filter endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// One-directional projections for list and public views. Children never
// serialize a back-pointer to their parent, only the bare foreign key id.

type OrderListItem struct {
	ID          uint      `json:"id"`
	ClientName  string    `json:"client_name"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
	DeviceCount int64     `json:"device_count"`
}

type OrderDetail struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Status    string     `json:"status"`
	Client    *Client    `json:"client"`
	Devices   []Device   `json:"devices"`
	Logs      []LogEntry `json:"logs,omitempty"`
}

type LogEntry struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientOrderDetails is the public view behind the scanned client QR code.
type ClientOrderDetails struct {
	ID         uint               `json:"id"`
	ClientName string             `json:"client_name"`
	Phone      string             `json:"phone"`
	Email      string             `json:"email"`
	CreatedAt  time.Time          `json:"created_at"`
	Status     string             `json:"status"`
	Devices    []ClientDeviceView `json:"devices"`
}

type ClientDeviceView struct {
	ID           uint   `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Issue        string `json:"issue,omitempty"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
}

// UserInfo is the password-free user projection.
type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
