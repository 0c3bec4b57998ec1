package domain

import "time"

// Project is a portfolio entry shown on the public page.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Link        string     `json:"link"`
	Image       string     `json:"image"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Admin is a content-management account.
type Admin struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// ContactMessage is a message submitted through the public contact form.
// Read stays 0 until the message is marked read; the transition is one-way.
type ContactMessage struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactMethod string    `json:"contactMethod,omitempty"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
	Read          int       `json:"read"`
}

// Skill is a rated ability displayed on the public page.
// Level is constrained to [0, 100] by the store.
type Skill struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Level     int        `json:"level"`
	Color     string     `json:"color"`
	SortOrder int        `json:"sortOrder"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Setting is a generic key/value row; values are always strings.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactInfo groups the contact-related settings exposed on the public page.
type ContactInfo struct {
	Email    string `json:"email"`
	Telegram string `json:"telegram"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// Identity describes an authenticated admin.
type Identity struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
}
