package models

import "time"

// HallPost is an admin-authored announcement, optionally linking an existing
// paste by slug.
type HallPost struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Title    string  `gorm:"not null" json:"title"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	AuthorID string  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PasteID  *string `gorm:"index" json:"paste_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
