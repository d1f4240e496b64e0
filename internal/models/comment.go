package models

import "time"

// Comment belongs to exactly one paste and one author.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PasteID  string `gorm:"not null;index" json:"paste_id"`
	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
