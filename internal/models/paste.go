package models

import (
	"time"
)

// Paste represents a text paste. The primary key is a slug derived from the
// title at creation time.
type Paste struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Views  int  `gorm:"not null;default:0" json:"views"`
	Pinned bool `gorm:"not null;default:false" json:"is_pinned"`

	// Likes and Dislikes hold user IDs, derived from paste_reactions at read
	// time. The sets are disjoint per user.
	Likes    []string `gorm:"-" json:"likes"`
	Dislikes []string `gorm:"-" json:"dislikes"`

	Comments []Comment `gorm:"foreignKey:PasteID" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReactionType is either "like" or "dislike".
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ValidReactionType reports whether t is a known reaction type.
func ValidReactionType(t ReactionType) bool {
	return t == ReactionLike || t == ReactionDislike
}

// PasteReaction is a single user's reaction to a paste. One row per
// (paste, user); switching reaction type updates the row in place.
type PasteReaction struct {
	PasteID   string       `gorm:"primaryKey" json:"paste_id"`
	UserID    string       `gorm:"primaryKey;type:uuid" json:"user_id"`
	Type      ReactionType `gorm:"not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// CooldownStatus is the advisory result of a paste-cooldown check.
type CooldownStatus struct {
	CanPost          bool `json:"can_post"`
	RemainingSeconds int  `json:"remaining_seconds,omitempty"`
}
