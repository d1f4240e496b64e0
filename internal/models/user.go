// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"abusebin/internal/authz"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an abuse.bin account.
type User struct {
	ID  string `gorm:"type:uuid;primaryKey" json:"id"`
	UID uint   `gorm:"uniqueIndex;not null" json:"uid"` // registration order

	Username string     `gorm:"uniqueIndex;not null" json:"username"`
	Email    string     `gorm:"uniqueIndex;not null" json:"email"`
	Password string     `gorm:"not null" json:"-"`
	Role     authz.Role `gorm:"not null;default:User" json:"role"`

	// SuperAdmin grants unconditional moderation rights, independent of Role.
	// Persisted on the account rather than keyed off a username allow-list.
	SuperAdmin bool `gorm:"not null;default:false" json:"super_admin"`

	Banned    bool   `gorm:"not null;default:false" json:"banned"`
	BanReason string `json:"ban_reason,omitempty"`

	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	NameColor string `json:"name_color"`

	HasEffectPermission bool   `gorm:"not null;default:false" json:"has_effect_permission"`
	ActiveEffect        string `json:"active_effect,omitempty"`
	EffectEnabled       bool   `gorm:"not null;default:false" json:"effect_enabled"`

	IsOnline           bool       `gorm:"not null;default:false" json:"is_online"`
	LastSeen           *time.Time `json:"last_seen,omitempty"`
	LastUsernameChange *time.Time `json:"last_username_change,omitempty"`

	// Followers and Following hold user IDs, populated from the follows
	// table at read time.
	Followers []string `gorm:"-" json:"followers"`
	Following []string `gorm:"-" json:"following"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasEffectAccess reports whether the user may select visual effects.
func (u *User) HasEffectAccess() bool {
	return u.HasEffectPermission || u.Role == authz.RoleEffectPerms
}

// UserStats aggregates a user's public counters.
type UserStats struct {
	PasteCount int64 `json:"paste_count"`
	TotalLikes int64 `json:"total_likes"`
}
