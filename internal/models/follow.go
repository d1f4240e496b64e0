package models

import "time"

// Follow is a directed edge in the social graph.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;type:uuid" json:"follower_id"`
	FollowingID string    `gorm:"primaryKey;type:uuid" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
