// models/access_grant.go
package models

import "time"

// AccessGrant is a durable free-pack registration in the user_access table.
// DiscordID carries a unique index: registering twice is how the
// "already_registered" idempotent path triggers, so one grant per user is a
// schema-level rule, not handler logic.
type AccessGrant struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	OrderID         string    `gorm:"uniqueIndex;not null" json:"order_id"` // e.g., "FREE-839214-4821"
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"not null" json:"email"`
	DiscordUsername string    `json:"discord_username,omitempty"`
	DiscordID       string    `gorm:"uniqueIndex;not null" json:"discord_id"`
	Type            string    `gorm:"not null;default:FREE" json:"type"`
	Product         string    `gorm:"not null" json:"product"`
	Claimed         bool      `gorm:"not null;default:false" json:"claimed"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (AccessGrant) TableName() string {
	return "user_access"
}
