// models/payment.go
package models

import "time"

// Payment is one confirmed storefront order, keyed by the processor-issued
// payment_id. Rows are never deleted; the bot flips Claimed once the buyer
// redeems the order in Discord.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PaymentID   string    `gorm:"uniqueIndex;not null" json:"payment_id"`
	OrderID     string    `gorm:"not null" json:"order_id"` // e.g., "FS-839214-4821"
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	DiscordName string    `gorm:"not null" json:"discord_name"`
	DiscordID   string    `gorm:"index;not null" json:"discord_id"` // 17-19 digit snowflake, stored as string
	Product     string    `gorm:"not null" json:"product"`
	Amount      float64   `gorm:"not null;default:0" json:"amount"`
	Status      string    `gorm:"not null;default:paid" json:"status"`
	Claimed     bool      `gorm:"not null;default:false" json:"claimed"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
