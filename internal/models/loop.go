package models

import "time"

// Loop type values.
const (
	LoopTypePurchase = "purchase"
	LoopTypeListing  = "listing"
)

// Loop status values.
const (
	LoopStatusActive    = "active"
	LoopStatusClosing   = "closing"
	LoopStatusClosed    = "closed"
	LoopStatusCancelled = "cancelled"
)

// Loop is a tracked real-estate transaction owned by the agent that created it.
type Loop struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Type            string     `gorm:"size:32;not null" json:"type"`
	PropertyAddress string     `gorm:"size:512;not null" json:"property_address"`
	ClientName      string     `gorm:"size:255" json:"client_name"`
	SaleAmount      *float64   `json:"sale_amount"`
	Status          string     `gorm:"size:32;not null;default:active;index" json:"status"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CreatorID       uint       `gorm:"not null;index" json:"creator_id"`
	Archived        bool       `gorm:"not null;default:false;index" json:"archived"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
