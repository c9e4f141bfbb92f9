package domain

import "time"

// Listing price bounds, in whole currency units.
const (
	ListingMinPrice = 10000
	ListingMaxPrice = 999999
)

// Listing is catalog data owned elsewhere; the booking engine only
// reads it to snapshot price and expert at booking time.
type Listing struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ExpertID    int64     `gorm:"index;not null" json:"expert_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       int64     `gorm:"not null" json:"price"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Listing) TableName() string { return "listings" }
