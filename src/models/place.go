package models

import (
	"time"

	"tbs/src/types"
)

// Place is a bookable destination owned by one seller. Category carries the
// subtype code ("GN" mountain, "CP" camping) that fulfillment requests must
// match.
type Place struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ShopID   uint   `json:"shop_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Price    int64  `json:"price"`

	Shop      *Shop      `json:"shop,omitempty"`
	Basecamps []Basecamp `json:"basecamps,omitempty"`

	types.Timestamps
}

// Basecamp is a sub-entity of a mountain place with its own price and
// capacity, booked by person-named multi-day reservations.
type Basecamp struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	PlaceID uint   `json:"place_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Price   int64  `json:"price"`

	Place *Place `json:"place,omitempty"`

	types.Timestamps
}

// RecurringQuota is the weekly capacity template for a place or basecamp,
// keyed by weekday (time.Weekday numbering, Sunday = 0).
type RecurringQuota struct {
	ID         uint  `gorm:"primarykey" json:"id"`
	PlaceID    *uint `gorm:"index" json:"place_id,omitempty"`
	BasecampID *uint `gorm:"index" json:"basecamp_id,omitempty"`
	Weekday    int   `json:"weekday"`
	Quota      int64 `json:"quota"`

	types.Timestamps
}

// ReservationCapacity is the materialized capacity row for one concrete slot.
// CurrentQuota is nullable on purpose: no row means the slot was never
// booked, a row with a value tracks remaining capacity, and zero means
// exhausted. The three states must not be conflated.
type ReservationCapacity struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	PlaceID      *uint      `gorm:"index" json:"place_id,omitempty"`
	BasecampID   *uint      `gorm:"index" json:"basecamp_id,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	TotalQuota   int64      `json:"total_quota"`
	CurrentQuota *int64     `json:"current_quota,omitempty"`

	types.Timestamps
}
