package models

import (
	"time"

	"tbs/src/types"
)

type Order struct {
	ID            string            `gorm:"primarykey" json:"id"`
	InvoiceNumber string            `json:"no_order,omitempty"`
	UserID        uint              `gorm:"index" json:"user_id,omitempty"`
	OrderType     types.OrderType   `json:"order_type,omitempty"`
	Category      string            `json:"category,omitempty"`
	TotalPrice    int64             `json:"total_price"`
	GrossPrice    int64             `json:"gross_price"`
	Currency      string            `json:"currency,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	TotalQty      int64             `json:"total_qty"`
	Status        types.OrderStatus `gorm:"default:'IN_PROGRESS'" json:"status,omitempty"`

	User  *User       `json:"user,omitempty"`
	Items []OrderItem `json:"items,omitempty"`
	Fees  []Fee       `json:"fees,omitempty"`

	types.Timestamps
}

type OrderItem struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	OrderID    string     `gorm:"index" json:"order_id,omitempty"`
	ShopID     uint       `json:"shop_id,omitempty"`
	ItemID     uint       `json:"item_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	UnitPrice  int64      `json:"unit_price"`
	BasePrice  int64      `json:"base_price"`
	Discount   int64      `json:"discount"`
	Qty        int64      `json:"qty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	BasecampID *uint      `json:"basecamp_id,omitempty"`

	Shop      *Shop      `json:"shop,omitempty"`
	Travelers []Traveler `json:"travelers,omitempty"`

	types.Timestamps
}

type Fee struct {
	ID        uint               `gorm:"primarykey" json:"id"`
	OrderID   string             `gorm:"index" json:"order_id,omitempty"`
	Kind      types.FeeKind      `json:"kind"`
	Value     int64              `json:"value"`
	ValueType types.FeeValueType `json:"value_type"`

	types.Timestamps
}

// Traveler is the person-named record attached to GN reservation line items.
type Traveler struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	OrderItemID    uint       `gorm:"index" json:"order_item_id,omitempty"`
	Name           string     `json:"name,omitempty"`
	IdentityType   string     `json:"identity_type,omitempty"`
	IdentityNumber string     `json:"identity_number,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	Salutation     string     `json:"salutation,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`

	types.Timestamps
}
