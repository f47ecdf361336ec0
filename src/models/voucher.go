package models

import (
	"time"

	"tbs/src/types"
)

type Voucher struct {
	ID        uint                   `gorm:"primarykey" json:"id"`
	Code      string                 `gorm:"unique" json:"code"`
	Value     int64                  `json:"value"`
	ValueType types.VoucherValueType `json:"value_type"`
	UsageType types.VoucherUsageType `json:"usage_type"`
	Source    types.VoucherSource    `json:"source"`
	ShopID    *uint                  `json:"shop_id,omitempty"`
	StartDate time.Time              `json:"start_date"`
	EndDate   time.Time              `json:"end_date"`
	Active    bool                   `gorm:"default:true" json:"active"`

	Shop *Shop `json:"shop,omitempty"`

	types.Timestamps
}

// VoucherUsage links a consumed voucher code to the order it was applied to.
// Shop-scoped usages also reference the line item; platform-scoped usages
// reference the order only. The partial unique index makes a disposable code
// single-use per user at the database level, so two concurrent fulfillments
// cannot both record the same disposable claim.
type VoucherUsage struct {
	ID          uint                   `gorm:"primarykey" json:"id"`
	Code        string                 `gorm:"index;index:idx_voucher_usages_disposable,unique,where:usage_type = 'disposable' AND status = 'used'" json:"code"`
	OrderID     string                 `json:"order_id,omitempty"`
	OrderItemID *uint                  `json:"order_item_id,omitempty"`
	UserID      uint                   `gorm:"index;index:idx_voucher_usages_disposable,unique,where:usage_type = 'disposable' AND status = 'used'" json:"user_id,omitempty"`
	UsageType   types.VoucherUsageType `json:"usage_type,omitempty"`
	Status      string                 `gorm:"default:'used'" json:"status,omitempty"`
	UsedAt      *time.Time             `json:"used_at,omitempty"`

	types.Timestamps
}
