package models

import "tbs/src/types"

// PaymentMethod describes one enabled payment rail: its provider routing,
// fee schedule, and charge expiry policy. Rows are configuration owned by
// the platform, read-only from the fulfillment path.
type PaymentMethod struct {
	ID             uint               `gorm:"primarykey" json:"id"`
	Code           string             `gorm:"unique" json:"code"`
	Name           string             `json:"name,omitempty"`
	Type           string             `json:"type,omitempty"`
	Bank           string             `json:"bank,omitempty"`
	Provider       string             `json:"provider,omitempty"`
	Enabled        bool               `gorm:"default:true" json:"enabled"`
	FeeValue       int64              `json:"fee_value"`
	FeeType        types.FeeValueType `json:"fee_type"`
	ExpiryDuration int64              `json:"expiry_duration"`
	ExpiryUnit     string             `json:"expiry_unit,omitempty"`
	Acquirer       string             `json:"acquirer,omitempty"`
	CallbackURL    string             `json:"callback_url,omitempty"`

	types.Timestamps
}
