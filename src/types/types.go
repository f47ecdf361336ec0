package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type OrderType string

const (
	ORDER_TRANSACTION OrderType = "TRANSACTION"
	ORDER_RESERVATION OrderType = "RESERVATION"
)

// Category codes carried as the order subtype. GN reservations are
// person-named and book basecamp slots over a date range; CP reservations
// book a single-day place slot.
const (
	CATEGORY_MOUNTAIN = "GN"
	CATEGORY_CAMPING  = "CP"
	CATEGORY_PRODUCT  = "PR"
)

type OrderStatus string

const (
	ORDER_IN_PROGRESS OrderStatus = "IN_PROGRESS"
	ORDER_PAID        OrderStatus = "PAID"
	ORDER_EXPIRED     OrderStatus = "EXPIRED"
	ORDER_CANCELED    OrderStatus = "CANCELED"
)

type VoucherValueType string

const (
	VOUCHER_VALUE_PRICE      VoucherValueType = "price"
	VOUCHER_VALUE_PERCENTAGE VoucherValueType = "percentage"
)

type VoucherUsageType string

const (
	VOUCHER_DISPOSABLE VoucherUsageType = "disposable"
	VOUCHER_REUSABLE   VoucherUsageType = "reusable"
	VOUCHER_THRESHOLD  VoucherUsageType = "threshold"
	VOUCHER_CASHBACK   VoucherUsageType = "cashback"
)

type VoucherSource string

const (
	VOUCHER_MERCHANT VoucherSource = "merchant"
	VOUCHER_PLATFORM VoucherSource = "platform"
)

type FeeKind string

const (
	FEE_PAYMENT FeeKind = "payment"
	FEE_ADMIN   FeeKind = "admin"
)

type FeeValueType string

const (
	FEE_VALUE_PRICE      FeeValueType = "price"
	FEE_VALUE_PERCENTAGE FeeValueType = "percentage"
)

// Midtrans payment types plus the offline settlement path.
const (
	PAYMENT_BANK_TRANSFER = "bank_transfer"
	PAYMENT_QRIS          = "qris"
	PAYMENT_GOPAY         = "gopay"
	PAYMENT_SHOPEEPAY     = "shopeepay"
	PAYMENT_ECHANNEL      = "echannel"
	PAYMENT_OTS           = "ots"
)

type VoucherClaimBody struct {
	Code   string `json:"code" binding:"required"`
	ShopID *uint  `json:"shop_id,omitempty"`
}

type TravelerBody struct {
	Name           string `json:"name" binding:"required"`
	IdentityType   string `json:"identity_type" binding:"required"`
	IdentityNumber string `json:"identity_number" binding:"required"`
	Phone          string `json:"phone,omitempty"`
	Birthday       string `json:"birthday,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
}

type CreateOrderItemBody struct {
	ProductID *uint          `json:"product_id,omitempty"`
	Qty       int64          `json:"qty" binding:"required,min=1"`
	Travelers []TravelerBody `json:"travelers,omitempty"`
}

type CreateOrderRequestBody struct {
	OrderType     string                `json:"order_type" binding:"required,oneof=TRANSACTION RESERVATION"`
	Category      string                `json:"category" binding:"required"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	PlaceID       *uint                 `json:"place_id,omitempty"`
	BasecampID    *uint                 `json:"basecamp_id,omitempty"`
	StartDate     *string               `json:"start_date,omitempty" binding:"omitempty,orderdate"`
	EndDate       *string               `json:"end_date,omitempty" binding:"omitempty,orderdate"`
	Items         []CreateOrderItemBody `json:"items" binding:"required,min=1,dive"`
	Vouchers      []VoucherClaimBody    `json:"vouchers,omitempty" binding:"omitempty,dive"`
}

// PaymentActionResponse is the unified fulfillment result shape returned to
// the client regardless of which payment rail handled the charge.
type PaymentActionResponse struct {
	OrderID         string  `json:"order_id"`
	NoOrder         string  `json:"no_order"`
	PaymentType     *string `json:"payment_type"`
	TransactionTime string  `json:"transaction_time,omitempty"`
	ExpiryTime      string  `json:"expiry_time,omitempty"`
	Bank            string  `json:"bank,omitempty"`
	VaNumber        string  `json:"va_number,omitempty"`
	QrURL           string  `json:"qr_url,omitempty"`
	RedirectURL     string  `json:"redirect_url,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type OrderRequestParams struct {
	ID string `uri:"id" binding:"required"`
}
