package common

import (
	"slices"

	"tbs/src/config"
	"tbs/src/models"
	"tbs/src/types"
	"tbs/src/utils"
)

type PriceableItem struct {
	ShopID    uint
	BasePrice int64
	Qty       int64
}

// AppliedVoucher is a resolved voucher merged with the caller-supplied
// scope: ShopID set means shop-scoped, nil means platform-scoped.
type AppliedVoucher struct {
	Code      string
	Value     int64
	ValueType types.VoucherValueType
	UsageType types.VoucherUsageType
	ShopID    *uint
}

type PricedLine struct {
	ShopID        uint
	BaseUnitPrice int64
	NetUnitPrice  int64
	Discount      int64
	Subtotal      int64
	Qty           int64
}

type PriceBreakdown struct {
	Lines            []PricedLine
	GrossTotal       int64
	ShopDiscount     int64
	PlatformDiscount int64
	NetTotal         int64
	PaymentFee       int64
	AdminFee         int64
	TotalAmount      int64
	TotalQty         int64
}

// shopDiscountPerUnit accumulates every matching shop voucher additively
// against one unit of the item's base price.
func shopDiscountPerUnit(basePrice int64, shopID uint, vouchers []AppliedVoucher) int64 {
	var discount int64
	for _, v := range vouchers {
		if v.ShopID == nil || *v.ShopID != shopID {
			continue
		}
		switch v.ValueType {
		case types.VOUCHER_VALUE_PERCENTAGE:
			discount += utils.PercentOf(basePrice, float64(v.Value))
		default:
			discount += v.Value
		}
	}
	return discount
}

// ComputeOrderPrice runs the full order money pipeline: per-line shop
// voucher discounts, platform vouchers against the running net total, then
// payment and admin fees. Pure function; callers write the adjusted lines
// back onto the order items before persistence.
//
// Net unit prices and the net total floor at zero; a discount can never
// drive an amount negative.
func ComputeOrderPrice(items []PriceableItem, vouchers []AppliedVoucher, method *models.PaymentMethod, cfg config.AppConfig) PriceBreakdown {
	out := PriceBreakdown{Lines: make([]PricedLine, 0, len(items))}

	for _, item := range items {
		discount := shopDiscountPerUnit(item.BasePrice, item.ShopID, vouchers)
		if discount > item.BasePrice {
			discount = item.BasePrice
		}
		netUnit := item.BasePrice - discount
		line := PricedLine{
			ShopID:        item.ShopID,
			BaseUnitPrice: item.BasePrice,
			NetUnitPrice:  netUnit,
			Discount:      discount * item.Qty,
			Subtotal:      netUnit * item.Qty,
			Qty:           item.Qty,
		}
		out.Lines = append(out.Lines, line)
		out.GrossTotal += item.BasePrice * item.Qty
		out.ShopDiscount += line.Discount
		out.NetTotal += line.Subtotal
		out.TotalQty += item.Qty
	}

	for _, v := range vouchers {
		if v.ShopID != nil {
			continue
		}
		var discount int64
		switch v.ValueType {
		case types.VOUCHER_VALUE_PERCENTAGE:
			discount = utils.PercentOf(out.NetTotal, float64(v.Value))
		default:
			discount = v.Value
		}
		if discount > out.NetTotal {
			discount = out.NetTotal
		}
		out.NetTotal -= discount
		out.PlatformDiscount += discount
	}

	if method != nil && slices.Contains(cfg.GatewayProviders, method.Provider) {
		switch method.FeeType {
		case types.FEE_VALUE_PERCENTAGE:
			out.PaymentFee = utils.PercentOf(out.NetTotal, float64(method.FeeValue))
		default:
			out.PaymentFee = method.FeeValue
		}
	}

	out.AdminFee = cfg.AdminFee - utils.PercentOf(cfg.AdminFee, cfg.AdminFeeDiscountPct)

	out.TotalAmount = out.NetTotal + out.PaymentFee + out.AdminFee
	return out
}
