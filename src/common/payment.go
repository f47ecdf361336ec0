package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tbs/src/config"
	"tbs/src/lib"
	"tbs/src/models"
	"tbs/src/types"

	"github.com/redis/go-redis/v9"
)

const PaymentCacheKeyPrefix = "init-payment-transaction-"

// Normalized payment type labels of the unified fulfillment response.
const (
	PAYMENT_LABEL_VA        = "VA"
	PAYMENT_LABEL_QRIS      = "QRIS"
	PAYMENT_LABEL_GOPAY     = "GOPAY"
	PAYMENT_LABEL_SHOPEEPAY = "SHOPEEPAY"
	PAYMENT_LABEL_OTS       = "OTS"
)

// BuildChargeRequest assembles the provider payload for one gateway-routed
// payment method. The item breakdown carries every order line at its net
// price plus synthetic lines for the aggregate platform discount (negative),
// the payment fee, and the admin fee, so the lines sum exactly to the
// charged gross amount.
func BuildChargeRequest(order *models.Order, method *models.PaymentMethod, breakdown PriceBreakdown, user *models.User, now time.Time) (lib.ChargeRequest, error) {
	req := lib.ChargeRequest{
		PaymentType: method.Type,
		TransactionDetails: lib.TransactionDetails{
			OrderID:     order.ID,
			GrossAmount: order.TotalPrice,
		},
		CustomExpiry: &lib.CustomExpiry{
			OrderTime:      now.Format(config.ORDER_TIME_FORMAT),
			ExpiryDuration: method.ExpiryDuration,
			Unit:           method.ExpiryUnit,
		},
	}

	for _, item := range order.Items {
		req.ItemDetails = append(req.ItemDetails, lib.ItemDetail{
			ID:       fmt.Sprintf("%d", item.ItemID),
			Name:     item.Name,
			Price:    item.UnitPrice,
			Quantity: item.Qty,
		})
	}
	if breakdown.PlatformDiscount > 0 {
		req.ItemDetails = append(req.ItemDetails, lib.ItemDetail{
			ID:       "platform-discount",
			Name:     "Voucher Discount",
			Price:    -breakdown.PlatformDiscount,
			Quantity: 1,
		})
	}
	if breakdown.PaymentFee > 0 {
		req.ItemDetails = append(req.ItemDetails, lib.ItemDetail{
			ID:       "payment-fee",
			Name:     "Payment Fee",
			Price:    breakdown.PaymentFee,
			Quantity: 1,
		})
	}
	if breakdown.AdminFee > 0 {
		req.ItemDetails = append(req.ItemDetails, lib.ItemDetail{
			ID:       "admin-fee",
			Name:     "Admin Fee",
			Price:    breakdown.AdminFee,
			Quantity: 1,
		})
	}

	if user != nil {
		req.CustomerDetails = &lib.CustomerDetails{
			FirstName: user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
		}
	}

	switch method.Type {
	case types.PAYMENT_BANK_TRANSFER:
		req.BankTransfer = &lib.BankTransfer{Bank: method.Bank}
	case types.PAYMENT_QRIS:
		req.Qris = &lib.Qris{Acquirer: method.Acquirer}
	case types.PAYMENT_GOPAY:
		req.Gopay = &lib.Gopay{EnableCallback: method.CallbackURL != "", CallbackURL: method.CallbackURL}
	case types.PAYMENT_SHOPEEPAY:
		req.Shopeepay = &lib.Shopeepay{CallbackURL: method.CallbackURL}
	case types.PAYMENT_ECHANNEL:
		req.Echannel = &lib.Echannel{BillInfo1: "Pembayaran:", BillInfo2: order.InvoiceNumber}
	default:
		return lib.ChargeRequest{}, types.BadRequestError("Payment method is not available")
	}

	return req, nil
}

func findAction(actions []lib.ChargeAction, name string) string {
	for _, a := range actions {
		if a.Name == name {
			return a.URL
		}
	}
	return ""
}

func strPtr(s string) *string {
	return &s
}

// NormalizeChargeResponse flattens the provider's payment-type-specific
// response into the unified fulfillment result. Bank-transfer variants
// surface a virtual account number, QR and wallet variants surface their
// action urls.
func NormalizeChargeResponse(order *models.Order, method *models.PaymentMethod, resp *lib.ChargeResponse) (*types.PaymentActionResponse, error) {
	action := &types.PaymentActionResponse{
		OrderID:         order.ID,
		NoOrder:         order.InvoiceNumber,
		TransactionTime: resp.TransactionTime,
		ExpiryTime:      resp.ExpiryTime,
	}

	switch method.Type {
	case types.PAYMENT_BANK_TRANSFER:
		action.PaymentType = strPtr(PAYMENT_LABEL_VA)
		if resp.PermataVaNumber != "" {
			action.Bank = "permata"
			action.VaNumber = resp.PermataVaNumber
			break
		}
		if len(resp.VaNumbers) == 0 {
			return nil, fmt.Errorf("charge response for order %s carries no virtual account number", order.ID)
		}
		action.Bank = resp.VaNumbers[0].Bank
		action.VaNumber = resp.VaNumbers[0].VaNumber
	case types.PAYMENT_ECHANNEL:
		action.PaymentType = strPtr(PAYMENT_LABEL_VA)
		action.Bank = "mandiri"
		action.VaNumber = resp.BillKey
	case types.PAYMENT_QRIS:
		action.PaymentType = strPtr(PAYMENT_LABEL_QRIS)
		action.QrURL = findAction(resp.Actions, "generate-qr-code")
	case types.PAYMENT_GOPAY:
		action.PaymentType = strPtr(PAYMENT_LABEL_GOPAY)
		action.QrURL = findAction(resp.Actions, "generate-qr-code")
		action.RedirectURL = findAction(resp.Actions, "deeplink-redirect")
	case types.PAYMENT_SHOPEEPAY:
		action.PaymentType = strPtr(PAYMENT_LABEL_SHOPEEPAY)
		action.RedirectURL = findAction(resp.Actions, "deeplink-redirect")
	default:
		return nil, fmt.Errorf("unsupported gateway payment type %s", method.Type)
	}

	return action, nil
}

// BuildOfflineAction is the ots path: no gateway involved, the order
// settles on site.
func BuildOfflineAction(order *models.Order) *types.PaymentActionResponse {
	return &types.PaymentActionResponse{
		OrderID:     order.ID,
		NoOrder:     order.InvoiceNumber,
		PaymentType: strPtr(PAYMENT_LABEL_OTS),
	}
}

// ExpiryTTL converts a payment method's charge expiry policy into a cache
// time-to-live.
func ExpiryTTL(method *models.PaymentMethod) time.Duration {
	d := time.Duration(method.ExpiryDuration)
	switch method.ExpiryUnit {
	case "day":
		return d * 24 * time.Hour
	case "hour":
		return d * time.Hour
	default:
		return d * time.Minute
	}
}

// CachePaymentAction stores the normalized action payload so polling
// clients can replay the QR/redirect data until the charge expires.
func CachePaymentAction(ctx context.Context, rdb *redis.Client, orderID string, action *types.PaymentActionResponse, ttl time.Duration) error {
	value, err := json.Marshal(action)
	if err != nil {
		return err
	}
	key := PaymentCacheKeyPrefix + orderID
	if err := rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("Failed to cache payment action for %s: %s\n", orderID, err.Error())
		return err
	}
	return nil
}

func GetCachedPaymentAction(ctx context.Context, rdb *redis.Client, orderID string) (*types.PaymentActionResponse, error) {
	key := PaymentCacheKeyPrefix + orderID
	value, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, types.NotFoundError("Payment action not found")
	} else if err != nil {
		log.Printf("Error reading payment action for %s: %s\n", orderID, err.Error())
		return nil, err
	}
	var action types.PaymentActionResponse
	if err := json.Unmarshal([]byte(value), &action); err != nil {
		return nil, err
	}
	return &action, nil
}
