package common

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tbs/src/lib"
	"tbs/src/models"
	"tbs/src/types"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func testOrder() *models.Order {
	return &models.Order{
		ID:            "GNWB20250810120000A1B2C3D4",
		InvoiceNumber: "INV/0001/GGP/RGN/250810120000",
		UserID:        1,
		OrderType:     types.ORDER_RESERVATION,
		Category:      types.CATEGORY_MOUNTAIN,
		TotalPrice:    109000,
		GrossPrice:    100000,
		Currency:      "IDR",
		TotalQty:      2,
		Items: []models.OrderItem{
			{OrderID: "GNWB20250810120000A1B2C3D4", ShopID: 1, ItemID: 3, Name: "Basecamp Cibodas", UnitPrice: 50000, BasePrice: 50000, Qty: 2},
		},
	}
}

func testBreakdown() PriceBreakdown {
	return PriceBreakdown{
		GrossTotal:  100000,
		NetTotal:    100000,
		PaymentFee:  4000,
		AdminFee:    5000,
		TotalAmount: 109000,
		TotalQty:    2,
	}
}

func TestBuildChargeRequestBankTransfer(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "bca_va", Type: types.PAYMENT_BANK_TRANSFER, Bank: "bca", Provider: "midtrans", ExpiryDuration: 1, ExpiryUnit: "day"}
	user := &models.User{ID: 1, Name: "Budi Santoso", Email: "budi@example.com", Phone: "0812"}

	req, err := BuildChargeRequest(order, method, testBreakdown(), user, time.Now())
	assert.Nil(t, err)
	assert.Equal(t, types.PAYMENT_BANK_TRANSFER, req.PaymentType)
	assert.NotNil(t, req.BankTransfer)
	assert.Equal(t, "bca", req.BankTransfer.Bank)
	assert.Nil(t, req.Qris)
	assert.Equal(t, order.ID, req.TransactionDetails.OrderID)
	assert.Equal(t, order.TotalPrice, req.TransactionDetails.GrossAmount)
	assert.Equal(t, "Budi Santoso", req.CustomerDetails.FirstName)
	assert.Equal(t, int64(1), req.CustomExpiry.ExpiryDuration)

	var sum int64
	for _, item := range req.ItemDetails {
		sum += item.Price * item.Quantity
	}
	assert.Equal(t, req.TransactionDetails.GrossAmount, sum)
}

func TestBuildChargeRequestPlatformDiscountLine(t *testing.T) {
	order := testOrder()
	order.TotalPrice = 99000
	method := &models.PaymentMethod{Code: "qris", Type: types.PAYMENT_QRIS, Provider: "midtrans", Acquirer: "gopay", ExpiryDuration: 15, ExpiryUnit: "minute"}
	breakdown := testBreakdown()
	breakdown.PlatformDiscount = 10000
	breakdown.NetTotal = 90000
	breakdown.TotalAmount = 99000

	req, err := BuildChargeRequest(order, method, breakdown, nil, time.Now())
	assert.Nil(t, err)
	assert.NotNil(t, req.Qris)

	var discountLine *lib.ItemDetail
	var sum int64
	for i, item := range req.ItemDetails {
		sum += item.Price * item.Quantity
		if item.ID == "platform-discount" {
			discountLine = &req.ItemDetails[i]
		}
	}
	assert.NotNil(t, discountLine)
	assert.Equal(t, int64(-10000), discountLine.Price)
	assert.Equal(t, req.TransactionDetails.GrossAmount, sum)
}

func TestBuildChargeRequestEchannel(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "mandiri_bill", Type: types.PAYMENT_ECHANNEL, Provider: "midtrans", ExpiryDuration: 1, ExpiryUnit: "day"}

	req, err := BuildChargeRequest(order, method, testBreakdown(), nil, time.Now())
	assert.Nil(t, err)
	assert.NotNil(t, req.Echannel)
	assert.Equal(t, order.InvoiceNumber, req.Echannel.BillInfo2)
}

func TestBuildChargeRequestRejectsOffline(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "ots", Type: types.PAYMENT_OTS, Provider: "internal"}

	_, err := BuildChargeRequest(order, method, testBreakdown(), nil, time.Now())
	assert.NotNil(t, err)
}

func TestNormalizeChargeResponseBankTransfer(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "bca_va", Type: types.PAYMENT_BANK_TRANSFER}
	resp := &lib.ChargeResponse{
		StatusCode:      lib.MIDTRANS_STATUS_PENDING,
		TransactionTime: "2025-08-10 12:00:00",
		ExpiryTime:      "2025-08-11 12:00:00",
		VaNumbers:       []lib.VANumber{{Bank: "bca", VaNumber: "12345678901"}},
	}

	action, err := NormalizeChargeResponse(order, method, resp)
	assert.Nil(t, err)
	assert.Equal(t, PAYMENT_LABEL_VA, *action.PaymentType)
	assert.Equal(t, "bca", action.Bank)
	assert.Equal(t, "12345678901", action.VaNumber)
	assert.Equal(t, order.InvoiceNumber, action.NoOrder)
	assert.Equal(t, "2025-08-11 12:00:00", action.ExpiryTime)
}

func TestNormalizeChargeResponsePermata(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "permata_va", Type: types.PAYMENT_BANK_TRANSFER}
	resp := &lib.ChargeResponse{StatusCode: lib.MIDTRANS_STATUS_PENDING, PermataVaNumber: "8778001122334455"}

	action, err := NormalizeChargeResponse(order, method, resp)
	assert.Nil(t, err)
	assert.Equal(t, "permata", action.Bank)
	assert.Equal(t, "8778001122334455", action.VaNumber)
}

func TestNormalizeChargeResponseMissingVaNumber(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "bca_va", Type: types.PAYMENT_BANK_TRANSFER}
	resp := &lib.ChargeResponse{StatusCode: lib.MIDTRANS_STATUS_PENDING}

	_, err := NormalizeChargeResponse(order, method, resp)
	assert.NotNil(t, err)
}

func TestNormalizeChargeResponseEchannel(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "mandiri_bill", Type: types.PAYMENT_ECHANNEL}
	resp := &lib.ChargeResponse{StatusCode: lib.MIDTRANS_STATUS_PENDING, BillKey: "990000001111", BillerCode: "70012"}

	action, err := NormalizeChargeResponse(order, method, resp)
	assert.Nil(t, err)
	assert.Equal(t, PAYMENT_LABEL_VA, *action.PaymentType)
	assert.Equal(t, "mandiri", action.Bank)
	assert.Equal(t, "990000001111", action.VaNumber)
}

func TestNormalizeChargeResponseQris(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "qris", Type: types.PAYMENT_QRIS}
	resp := &lib.ChargeResponse{
		StatusCode: lib.MIDTRANS_STATUS_PENDING,
		Actions: []lib.ChargeAction{
			{Name: "generate-qr-code", Method: "GET", URL: "https://api.midtrans.com/v2/qris/qr"},
		},
	}

	action, err := NormalizeChargeResponse(order, method, resp)
	assert.Nil(t, err)
	assert.Equal(t, PAYMENT_LABEL_QRIS, *action.PaymentType)
	assert.Equal(t, "https://api.midtrans.com/v2/qris/qr", action.QrURL)
}

func TestNormalizeChargeResponseGopay(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "gopay", Type: types.PAYMENT_GOPAY}
	resp := &lib.ChargeResponse{
		StatusCode: lib.MIDTRANS_STATUS_PENDING,
		Actions: []lib.ChargeAction{
			{Name: "generate-qr-code", Method: "GET", URL: "https://api.midtrans.com/v2/gopay/qr"},
			{Name: "deeplink-redirect", Method: "GET", URL: "gojek://gopay/merchanttransfer"},
		},
	}

	action, err := NormalizeChargeResponse(order, method, resp)
	assert.Nil(t, err)
	assert.Equal(t, PAYMENT_LABEL_GOPAY, *action.PaymentType)
	assert.Equal(t, "https://api.midtrans.com/v2/gopay/qr", action.QrURL)
	assert.Equal(t, "gojek://gopay/merchanttransfer", action.RedirectURL)
}

func TestNormalizeChargeResponseShopeepay(t *testing.T) {
	order := testOrder()
	method := &models.PaymentMethod{Code: "shopeepay", Type: types.PAYMENT_SHOPEEPAY}
	resp := &lib.ChargeResponse{
		StatusCode: lib.MIDTRANS_STATUS_PENDING,
		Actions: []lib.ChargeAction{
			{Name: "deeplink-redirect", Method: "GET", URL: "shopeeid://main"},
		},
	}

	action, err := NormalizeChargeResponse(order, method, resp)
	assert.Nil(t, err)
	assert.Equal(t, PAYMENT_LABEL_SHOPEEPAY, *action.PaymentType)
	assert.Equal(t, "shopeeid://main", action.RedirectURL)
}

func TestBuildOfflineAction(t *testing.T) {
	order := testOrder()
	action := BuildOfflineAction(order)
	assert.Equal(t, PAYMENT_LABEL_OTS, *action.PaymentType)
	assert.Equal(t, order.ID, action.OrderID)
	assert.Equal(t, order.InvoiceNumber, action.NoOrder)
	assert.Empty(t, action.VaNumber)
}

func TestExpiryTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, ExpiryTTL(&models.PaymentMethod{ExpiryDuration: 1, ExpiryUnit: "day"}))
	assert.Equal(t, 2*time.Hour, ExpiryTTL(&models.PaymentMethod{ExpiryDuration: 2, ExpiryUnit: "hour"}))
	assert.Equal(t, 15*time.Minute, ExpiryTTL(&models.PaymentMethod{ExpiryDuration: 15, ExpiryUnit: "minute"}))
}

func TestPaymentActionCacheRoundTrip(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	order := testOrder()
	action := &types.PaymentActionResponse{
		OrderID:     order.ID,
		NoOrder:     order.InvoiceNumber,
		PaymentType: strPtr(PAYMENT_LABEL_VA),
		Bank:        "bca",
		VaNumber:    "12345678901",
	}
	value, err := json.Marshal(action)
	assert.Nil(t, err)

	key := PaymentCacheKeyPrefix + order.ID
	mock.ExpectSet(key, value, 24*time.Hour).SetVal("OK")
	err = CachePaymentAction(context.Background(), rdb, order.ID, action, 24*time.Hour)
	assert.Nil(t, err)

	mock.ExpectGet(key).SetVal(string(value))
	cached, err := GetCachedPaymentAction(context.Background(), rdb, order.ID)
	assert.Nil(t, err)
	assert.Equal(t, action.OrderID, cached.OrderID)
	assert.Equal(t, action.VaNumber, cached.VaNumber)

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetCachedPaymentActionMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := PaymentCacheKeyPrefix + "GNWB00000000000000AAAAAAAA"
	mock.ExpectGet(key).RedisNil()

	_, err := GetCachedPaymentAction(context.Background(), rdb, "GNWB00000000000000AAAAAAAA")
	var appErr *types.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}
