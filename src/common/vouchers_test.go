package common

import (
	"testing"
	"time"

	"tbs/src/models"
	"tbs/src/types"

	"github.com/stretchr/testify/assert"
)

func testVoucher(code string, source types.VoucherSource, shopID *uint) models.Voucher {
	now := time.Now()
	return models.Voucher{
		Code:      code,
		Value:     1000,
		ValueType: types.VOUCHER_VALUE_PRICE,
		UsageType: types.VOUCHER_REUSABLE,
		Source:    source,
		ShopID:    shopID,
		StartDate: now.AddDate(0, 0, -7),
		EndDate:   now.AddDate(0, 0, 7),
		Active:    true,
	}
}

func TestMatchVoucherClaimsUnknownCode(t *testing.T) {
	claims := []types.VoucherClaimBody{{Code: "TIDAKADA"}}

	_, err := matchVoucherClaims(claims, nil, nil, time.Now())
	assert.EqualError(t, err, "Invalid Voucher")
}

func TestMatchVoucherClaimsAllOrNothing(t *testing.T) {
	claims := []types.VoucherClaimBody{
		{Code: "VALID"},
		{Code: "TIDAKADA"},
	}
	vouchers := []models.Voucher{testVoucher("VALID", types.VOUCHER_PLATFORM, nil)}

	_, err := matchVoucherClaims(claims, vouchers, nil, time.Now())
	assert.EqualError(t, err, "Invalid Voucher")
}

func TestMatchVoucherClaimsUsedDisposable(t *testing.T) {
	claims := []types.VoucherClaimBody{{Code: "SEKALI"}}
	v := testVoucher("SEKALI", types.VOUCHER_PLATFORM, nil)
	v.UsageType = types.VOUCHER_DISPOSABLE

	_, err := matchVoucherClaims(claims, []models.Voucher{v}, map[string]bool{"SEKALI": true}, time.Now())
	assert.EqualError(t, err, "Invalid Voucher")
}

func TestMatchVoucherClaimsMerchantScopeRequired(t *testing.T) {
	claims := []types.VoucherClaimBody{{Code: "TOKO"}}
	vouchers := []models.Voucher{testVoucher("TOKO", types.VOUCHER_MERCHANT, uintPtr(7))}

	_, err := matchVoucherClaims(claims, vouchers, nil, time.Now())
	assert.EqualError(t, err, "Invalid Voucher")
}

func TestMatchVoucherClaimsPlatformRejectsShopScope(t *testing.T) {
	claims := []types.VoucherClaimBody{{Code: "PLAT", ShopID: uintPtr(7)}}
	vouchers := []models.Voucher{testVoucher("PLAT", types.VOUCHER_PLATFORM, nil)}

	_, err := matchVoucherClaims(claims, vouchers, nil, time.Now())
	assert.EqualError(t, err, "Invalid Voucher")
}

func TestMatchVoucherClaimsShopMismatch(t *testing.T) {
	claims := []types.VoucherClaimBody{{Code: "TOKO", ShopID: uintPtr(8)}}
	vouchers := []models.Voucher{testVoucher("TOKO", types.VOUCHER_MERCHANT, uintPtr(7))}

	_, err := matchVoucherClaims(claims, vouchers, nil, time.Now())
	assert.EqualError(t, err, "Invalid Voucher")
}

func TestMatchVoucherClaimsValidPair(t *testing.T) {
	claims := []types.VoucherClaimBody{
		{Code: "TOKO", ShopID: uintPtr(7)},
		{Code: "PLAT"},
	}
	vouchers := []models.Voucher{
		testVoucher("TOKO", types.VOUCHER_MERCHANT, uintPtr(7)),
		testVoucher("PLAT", types.VOUCHER_PLATFORM, nil),
	}

	applied, err := matchVoucherClaims(claims, vouchers, nil, time.Now())
	assert.Nil(t, err)
	assert.Len(t, applied, 2)
	assert.Equal(t, uint(7), *applied[0].ShopID)
	assert.Nil(t, applied[1].ShopID)
}

func TestMatchVoucherClaimsExpiringTodayStillApplies(t *testing.T) {
	now := time.Now()
	claims := []types.VoucherClaimBody{{Code: "HARIINI"}}
	v := testVoucher("HARIINI", types.VOUCHER_PLATFORM, nil)
	// Window closed at midnight this morning; the end-of-day stretch keeps
	// it usable until the day rolls over.
	v.EndDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	applied, err := matchVoucherClaims(claims, []models.Voucher{v}, nil, now)
	assert.Nil(t, err)
	assert.Len(t, applied, 1)
}
