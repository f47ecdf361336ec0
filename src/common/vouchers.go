package common

import (
	"log"
	"time"

	"tbs/src/models"
	"tbs/src/types"
	"tbs/src/utils"

	"gorm.io/gorm"
)

// ResolveVouchers fetches every claimed voucher code and verifies all of
// them are applicable for this user right now. Application is all or
// nothing: one missing, expired, inactive, or already-consumed disposable
// code fails the whole fulfillment request.
func ResolveVouchers(tx *gorm.DB, claims []types.VoucherClaimBody, userID uint, now time.Time) ([]AppliedVoucher, error) {
	if len(claims) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(claims))
	for _, c := range claims {
		codes = append(codes, c.Code)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var vouchers []models.Voucher
	err := tx.
		Model(&models.Voucher{}).
		Where("code IN ?", codes).
		Where("active = ?", true).
		Where("start_date <= ?", now).
		Where("end_date >= ?", startOfDay).
		Find(&vouchers).
		Error
	if err != nil {
		log.Printf("Error resolving vouchers %v: %s\n", codes, err.Error())
		return nil, err
	}

	usedCodes := map[string]bool{}
	disposable := make([]string, 0)
	for _, v := range vouchers {
		if v.UsageType == types.VOUCHER_DISPOSABLE {
			disposable = append(disposable, v.Code)
		}
	}
	// This read is advisory under READ COMMITTED: two concurrent orders can
	// both see the code as unused. The partial unique index on
	// voucher_usages is the real guard; the second insert fails with a
	// unique violation that surfaces as "Invalid Voucher".
	if len(disposable) > 0 {
		var used []string
		err := tx.
			Model(&models.VoucherUsage{}).
			Where("code IN ?", disposable).
			Where("user_id = ?", userID).
			Where("status = ?", "used").
			Pluck("code", &used).
			Error
		if err != nil {
			log.Printf("Error checking voucher usage for user %d: %s\n", userID, err.Error())
			return nil, err
		}
		for _, code := range used {
			usedCodes[code] = true
		}
	}

	return matchVoucherClaims(claims, vouchers, usedCodes, now)
}

// matchVoucherClaims merges resolved vouchers with the caller-supplied
// scope. The validity window's end is stretched to the end of its calendar
// day so a voucher expiring today still applies.
func matchVoucherClaims(claims []types.VoucherClaimBody, vouchers []models.Voucher, usedCodes map[string]bool, now time.Time) ([]AppliedVoucher, error) {
	byCode := map[string]models.Voucher{}
	for _, v := range vouchers {
		byCode[v.Code] = v
	}

	applied := make([]AppliedVoucher, 0, len(claims))
	for _, claim := range claims {
		v, ok := byCode[claim.Code]
		if !ok {
			return nil, types.BadRequestError("Invalid Voucher")
		}
		if utils.EndOfDay(v.EndDate).Before(now) {
			return nil, types.BadRequestError("Invalid Voucher")
		}
		if usedCodes[v.Code] {
			return nil, types.BadRequestError("Invalid Voucher")
		}
		// A merchant voucher must be claimed against a shop; a platform
		// voucher must not be.
		if v.Source == types.VOUCHER_MERCHANT && claim.ShopID == nil {
			return nil, types.BadRequestError("Invalid Voucher")
		}
		if v.Source != types.VOUCHER_MERCHANT && claim.ShopID != nil {
			return nil, types.BadRequestError("Invalid Voucher")
		}
		if v.ShopID != nil && claim.ShopID != nil && *v.ShopID != *claim.ShopID {
			return nil, types.BadRequestError("Invalid Voucher")
		}
		applied = append(applied, AppliedVoucher{
			Code:      v.Code,
			Value:     v.Value,
			ValueType: v.ValueType,
			UsageType: v.UsageType,
			ShopID:    claim.ShopID,
		})
	}
	return applied, nil
}
