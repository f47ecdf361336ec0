package common

import (
	"errors"
	"log"
	"time"

	"tbs/src/models"
	"tbs/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRequest identifies one bookable slot and the quantity asked for it.
// BasecampID must be set for the person-named GN category; EndDate only for
// day-range categories.
type SlotRequest struct {
	Category   string
	PlaceID    uint
	BasecampID *uint
	StartDate  time.Time
	EndDate    *time.Time
	Qty        int64
}

func ErrDateUnavailable() *types.AppError {
	return types.BadRequestError("Tanggal tidak tersedia")
}

// nextQuota decides admissibility for one slot. current == nil means the
// concrete-date row was never materialized and allocation starts from the
// recurring weekly quota; a present zero means the slot is sold out.
func nextQuota(current *int64, recurring int64, qty int64) (int64, error) {
	if current == nil {
		if recurring < qty {
			return 0, ErrDateUnavailable()
		}
		return recurring - qty, nil
	}
	if *current < qty {
		return 0, ErrDateUnavailable()
	}
	return *current - qty, nil
}

// ReserveQuota validates the requested slot against its weekly recurring
// quota and any materialized capacity row, then inserts or decrements the
// row. The caller must run it inside the same transaction that persists the
// order; the row lock on the parent place serializes concurrent fulfillment
// attempts for the same destination until that transaction ends.
func ReserveQuota(tx *gorm.DB, req SlotRequest) (*models.ReservationCapacity, error) {
	var place models.Place
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(&models.Place{ID: req.PlaceID}).
		First(&place).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.BadRequestError("Bad Request")
		}
		log.Printf("Error locking place %d: %s\n", req.PlaceID, err.Error())
		return nil, err
	}

	if place.Category != req.Category {
		return nil, types.BadRequestError("Bad Request")
	}

	var basecamp *models.Basecamp
	if req.Category == types.CATEGORY_MOUNTAIN {
		if req.BasecampID == nil {
			return nil, types.BadRequestError("Bad Request")
		}
		var bc models.Basecamp
		err := tx.
			Where(&models.Basecamp{ID: *req.BasecampID, PlaceID: req.PlaceID}).
			First(&bc).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.BadRequestError("Bad Request")
			}
			log.Printf("Error loading basecamp %d: %s\n", *req.BasecampID, err.Error())
			return nil, err
		}
		basecamp = &bc
	}

	recurringScope := func(q *gorm.DB) *gorm.DB {
		if basecamp != nil {
			return q.Where("basecamp_id = ?", basecamp.ID)
		}
		return q.Where("place_id = ?", req.PlaceID)
	}

	var recurring models.RecurringQuota
	err = recurringScope(tx.Model(&models.RecurringQuota{})).
		Where("weekday = ?", int(req.StartDate.Weekday())).
		First(&recurring).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No weekly quota configured: nothing to allocate from.
			return nil, ErrDateUnavailable()
		}
		log.Printf("Error loading recurring quota for place %d: %s\n", req.PlaceID, err.Error())
		return nil, err
	}

	capQuery := recurringScope(tx.Model(&models.ReservationCapacity{})).
		Where("start_date = ?", req.StartDate)
	if req.EndDate != nil {
		capQuery = capQuery.Where("end_date = ?", *req.EndDate)
	}

	var capRow models.ReservationCapacity
	err = capQuery.First(&capRow).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error loading capacity row for place %d: %s\n", req.PlaceID, err.Error())
		return nil, err
	}
	materialized := err == nil

	var current *int64
	if materialized {
		current = capRow.CurrentQuota
	}
	remaining, err := nextQuota(current, recurring.Quota, req.Qty)
	if err != nil {
		return nil, err
	}

	if !materialized {
		capRow = models.ReservationCapacity{
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			TotalQuota:   recurring.Quota,
			CurrentQuota: &remaining,
		}
		if basecamp != nil {
			capRow.BasecampID = &basecamp.ID
		} else {
			capRow.PlaceID = &req.PlaceID
		}
		if err := tx.Create(&capRow).Error; err != nil {
			log.Printf("Error creating capacity row for place %d: %s\n", req.PlaceID, err.Error())
			return nil, err
		}
		return &capRow, nil
	}

	updates := map[string]any{"current_quota": remaining}
	if capRow.CurrentQuota == nil {
		// First materialization of a pre-seeded row.
		updates["total_quota"] = recurring.Quota
	}
	err = tx.
		Model(&models.ReservationCapacity{}).
		Where("id = ?", capRow.ID).
		Updates(updates).
		Error
	if err != nil {
		log.Printf("Error updating capacity row %d: %s\n", capRow.ID, err.Error())
		return nil, err
	}
	capRow.CurrentQuota = &remaining
	return &capRow, nil
}
