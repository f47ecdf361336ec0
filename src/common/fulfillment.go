package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"tbs/src/config"
	"tbs/src/db"
	"tbs/src/lib"
	"tbs/src/models"
	"tbs/src/types"
	"tbs/src/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// resolvedItem pairs one request line with its storage-backed identity and
// base price.
type resolvedItem struct {
	ItemID    uint
	Name      string
	ShopID    uint
	BasePrice int64
	Qty       int64
	Travelers []types.TravelerBody
}

type fulfillmentInput struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func validateOrderRequest(params *types.CreateOrderRequestBody) (*fulfillmentInput, error) {
	in := &fulfillmentInput{}

	switch params.Category {
	case types.CATEGORY_MOUNTAIN, types.CATEGORY_CAMPING:
		if params.OrderType != string(types.ORDER_RESERVATION) {
			return nil, types.BadRequestError("Bad Request")
		}
		if params.PlaceID == nil || params.StartDate == nil {
			return nil, types.BadRequestError("Bad Request")
		}
		start, err := time.Parse(config.DATE_PARSE_FORMAT, *params.StartDate)
		if err != nil {
			return nil, types.BadRequestError("Bad Request")
		}
		in.StartDate = &start
	case types.CATEGORY_PRODUCT:
		if params.OrderType != string(types.ORDER_TRANSACTION) {
			return nil, types.BadRequestError("Bad Request")
		}
		for _, item := range params.Items {
			if item.ProductID == nil {
				return nil, types.BadRequestError("Bad Request")
			}
		}
	default:
		return nil, types.BadRequestError("Bad Request")
	}

	if params.Category == types.CATEGORY_MOUNTAIN {
		if params.BasecampID == nil || params.EndDate == nil {
			return nil, types.BadRequestError("Bad Request")
		}
		end, err := time.Parse(config.DATE_PARSE_FORMAT, *params.EndDate)
		if err != nil || end.Before(*in.StartDate) {
			return nil, types.BadRequestError("Bad Request")
		}
		in.EndDate = &end

		seen := map[string]bool{}
		for _, item := range params.Items {
			if int64(len(item.Travelers)) != item.Qty {
				return nil, types.BadRequestError("Bad Request")
			}
			for _, t := range item.Travelers {
				if utils.ContainsSQLMeta(t.Name) || utils.ContainsSQLMeta(t.IdentityNumber) ||
					utils.ContainsSQLMeta(t.Phone) || utils.ContainsSQLMeta(t.Nationality) {
					return nil, types.BadRequestError("Bad Request")
				}
				if seen[t.IdentityNumber] {
					return nil, types.BadRequestError("Bad Request")
				}
				seen[t.IdentityNumber] = true
			}
		}
	}

	return in, nil
}

func resolveItems(tx *gorm.DB, params *types.CreateOrderRequestBody) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(params.Items))

	switch params.Category {
	case types.CATEGORY_MOUNTAIN:
		var place models.Place
		if err := tx.Where(&models.Place{ID: *params.PlaceID}).First(&place).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.BadRequestError("Bad Request")
			}
			return nil, err
		}
		var basecamp models.Basecamp
		if err := tx.Where(&models.Basecamp{ID: *params.BasecampID, PlaceID: place.ID}).First(&basecamp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.BadRequestError("Bad Request")
			}
			return nil, err
		}
		for _, item := range params.Items {
			resolved = append(resolved, resolvedItem{
				ItemID:    basecamp.ID,
				Name:      basecamp.Name,
				ShopID:    place.ShopID,
				BasePrice: basecamp.Price,
				Qty:       item.Qty,
				Travelers: item.Travelers,
			})
		}
	case types.CATEGORY_CAMPING:
		var place models.Place
		if err := tx.Where(&models.Place{ID: *params.PlaceID}).First(&place).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.BadRequestError("Bad Request")
			}
			return nil, err
		}
		for _, item := range params.Items {
			resolved = append(resolved, resolvedItem{
				ItemID:    place.ID,
				Name:      place.Name,
				ShopID:    place.ShopID,
				BasePrice: place.Price,
				Qty:       item.Qty,
			})
		}
	default:
		for _, item := range params.Items {
			var product models.Product
			if err := tx.Where(&models.Product{ID: *item.ProductID}).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, types.BadRequestError("Bad Request")
				}
				return nil, err
			}
			resolved = append(resolved, resolvedItem{
				ItemID:    product.ID,
				Name:      product.Name,
				ShopID:    product.ShopID,
				BasePrice: product.Price,
				Qty:       item.Qty,
			})
		}
	}

	return resolved, nil
}

// translateDBError maps integrity violations onto client-facing conditions;
// anything else propagates as-is.
func translateDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "idx_voucher_usages_disposable" {
				return types.BadRequestError("Invalid Voucher")
			}
			return types.NewAppError(http.StatusBadRequest, types.CODE_DUPLICATE, "Duplicate order")
		case "23503":
			return types.BadRequestError("Bad Request")
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.NewAppError(http.StatusBadRequest, types.CODE_DUPLICATE, "Duplicate order")
	}
	return err
}

func salutationFor(gender string) string {
	switch gender {
	case "L", "M":
		return "Tuan"
	case "P", "F":
		return "Nyonya"
	}
	return ""
}

// CreateOrder is the synchronous fulfillment path: resolve vouchers, lock
// and reserve slot capacity, price the cart, persist the whole order, and
// initiate payment — one transaction, committed only after the provider
// answers (or immediately for ots).
func CreateOrder(ctx context.Context, cfg config.AppConfig, params *types.CreateOrderRequestBody, userID uint) (*types.PaymentActionResponse, error) {
	in, err := validateOrderRequest(params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	conn := db.GetDb()

	var user models.User
	if err := conn.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
		log.Printf("Error loading user %d: %s\n", userID, err.Error())
		return nil, err
	}

	var method models.PaymentMethod
	err = conn.
		Where(&models.PaymentMethod{Code: params.PaymentMethod}).
		Where("enabled = ?", true).
		First(&method).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.BadRequestError("Payment method is not available")
		}
		log.Printf("Error loading payment method %s: %s\n", params.PaymentMethod, err.Error())
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.FulfillmentTimeout)
	defer cancel()

	var action *types.PaymentActionResponse
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vouchers, err := ResolveVouchers(tx, params.Vouchers, userID, now)
		if err != nil {
			return err
		}

		items, err := resolveItems(tx, params)
		if err != nil {
			return err
		}

		var totalQty int64
		for _, item := range items {
			totalQty += item.Qty
		}

		if params.OrderType == string(types.ORDER_RESERVATION) {
			slot := SlotRequest{
				Category:   params.Category,
				PlaceID:    *params.PlaceID,
				BasecampID: params.BasecampID,
				StartDate:  *in.StartDate,
				EndDate:    in.EndDate,
				Qty:        totalQty,
			}
			if _, err := ReserveQuota(tx, slot); err != nil {
				return err
			}
		}

		priceable := make([]PriceableItem, 0, len(items))
		for _, item := range items {
			priceable = append(priceable, PriceableItem{
				ShopID:    item.ShopID,
				BasePrice: item.BasePrice,
				Qty:       item.Qty,
			})
		}
		breakdown := ComputeOrderPrice(priceable, vouchers, &method, cfg)

		order := models.Order{
			ID:            utils.GenerateOrderID(params.Category, cfg.ChannelCode, now),
			InvoiceNumber: utils.GenerateInvoiceNumber(userID, items[0].Name, types.OrderType(params.OrderType), params.Category, now),
			UserID:        userID,
			OrderType:     types.OrderType(params.OrderType),
			Category:      params.Category,
			TotalPrice:    breakdown.TotalAmount,
			GrossPrice:    breakdown.GrossTotal,
			Currency:      cfg.Currency,
			PaymentMethod: method.Code,
			TotalQty:      totalQty,
			Status:        types.ORDER_IN_PROGRESS,
		}
		if err := tx.Create(&order).Error; err != nil {
			log.Printf("Error creating order %s: %s\n", order.ID, err.Error())
			return translateDBError(err)
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for i, item := range items {
			line := breakdown.Lines[i]
			oi := models.OrderItem{
				OrderID:    order.ID,
				ShopID:     item.ShopID,
				ItemID:     item.ItemID,
				Name:       item.Name,
				UnitPrice:  line.NetUnitPrice,
				BasePrice:  line.BaseUnitPrice,
				Discount:   line.Discount,
				Qty:        item.Qty,
				StartDate:  in.StartDate,
				EndDate:    in.EndDate,
				BasecampID: params.BasecampID,
			}
			orderItems = append(orderItems, oi)
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			log.Printf("Error creating order items for %s: %s\n", order.ID, err.Error())
			return translateDBError(err)
		}
		order.Items = orderItems

		fees := []models.Fee{
			{OrderID: order.ID, Kind: types.FEE_ADMIN, Value: breakdown.AdminFee, ValueType: types.FEE_VALUE_PRICE},
		}
		if breakdown.PaymentFee > 0 {
			fees = append(fees, models.Fee{OrderID: order.ID, Kind: types.FEE_PAYMENT, Value: breakdown.PaymentFee, ValueType: types.FEE_VALUE_PRICE})
		}
		if err := tx.Create(&fees).Error; err != nil {
			log.Printf("Error creating fees for %s: %s\n", order.ID, err.Error())
			return translateDBError(err)
		}

		if len(vouchers) > 0 {
			usages := make([]models.VoucherUsage, 0, len(vouchers))
			for _, v := range vouchers {
				usage := models.VoucherUsage{
					Code:      v.Code,
					OrderID:   order.ID,
					UserID:    userID,
					UsageType: v.UsageType,
					Status:    "used",
					UsedAt:    &now,
				}
				if v.ShopID != nil {
					for _, oi := range orderItems {
						if oi.ShopID == *v.ShopID {
							usage.OrderItemID = &oi.ID
							break
						}
					}
				}
				usages = append(usages, usage)
			}
			if err := tx.Create(&usages).Error; err != nil {
				log.Printf("Error creating voucher usages for %s: %s\n", order.ID, err.Error())
				return translateDBError(err)
			}
		}

		if params.Category == types.CATEGORY_MOUNTAIN {
			travelers := make([]models.Traveler, 0, totalQty)
			for i, item := range params.Items {
				for _, t := range item.Travelers {
					traveler := models.Traveler{
						OrderItemID:    orderItems[i].ID,
						Name:           t.Name,
						IdentityType:   t.IdentityType,
						IdentityNumber: t.IdentityNumber,
						Phone:          t.Phone,
						Salutation:     salutationFor(t.Gender),
						Nationality:    t.Nationality,
					}
					if t.Birthday != "" {
						if birthday, err := time.Parse(config.DATE_PARSE_FORMAT, t.Birthday); err == nil {
							traveler.Birthday = &birthday
						}
					}
					travelers = append(travelers, traveler)
				}
			}
			if err := tx.Create(&travelers).Error; err != nil {
				log.Printf("Error creating travelers for %s: %s\n", order.ID, err.Error())
				return translateDBError(err)
			}
		}

		// Payment initiation stays inside the transaction: the order and
		// its capacity decrement only commit once the gateway has answered.
		// The slot's row lock is therefore held across the provider round
		// trip; see DESIGN.md for the trade-off.
		if method.Type == types.PAYMENT_OTS {
			action = BuildOfflineAction(&order)
			return nil
		}

		chargeReq, err := BuildChargeRequest(&order, &method, breakdown, &user, now)
		if err != nil {
			return err
		}
		resp, err := lib.GetMidtransClient().Charge(ctx, chargeReq)
		if err != nil {
			return err
		}
		action, err = NormalizeChargeResponse(&order, &method, resp)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event, err := finalizeFulfillment(ctx, cfg, lib.GetRedisClient(), &method, action, userID)
	if err != nil {
		log.Printf("Error finalizing order %s: %s\n", action.NoOrder, err.Error())
		return nil, err
	}

	go func() {
		if err := lib.KafkaProduceMessage("orderFulfillment", "order-created", event); err != nil {
			log.Printf("Error publishing order-created for %s: %s\n", action.NoOrder, err.Error())
		}
	}()

	return action, nil
}

// finalizeFulfillment runs the post-commit tail: replay-cache the action
// under the storage order id, snapshot the order-created event payload, then
// swap the external order id for its encrypted form. The cache write happens
// only after the transaction committed, so a rolled-back order can never
// leave a replayable action behind; the event snapshot is taken before the
// id swap so the returned payload is safe to hand to another goroutine.
func finalizeFulfillment(ctx context.Context, cfg config.AppConfig, rdb *redis.Client, method *models.PaymentMethod, action *types.PaymentActionResponse, userID uint) (map[string]any, error) {
	if method.Type != types.PAYMENT_OTS && rdb != nil {
		if err := CachePaymentAction(ctx, rdb, action.OrderID, action, ExpiryTTL(method)); err != nil {
			log.Printf("Payment action for %s will not be replayable: %s\n", action.OrderID, err.Error())
		}
	}

	event := map[string]any{
		"order_id": action.OrderID,
		"no_order": action.NoOrder,
		"user_id":  userID,
	}

	encrypted, err := utils.EncryptMessage(cfg.SecretKey, action.OrderID)
	if err != nil {
		return nil, err
	}
	action.OrderID = encrypted

	return event, nil
}

// GetOrder loads one persisted order with its line items and fees. The id
// arrives in its encrypted external form.
func GetOrder(cfg config.AppConfig, encryptedID string, userID uint) (*models.Order, error) {
	orderID, err := utils.DecryptMessage(cfg.SecretKey, encryptedID)
	if err != nil {
		return nil, types.BadRequestError("Bad Request")
	}

	conn := db.GetDb()
	var order models.Order
	err = conn.
		Model(&models.Order{}).
		Where(&models.Order{ID: *orderID, UserID: userID}).
		Preload("Items").
		Preload("Items.Travelers").
		Preload("Fees").
		First(&order).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFoundError("Order not found")
		}
		log.Printf("Error loading order %s: %s\n", *orderID, err.Error())
		return nil, err
	}
	order.ID = encryptedID
	return &order, nil
}

// GetPaymentAction replays the cached provider action payload for polling
// clients.
func GetPaymentAction(ctx context.Context, cfg config.AppConfig, encryptedID string) (*types.PaymentActionResponse, error) {
	orderID, err := utils.DecryptMessage(cfg.SecretKey, encryptedID)
	if err != nil {
		return nil, types.BadRequestError("Bad Request")
	}

	rdb := lib.GetRedisClient()
	if rdb == nil {
		return nil, types.ServerError("Cache is not available")
	}
	action, err := GetCachedPaymentAction(ctx, rdb, *orderID)
	if err != nil {
		return nil, err
	}
	action.OrderID = encryptedID
	return action, nil
}
