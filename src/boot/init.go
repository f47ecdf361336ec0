package boot

import (
	"log"

	"tbs/src/db"
	"tbs/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Product{},
		&models.Place{},
		&models.Basecamp{},
		&models.RecurringQuota{},
		&models.ReservationCapacity{},
		&models.Voucher{},
		&models.VoucherUsage{},
		&models.PaymentMethod{},
		&models.Order{},
		&models.OrderItem{},
		&models.Fee{},
		&models.Traveler{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}
