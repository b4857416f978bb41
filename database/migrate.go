package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/tuber-treats/models"
	"github.com/yeremiapane/tuber-treats/utils"
)

// Migrate creates or updates the five delivery tables. Parents are listed
// before the tables that reference them.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Customer{},
		&models.Driver{},
		&models.Topping{},
		&models.Order{},
		&models.OrderTopping{},
	)
	if err != nil {
		utils.ErrorLogger.Printf("AutoMigrate failed: %v", err)
		return err
	}
	if err := backfillCustomerNameKeys(db); err != nil {
		utils.ErrorLogger.Printf("Backfilling customer name keys failed: %v", err)
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// backfillCustomerNameKeys fills name_key for customers stored before the
// column existed.
func backfillCustomerNameKeys(db *gorm.DB) error {
	var customers []models.Customer
	if err := db.Where("name_key = ?", "").Find(&customers).Error; err != nil {
		return err
	}
	for _, c := range customers {
		err := db.Model(&models.Customer{}).
			Where("id = ?", c.ID).
			UpdateColumn("name_key", models.CustomerNameKey(c.Name)).Error
		if err != nil {
			return err
		}
	}
	if len(customers) > 0 {
		utils.InfoLogger.Printf("Backfilled name_key for %d customers", len(customers))
	}
	return nil
}
