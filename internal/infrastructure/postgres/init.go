package postgres

import (
	"log"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.ForecastServiceConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.ForecastDB.Dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}
	return db
}

// AutoMigrate creates the schema from the gorm models. Used when SQL
// migrations are disabled and by repository tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FinancialEventModel{},
		&models.AccountSettingsModel{},
		&models.ForecastWeightModel{},
		&models.PayoutRecordModel{},
		&models.AccuracyLogModel{},
		&logger.ForecastRunLog{},
	)
}
