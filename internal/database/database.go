package database

import (
	"context"
	"log"
	"time"

	"github.com/calroads/circuity-api/internal/config"
	"github.com/calroads/circuity-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	logLevel := logger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Printf("Failed to register metrics plugin: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(300 * time.Second)
	}

	return &DB{db}, nil
}

// efficiencyTiersView classifies stored calculations for reporting only;
// nothing in the calculation path reads it.
const efficiencyTiersView = `
CREATE OR REPLACE VIEW circuity_efficiency_tiers AS
SELECT id,
       origin_name,
       destination_name,
       circuity_factor,
       efficiency_percent,
       units,
       created_at,
       CASE
           WHEN circuity_factor <= 1.2 THEN 'excellent'
           WHEN circuity_factor <= 1.4 THEN 'good'
           WHEN circuity_factor <= 1.8 THEN 'fair'
           ELSE 'poor'
       END AS efficiency_tier,
       CASE
           WHEN circuity_factor <= 1.15 THEN 'highway_direct'
           WHEN circuity_factor <= 1.5 THEN 'arterial'
           ELSE 'local_winding'
       END AS route_type_guess
FROM circuity_calculations`

// Migrate creates the calculations table and the reporting view
func Migrate(db *DB) error {
	if err := db.AutoMigrate(&models.Calculation{}); err != nil {
		return err
	}
	return db.Exec(efficiencyTiersView).Error
}

// Ping verifies the underlying connection is alive
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
