package db

import (
	"polyterminal/internal/models"
)

// AutoMigrate creates tables in dependency order: flat entities first so the
// junction tables can declare their foreign keys.
func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Tag{},
		&models.Event{},
		&models.Market{},
		&models.Series{},
		&models.Collection{},
		&models.Category{},
		&models.Chat{},
		&models.EventTag{},
		&models.MarketTag{},
		&models.MarketCategory{},
		&models.TagRelationship{},
		&models.SeriesEvent{},
		&models.SeriesCollection{},
		&models.SeriesCategory{},
		&models.SeriesChat{},
		&models.SeriesTag{},
		&models.Comment{},
		&models.CommentReaction{},
		&models.SyncState{},
	)
}
