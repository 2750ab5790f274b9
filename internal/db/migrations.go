package db

import (
	"gorm.io/gorm"

	"github.com/moontigerdev/server-inventory-manager/internal/models"
)

// Migrate creates or updates the five inventory tables. The child tables all
// carry a server_id foreign key with ON DELETE CASCADE, declared on the model
// associations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Server{},
		&models.ServerHardware{},
		&models.ServerIP{},
		&models.ServerBIOS{},
		&models.ServerBMC{},
	)
}
