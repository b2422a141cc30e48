package migration

import (
	"embed"

	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
)

//go:embed scripts
var scriptsFS embed.FS

func AutoMigrateModels() []interface{} {
	return models.All()
}
