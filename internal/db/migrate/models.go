package migrate

import (
	"github.com/apitemplate/apitemplate/internal/db/models"
)

func init() {
	Register(
		&models.Item{},
	)
}
