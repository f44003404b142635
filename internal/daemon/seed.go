package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/config"
	"github.com/studyhive/studyhive/internal/db/models"
)

// seed inserts demo data on an empty dev database so the API has something to
// serve right after first start. Production databases are never seeded.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	demo := models.User{
		Username: "demo",
		Email:    "demo@example.com",
		Password: models.HashPassword("changeme"),
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed demo user")
		return
	}

	groups := []models.Group{
		{
			Name:        "Math Wizards",
			Description: "Join us for advanced problem solving",
			Icon:        "https://example.com/math_icon.png",
			CreatorID:   demo.ID,
		},
		{
			Name:        "Algebra Study",
			Description: "Rings, fields and everything in between",
			CreatorID:   demo.ID,
		},
	}

	for i := range groups {
		if err := db.Create(&groups[i]).Error; err != nil {
			log.Error().Err(err).Str("group", groups[i].Name).Msg("failed to seed group")
		}
	}

	log.Info().Msg("seeded demo data")
}
