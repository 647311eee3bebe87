package database

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Profile{},
	&models.Post{},
	&models.PostLike{},
	&models.Comment{},
	&models.Follow{},
	&models.Block{},
	&models.Notification{},
	&models.RevokedSession{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
