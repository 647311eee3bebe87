package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var C *gorm.DB

func NewGorm() error {
	return Connect(postgres.Open(viper.GetString("database.dsn")))
}

// Connect opens the global connection with the given dialector.
func Connect(dialector gorm.Dialector) error {
	level := logger.Silent
	if viper.GetBool("debug.database") {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful: true,
			LogLevel: level,
		}),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("unable to open database: %v", err)
	}

	C = db
	return nil
}
