package database

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey; the
		// completion ledger relies on this to turn a racing insert into an
		// "already completed" outcome.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.Completion{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed a starter catalog so a fresh install has scannable codes.
	var count int64
	db.Model(&model.Activity{}).Count(&count)
	if count == 0 {
		defaultActivities := []model.Activity{
			{
				Code:           "FICAM-ATELIER-01",
				Title:          "Atelier Stop Motion",
				Description:    "Initiation à l'animation image par image",
				Category:       model.CategoryMorning,
				IsMandatory:    true,
				Question:       "Quelle couleur domine l'affiche de l'atelier ?",
				ExpectedAnswer: "Bleu",
			},
			{
				Code:        "FICAM-PROJ-01",
				Title:       "Projection d'ouverture",
				Category:    model.CategoryEvening,
				IsMandatory: true,
			},
			{
				Code:     "FICAM-CONF-01",
				Title:    "Rencontre avec les studios",
				Category: model.CategoryAfternoon,
			},
		}
		for _, a := range defaultActivities {
			db.Create(&a)
		}
	}

	return db, nil
}
