package storage

import (
	"fmt"
	"time"

	"wardrobeapi/logger"
	"wardrobeapi/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type clothingRow struct {
	ID          string `gorm:"primaryKey"`
	Position    int    `gorm:"index"`
	Name        string
	Type        string
	Color       string
	FabricType  string
	Fit         string
	GraphicSize string
	Brand       *string
	ImageURL    *string
}

func (clothingRow) TableName() string {
	return "clothing_items"
}

type personalInfoRow struct {
	ID               uint `gorm:"primaryKey"`
	Gender           *string
	Height           *string
	Weight           *string
	PreferredStyle   *string
	OtherDescription *string
}

func (personalInfoRow) TableName() string {
	return "personal_infos"
}

const personalInfoRowID = 1

// PostgresStore keeps the wardrobe in two tables. Item order is kept in the
// position column since SaveClothes always replaces the whole collection.
type PostgresStore struct {
	DB *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	return &PostgresStore{DB: db}, nil
}

func migrate(db *gorm.DB, model interface{}) error {
	if err := db.AutoMigrate(model); err != nil {
		logger.WithError(err).Errorf("error while migrating %T", model)
		return err
	}
	return nil
}

func (s *PostgresStore) Initialize() error {
	if err := migrate(s.DB, &clothingRow{}); err != nil {
		return err
	}
	if err := migrate(s.DB, &personalInfoRow{}); err != nil {
		return err
	}
	return s.DB.FirstOrCreate(&personalInfoRow{}, personalInfoRow{ID: personalInfoRowID}).Error
}

func (s *PostgresStore) LoadClothes() ([]models.ClothingItem, error) {
	var rows []clothingRow
	if err := s.DB.Order("position asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load clothes: %w", err)
	}
	items := make([]models.ClothingItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.ClothingItem{
			ID:          r.ID,
			Name:        r.Name,
			Type:        models.ClothingType(r.Type),
			Color:       r.Color,
			FabricType:  models.FabricType(r.FabricType),
			Fit:         models.Fit(r.Fit),
			GraphicSize: models.GraphicSize(r.GraphicSize),
			Brand:       r.Brand,
			ImageURL:    r.ImageURL,
		})
	}
	return items, nil
}

func (s *PostgresStore) SaveClothes(items []models.ClothingItem) error {
	rows := make([]clothingRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, clothingRow{
			ID:          item.ID,
			Position:    i,
			Name:        item.Name,
			Type:        string(item.Type),
			Color:       item.Color,
			FabricType:  string(item.FabricType),
			Fit:         string(item.Fit),
			GraphicSize: string(item.GraphicSize),
			Brand:       item.Brand,
			ImageURL:    item.ImageURL,
		})
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&clothingRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

func (s *PostgresStore) LoadPersonalInfo() (models.PersonalInfo, error) {
	var row personalInfoRow
	r := s.DB.Limit(1).Find(&row, "id = ?", personalInfoRowID)
	if r.Error != nil {
		return models.PersonalInfo{}, fmt.Errorf("load personal info: %w", r.Error)
	}
	return models.PersonalInfo{
		Gender:           row.Gender,
		Height:           row.Height,
		Weight:           row.Weight,
		PreferredStyle:   row.PreferredStyle,
		OtherDescription: row.OtherDescription,
	}, nil
}

func (s *PostgresStore) SavePersonalInfo(info models.PersonalInfo) error {
	row := personalInfoRow{
		ID:               personalInfoRowID,
		Gender:           info.Gender,
		Height:           info.Height,
		Weight:           info.Weight,
		PreferredStyle:   info.PreferredStyle,
		OtherDescription: info.OtherDescription,
	}
	// Select("*") so nil fields overwrite what was stored before.
	return s.DB.Select("*").Save(&row).Error
}

// Reset empties both tables; used by tests against a live database.
func (s *PostgresStore) Reset() {
	s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&clothingRow{})
	s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&personalInfoRow{})
}
