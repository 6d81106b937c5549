package storage

import (
	"errors"
	"fmt"

	"wardrobeapi/config"
	"wardrobeapi/models"
)

// Store persists the clothing collection and the personal-info record as two
// independent documents. Every call observes the latest persisted state;
// nothing is cached between calls.
type Store interface {
	Initialize() error
	LoadClothes() ([]models.ClothingItem, error)
	SaveClothes(items []models.ClothingItem) error
	LoadPersonalInfo() (models.PersonalInfo, error)
	SavePersonalInfo(info models.PersonalInfo) error
}

// RecoveryPolicy decides what a load does with a missing or unreadable document.
type RecoveryPolicy int

const (
	// ResetToEmptyOnCorruption replaces a corrupt document with an empty one
	// and reports no error. All records in the corrupt document are lost.
	ResetToEmptyOnCorruption RecoveryPolicy = iota
	// FailOnCorruption returns ErrCorruptDocument and leaves the file untouched.
	FailOnCorruption
)

var ErrCorruptDocument = errors.New("corrupt storage document")

// NewStore builds the store selected by cfg.Driver.
func NewStore(cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.DataDir), nil
	case "postgres":
		return NewPostgresStore(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
