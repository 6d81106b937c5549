package storage

import (
	"slices"
	"sync"

	"wardrobeapi/models"
)

// MemoryStore is an in-process Store for tests and dry runs.
type MemoryStore struct {
	mu           sync.Mutex
	clothes      []models.ClothingItem
	personalInfo models.PersonalInfo
}

func NewMemoryStore(items ...models.ClothingItem) *MemoryStore {
	return &MemoryStore{clothes: slices.Clone(items)}
}

func (s *MemoryStore) Initialize() error {
	return nil
}

func (s *MemoryStore) LoadClothes() ([]models.ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clothes == nil {
		return []models.ClothingItem{}, nil
	}
	return slices.Clone(s.clothes), nil
}

func (s *MemoryStore) SaveClothes(items []models.ClothingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clothes = slices.Clone(items)
	return nil
}

func (s *MemoryStore) LoadPersonalInfo() (models.PersonalInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personalInfo, nil
}

func (s *MemoryStore) SavePersonalInfo(info models.PersonalInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personalInfo = info
	return nil
}
