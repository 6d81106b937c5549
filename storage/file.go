package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"wardrobeapi/logger"
	"wardrobeapi/models"

	"github.com/sirupsen/logrus"
)

const (
	WardrobeFile     = "wardrobe.json"
	PersonalInfoFile = "personal_info.json"
)

type wardrobeDocument struct {
	Clothes []models.ClothingItem `json:"clothes"`
}

// FileStore keeps each document in its own JSON file. The mutexes only make
// single loads and saves safe; a load-modify-save done by a caller is not
// atomic and concurrent writers overwrite each other.
type FileStore struct {
	WardrobePath     string
	PersonalInfoPath string
	Recovery         RecoveryPolicy

	wardrobeMu     sync.Mutex
	personalInfoMu sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{
		WardrobePath:     filepath.Join(dir, WardrobeFile),
		PersonalInfoPath: filepath.Join(dir, PersonalInfoFile),
		Recovery:         ResetToEmptyOnCorruption,
	}
}

// Initialize creates the empty documents that do not exist yet. Existing
// files are never touched.
func (s *FileStore) Initialize() error {
	s.wardrobeMu.Lock()
	err := createIfAbsent(s.WardrobePath, wardrobeDocument{Clothes: []models.ClothingItem{}})
	s.wardrobeMu.Unlock()
	if err != nil {
		return err
	}
	s.personalInfoMu.Lock()
	defer s.personalInfoMu.Unlock()
	return createIfAbsent(s.PersonalInfoPath, models.PersonalInfo{})
}

func (s *FileStore) LoadClothes() ([]models.ClothingItem, error) {
	s.wardrobeMu.Lock()
	defer s.wardrobeMu.Unlock()

	var doc wardrobeDocument
	empty := wardrobeDocument{Clothes: []models.ClothingItem{}}
	reset, err := s.load(s.WardrobePath, &doc, empty)
	if err != nil {
		return nil, err
	}
	if reset || doc.Clothes == nil {
		return []models.ClothingItem{}, nil
	}
	return doc.Clothes, nil
}

func (s *FileStore) SaveClothes(items []models.ClothingItem) error {
	if items == nil {
		items = []models.ClothingItem{}
	}
	s.wardrobeMu.Lock()
	defer s.wardrobeMu.Unlock()
	return writeJSON(s.WardrobePath, wardrobeDocument{Clothes: items})
}

func (s *FileStore) LoadPersonalInfo() (models.PersonalInfo, error) {
	s.personalInfoMu.Lock()
	defer s.personalInfoMu.Unlock()

	var info models.PersonalInfo
	reset, err := s.load(s.PersonalInfoPath, &info, models.PersonalInfo{})
	if err != nil || reset {
		return models.PersonalInfo{}, err
	}
	return info, nil
}

func (s *FileStore) SavePersonalInfo(info models.PersonalInfo) error {
	s.personalInfoMu.Lock()
	defer s.personalInfoMu.Unlock()
	return writeJSON(s.PersonalInfoPath, info)
}

// load decodes path into dst and reports whether the document was (re)set to
// empty, in which case dst must be discarded. Missing documents are always
// created empty; corrupt ones, including a field of the wrong JSON type,
// follow the recovery policy. Callers hold the document lock.
func (s *FileStore) load(path string, dst any, empty any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, writeJSON(path, empty)
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		if s.Recovery == FailOnCorruption {
			return false, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, path, err)
		}
		logger.WithFields(logrus.Fields{"path": path, "error": err.Error()}).
			Warn("storage document is corrupt, resetting it to empty")
		return true, writeJSON(path, empty)
	}
	return false, nil
}

func createIfAbsent(path string, empty any) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return writeJSON(path, empty)
}

// writeJSON replaces path through a temp file and rename so readers never see
// a half-written document.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
