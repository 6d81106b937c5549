package storage

import (
	"os"
	"path/filepath"
	"testing"

	"wardrobeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func sampleItem(id string) models.ClothingItem {
	return models.ClothingItem{
		ID:          id,
		Name:        "Grey hoodie",
		Type:        models.ClothingHoodie,
		Color:       "grey",
		FabricType:  models.FabricCotton,
		Fit:         models.FitBaggy,
		GraphicSize: models.GraphicNone,
		Brand:       strPtr("Acme"),
	}
}

func TestInitializeCreatesEmptyDocuments(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Initialize())

	data, err := os.ReadFile(store.WardrobePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"clothes": []}`, string(data))

	data, err = os.ReadFile(store.PersonalInfoPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Initialize())
	require.NoError(t, store.SaveClothes([]models.ClothingItem{sampleItem("a")}))
	require.NoError(t, store.SavePersonalInfo(models.PersonalInfo{Gender: strPtr("female")}))

	require.NoError(t, store.Initialize())
	require.NoError(t, store.Initialize())

	clothes, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Equal(t, []models.ClothingItem{sampleItem("a")}, clothes)
	info, err := store.LoadPersonalInfo()
	require.NoError(t, err)
	assert.Equal(t, "female", *info.Gender)
}

func TestSaveClothesReplacesAndKeepsOrder(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.SaveClothes([]models.ClothingItem{sampleItem("a"), sampleItem("b")}))
	require.NoError(t, store.SaveClothes([]models.ClothingItem{sampleItem("c"), sampleItem("a")}))

	clothes, err := store.LoadClothes()
	require.NoError(t, err)
	require.Len(t, clothes, 2)
	assert.Equal(t, "c", clothes[0].ID)
	assert.Equal(t, "a", clothes[1].ID)
}

func TestLoadMissingDocumentReinitializes(t *testing.T) {
	store := NewFileStore(t.TempDir())

	clothes, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Empty(t, clothes)
	assert.FileExists(t, store.WardrobePath)

	info, err := store.LoadPersonalInfo()
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
	assert.FileExists(t, store.PersonalInfoPath)
}

// A corrupt document silently loses every record it held.
func TestLoadCorruptDocumentResetsToEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.WardrobePath, []byte(`{"clothes": [{"id": "a"`), 0o644))
	require.NoError(t, os.WriteFile(store.PersonalInfoPath, []byte(`not json`), 0o644))

	clothes, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Empty(t, clothes)
	data, err := os.ReadFile(store.WardrobePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"clothes": []}`, string(data))

	info, err := store.LoadPersonalInfo()
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
}

// Decoding is type-strict: one field of the wrong JSON type counts as
// corruption and the whole document is reset, valid fields included.
func TestLoadWrongFieldTypeResetsWholeDocument(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.PersonalInfoPath, []byte(`{"gender": "f", "height": 180}`), 0o644))
	require.NoError(t, os.WriteFile(store.WardrobePath, []byte(`{"clothes": [{"id": "a", "name": "A"}, {"id": 7}]}`), 0o644))

	info, err := store.LoadPersonalInfo()
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
	data, err := os.ReadFile(store.PersonalInfoPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	clothes, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Empty(t, clothes)
}

func TestLoadCorruptDocumentFailPolicy(t *testing.T) {
	store := NewFileStore(t.TempDir())
	store.Recovery = FailOnCorruption
	garbage := []byte(`{{{`)
	require.NoError(t, os.WriteFile(store.WardrobePath, garbage, 0o644))

	_, err := store.LoadClothes()
	assert.ErrorIs(t, err, ErrCorruptDocument)

	data, err := os.ReadFile(store.WardrobePath)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestPersonalInfoOmitsNilFields(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.SavePersonalInfo(models.PersonalInfo{Height: strPtr("180cm")}))

	data, err := os.ReadFile(store.PersonalInfoPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"height": "180cm"}`, string(data))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.SaveClothes([]models.ClothingItem{sampleItem("a")}))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryStoreCopiesSlices(t *testing.T) {
	store := NewMemoryStore(sampleItem("a"))
	clothes, err := store.LoadClothes()
	require.NoError(t, err)
	clothes[0].Name = "changed"

	again, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Equal(t, "Grey hoodie", again[0].Name)
}
