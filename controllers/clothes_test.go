package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeapi/config"
	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/storage"
	"wardrobeapi/test"
)

var testServerConfig = config.Server{AllowOrigins: []string{"http://localhost:5173"}}

func setupTestServer(stylist *test.StylistMock, items ...models.ClothingItem) (*echo.Echo, *storage.MemoryStore) {
	store := storage.NewMemoryStore(items...)
	wardrobe := services.NewWardrobeService(store, stylist)
	return SetupServer(wardrobe, &test.AWSProviderMock{}, &test.URLCacheMock{}, testServerConfig), store
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func sampleItem(id string, t models.ClothingType) models.ClothingItem {
	return models.ClothingItem{
		ID:          id,
		Name:        "Item " + id,
		Type:        t,
		Color:       "black",
		FabricType:  models.FabricCotton,
		Fit:         models.FitRegular,
		GraphicSize: models.GraphicNone,
	}
}

func validDraft() models.ClothingItemIn {
	return models.ClothingItemIn{
		Name:        test.StrPointer("Grey hoodie"),
		Type:        models.ClothingHoodie,
		Color:       test.StrPointer("grey"),
		FabricType:  models.FabricCotton,
		Fit:         models.FitBaggy,
		GraphicSize: models.GraphicSmall,
		Brand:       test.StrPointer("Acme"),
	}
}

func TestRootAndHealth(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Welcome to Personal Fashion Suggester API"}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestCreateClothingOk(t *testing.T) {
	e, store := setupTestServer(&test.StylistMock{})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing", validDraft()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.ClothingItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, validDraft().WithID(created.ID), created)

	items, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Equal(t, []models.ClothingItem{created}, items)
}

func TestCreateClothingFreeText(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{})

	draft := validDraft()
	draft.Name = test.StrPointer(strings.Repeat("n", 201))
	draft.Color = test.StrPointer("")
	draft.Brand = test.StrPointer(strings.Repeat("b", 101))
	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing", draft))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.ClothingItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.Name, 201)
	assert.Equal(t, "", created.Color)
}

func TestCreateClothingInvalidInput(t *testing.T) {
	e, store := setupTestServer(&test.StylistMock{})

	draft := validDraft()
	draft.Type = "cape"
	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing", draft))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, detail(t, rec), "Type")

	draft = validDraft()
	draft.Name = nil
	rec = serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing", draft))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	draft = validDraft()
	draft.Color = nil
	rec = serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing", draft))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(e, test.NewJSONRequestRaw(http.MethodPost, "/api/clothing", `{"name": `))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	items, err := store.LoadClothes()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListGetDeleteClothing(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{}, sampleItem("a", models.ClothingTShirt), sampleItem("b", models.ClothingPants))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ClothesListOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Clothes, 2)
	assert.Equal(t, "a", list.Clothes[0].ID)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/b", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"pants"`)

	rec = serve(e, httptest.NewRequest(http.MethodDelete, "/api/clothing/a", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Clothing item deleted successfully"}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodDelete, "/api/clothing/a", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Clothing item not found", detail(t, rec))

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/a", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyListIsArray(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{})
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clothes": []}`, rec.Body.String())
}

func TestCreateUploadURL(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing/upload-url", models.ClothingUploadFileIn{FileName: "shirt.png"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out models.ClothingUploadFileOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, strings.HasPrefix(out.ObjectKey, "clothes/"))
	assert.Equal(t, "https://r2.example/upload/"+out.ObjectKey, out.UploadURL)

	rec = serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing/upload-url", models.ClothingUploadFileIn{FileName: "notes.txt"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateUploadURLWithoutStorage(t *testing.T) {
	wardrobe := services.NewWardrobeService(storage.NewMemoryStore(), &test.StylistMock{})
	e := SetupServer(wardrobe, nil, nil, testServerConfig)

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing/upload-url", models.ClothingUploadFileIn{FileName: "shirt.png"}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetImageURL(t *testing.T) {
	stored := sampleItem("stored", models.ClothingShirt)
	stored.ImageURL = test.StrPointer("clothes/2024-01-01/x.png")
	external := sampleItem("external", models.ClothingShirt)
	external.ImageURL = test.StrPointer("https://shop.example/x.png")
	e, _ := setupTestServer(&test.StylistMock{}, stored, external, sampleItem("bare", models.ClothingShirt))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/stored/image-url", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url": "https://cdn.example/clothes/2024-01-01/x.png"}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/external/image-url", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url": "https://shop.example/x.png"}`, rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/bare/image-url", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/missing/image-url", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetImageURLCacheFailure(t *testing.T) {
	stored := sampleItem("stored", models.ClothingShirt)
	stored.ImageURL = test.StrPointer("clothes/x.png")
	wardrobe := services.NewWardrobeService(storage.NewMemoryStore(stored), &test.StylistMock{})
	e := SetupServer(wardrobe, &test.AWSProviderMock{}, &test.URLCacheMock{Err: errors.New("r2 down")}, testServerConfig)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/clothing/stored/image-url", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "r2 down", detail(t, rec))
}

func TestFileStoreBackedServer(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())
	require.NoError(t, store.Initialize())
	e := SetupServer(services.NewWardrobeService(store, &test.StylistMock{}), nil, nil, testServerConfig)

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/clothing", validDraft()))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/wardrobe/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.WardrobeStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalItems)
	assert.Equal(t, map[string]int{"hoodie": 1}, stats.ByType)
}
