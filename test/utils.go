package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"wardrobeapi/models"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	return NewJSONRequestRaw(method, target, JsonString(param))
}

func NewJSONRequestRaw(method string, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func StrPointer(s string) *string {
	return &s
}

// StylistMock returns canned answers and records the last outfit request.
type StylistMock struct {
	Unconfigured bool
	Analysis     *models.ImageAnalysisResult
	Suggestions  []models.ClothingSuggestion
	Outfit       models.OutfitRecommendation
	Err          error

	mu          sync.Mutex
	StylePrompt string
	Occasion    string
}

func (m *StylistMock) Configured() bool {
	return !m.Unconfigured
}

func (m *StylistMock) AnalyzeImage(ctx context.Context, image []byte) (*models.ImageAnalysisResult, error) {
	return m.Analysis, m.Err
}

func (m *StylistMock) GenerateClothingSuggestions(ctx context.Context, analysis models.WardrobeAnalysis, info models.PersonalInfo) ([]models.ClothingSuggestion, error) {
	return m.Suggestions, m.Err
}

func (m *StylistMock) GenerateOutfitRecommendation(ctx context.Context, items []models.ClothingItem, info models.PersonalInfo, stylePrompt, occasion string) (models.OutfitRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StylePrompt, m.Occasion = stylePrompt, occasion
	return m.Outfit, m.Err
}

type AWSProviderMock struct {
	Err error
}

func (m *AWSProviderMock) PresignLink(ctx context.Context, fileName string) (string, error) {
	return "https://r2.example/upload/" + fileName, m.Err
}

func (m *AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, fileKey string) (string, error) {
	return "https://r2.example/read/" + fileKey, m.Err
}

type URLCacheMock struct {
	Err error
}

func (m *URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return "https://cdn.example/" + objectKey, m.Err
}
