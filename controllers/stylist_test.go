package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/test"
)

func TestAnalyzeImageNotConfigured(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{Unconfigured: true})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/analyze-image", models.ImageAnalysisIn{Image: "data:image/png;base64,aGk="}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "Gemini API key not configured")
}

func TestAnalyzeImageOk(t *testing.T) {
	analysis := &models.ImageAnalysisResult{
		Type:        test.StrPointer("hoodie"),
		Color:       test.StrPointer("grey"),
		GraphicSize: "none",
		Fit:         "baggy",
		Confidence:  map[string]float64{"color": 0.8, "type": 0.85},
	}
	e, _ := setupTestServer(&test.StylistMock{Analysis: analysis})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/analyze-image", models.ImageAnalysisIn{Image: "data:image/png;base64,aGk="}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"name": null, "color": "grey", "type": "hoodie", "fabricType": null, "brand": null,
		"graphicSize": "none", "fit": "baggy", "confidence": {"color": 0.8, "type": 0.85}
	}`, rec.Body.String())
}

func TestAnalyzeImageFailures(t *testing.T) {
	quota := &services.StylistError{Kind: services.ErrQuota, Message: "Gemini API quota exceeded."}
	e, _ := setupTestServer(&test.StylistMock{Err: quota})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/analyze-image", models.ImageAnalysisIn{Image: "aGk="}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error analyzing image: Gemini API quota exceeded.", detail(t, rec))

	rec = serve(e, test.NewJSONRequest(http.MethodPost, "/api/analyze-image", models.ImageAnalysisIn{Image: "data:image/png;base64,%%%"}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, detail(t, rec), "Failed to decode base64 image")

	rec = serve(e, test.NewJSONRequest(http.MethodPost, "/api/analyze-image", models.ImageAnalysisIn{}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecommendOutfitEmptyWardrobe(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/recommend-outfit", models.OutfitRecommendationIn{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No clothing items in wardrobe", detail(t, rec))
}

func TestRecommendOutfitFallback(t *testing.T) {
	stylist := &test.StylistMock{Err: &services.StylistError{Kind: services.ErrUpstream, Message: "down"}}
	e, _ := setupTestServer(stylist, sampleItem("tee", models.ClothingTShirt), sampleItem("jeans", models.ClothingPants))

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/recommend-outfit", models.OutfitRecommendationIn{
		OutfitType: test.StrPointer("work"),
		Occasion:   test.StrPointer("smart casual"),
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "smart casual", stylist.StylePrompt)
	assert.Equal(t, "work", stylist.Occasion)

	var result models.OutfitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "tee", result.Outfit.Top.ID)
	assert.Equal(t, "jeans", result.Outfit.Bottom.ID)
	assert.Nil(t, result.Outfit.Outerwear)
	assert.Empty(t, result.MissingItems)
	assert.Contains(t, result.Reasoning, "AI unavailable")
	assert.NotContains(t, rec.Body.String(), `"shoes"`)
}

func TestRecommendOutfitStylePromptWins(t *testing.T) {
	stylist := &test.StylistMock{}
	e, _ := setupTestServer(stylist, sampleItem("tee", models.ClothingTShirt))

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/recommend-outfit", models.OutfitRecommendationIn{
		Occasion:    test.StrPointer("party"),
		StylePrompt: test.StrPointer("all black"),
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all black", stylist.StylePrompt)
	assert.Equal(t, "", stylist.Occasion)
}

func TestRecommendOutfitAI(t *testing.T) {
	stylist := &test.StylistMock{Outfit: models.OutfitRecommendation{
		Top:          &models.OutfitPick{ID: test.StrPointer("tee"), Reason: "bright"},
		Shoes:        &models.ShoesPick{Suggestion: "loafers", Reason: "smart"},
		Reasoning:    "Balanced colors",
		MissingItems: []string{"belt"},
	}}
	e, _ := setupTestServer(stylist, sampleItem("tee", models.ClothingTShirt))

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/recommend-outfit", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.OutfitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "tee", result.Outfit.Top.ID)
	assert.Equal(t, "Balanced colors", result.Reasoning)
	assert.Equal(t, []string{"belt"}, result.MissingItems)
	assert.Equal(t, "loafers", result.Shoes.Suggestion)
}

func TestRecommendOutfitUnexpectedError(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{Err: errors.New("nil map write")}, sampleItem("tee", models.ClothingTShirt))

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/recommend-outfit", models.OutfitRecommendationIn{}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "nil map write", detail(t, rec))
}

func TestSuggestNewClothesFallback(t *testing.T) {
	e, _ := setupTestServer(&test.StylistMock{Unconfigured: true})

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/suggest-new-clothes", models.SuggestNewClothesIn{}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.SuggestionsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, "t-shirt", result.Suggestions[0].ItemType)
	assert.Equal(t, "black", result.Suggestions[0].RecommendedAttributes.Color)
	assert.Equal(t, "cotton", result.Suggestions[0].RecommendedAttributes.FabricType)
	assert.Equal(t, 0, result.WardrobeAnalysis.TotalItems)
	assert.Len(t, result.WardrobeAnalysis.Gaps, 5)
}

func TestSuggestNewClothesAI(t *testing.T) {
	suggestions := []models.ClothingSuggestion{{
		ItemType: "jacket",
		Reason:   "layering",
		RecommendedAttributes: models.RecommendedAttributes{
			Color: "olive", Fit: "regular", FabricType: "cotton", Reasoning: "earthy",
		},
	}}
	e, _ := setupTestServer(&test.StylistMock{Suggestions: suggestions}, sampleItem("tee", models.ClothingTShirt))

	rec := serve(e, test.NewJSONRequest(http.MethodPost, "/api/suggest-new-clothes", models.SuggestNewClothesIn{
		PersonalInfo: &models.PersonalInfo{PreferredStyle: test.StrPointer("outdoorsy")},
		Preferences:  map[string]any{"budget": "low"},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.SuggestionsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, suggestions, result.Suggestions)
	assert.Equal(t, "t-shirt", result.WardrobeAnalysis.MostCommonType)
}
