package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"wardrobeapi/languageutil"
	"wardrobeapi/logger"
	"wardrobeapi/models"
)

// LLMModelName is the Gemini model used for stylist calls.
type LLMModelName int32

const (
	Flash20 LLMModelName = iota
	Flash25
	FlashLite25
	Pro25
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite"
	default:
		return "gemini-2.0-flash"
	}
}

// ParseModelName maps a configured model name to LLMModelName. Unknown or
// empty names select gemini-2.0-flash.
func ParseModelName(name string) LLMModelName {
	for _, m := range []LLMModelName{Flash20, Flash25, FlashLite25, Pro25} {
		if m.String() == strings.TrimSpace(name) {
			return m
		}
	}
	return Flash20
}

const DefaultStylistTimeout = 30 * time.Second

const quotaMessage = "Gemini API quota exceeded. This API key may not have free tier access, or you've hit the rate limit. " +
	"Please check: https://ai.google.dev/gemini-api/docs/rate-limits. " +
	"You may need to enable billing or wait before trying again."

// StylistProvider is the AI side of the wardrobe. Errors returned by an
// implementation are *StylistError values or context errors.
type StylistProvider interface {
	// Configured reports whether a credential is available.
	Configured() bool
	AnalyzeImage(ctx context.Context, image []byte) (*models.ImageAnalysisResult, error)
	GenerateClothingSuggestions(ctx context.Context, analysis models.WardrobeAnalysis, info models.PersonalInfo) ([]models.ClothingSuggestion, error)
	GenerateOutfitRecommendation(ctx context.Context, items []models.ClothingItem, info models.PersonalInfo, stylePrompt, occasion string) (models.OutfitRecommendation, error)
}

// generateFunc sends parts to the model and returns its text answer.
type generateFunc func(ctx context.Context, parts []*genai.Part) (string, error)

type GeminiStylist struct {
	APIKey  string
	Model   LLMModelName
	Timeout time.Duration

	generate generateFunc
}

func NewGeminiStylist(apiKey string, model LLMModelName, timeout time.Duration) *GeminiStylist {
	if timeout <= 0 {
		timeout = DefaultStylistTimeout
	}
	s := &GeminiStylist{APIKey: strings.TrimSpace(apiKey), Model: model, Timeout: timeout}
	s.generate = s.generateContent
	return s
}

func (s *GeminiStylist) Configured() bool {
	return s.APIKey != ""
}

func floatPointer(f float32) *float32 {
	return &f
}

func (s *GeminiStylist) generateContent(ctx context.Context, parts []*genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", newStylistError(ErrConfiguration, fmt.Sprintf("Failed to create Gemini client: %v", err), err)
	}

	result, err := client.Models.GenerateContent(ctx, s.Model.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		Temperature: floatPointer(0.4),
	})
	if err != nil {
		return "", classifyUpstreamError(err)
	}
	return GetFirstCandidateText(result)
}

// GetFirstCandidateText returns the answer text, failing when the prompt or
// a candidate was blocked or the model said nothing.
func GetFirstCandidateText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil {
		return "", newStylistError(ErrUpstream, "Gemini API returned empty response", nil)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", newStylistError(ErrUpstream, fmt.Sprintf("Gemini API blocked the request: %s %s",
			result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage), nil)
	}
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return "", newStylistError(ErrUpstream, fmt.Sprintf("content blocked by safety setting: %s", rating.Category), nil)
			}
		}
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", newStylistError(ErrUpstream, "Gemini API returned empty response", nil)
	}
	return text, nil
}

// classifyUpstreamError turns a failed model call into ErrQuota when the
// upstream signals rate limiting or billing trouble, ErrUpstream otherwise.
func classifyUpstreamError(err error) error {
	var stylistErr *StylistError
	if errors.As(err, &stylistErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newStylistError(ErrUpstream, "Gemini API request timed out", err)
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	var googleErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	case errors.As(err, &googleErr):
		code = googleErr.Code
	}

	text := strings.ToLower(err.Error())
	if code == 429 || strings.Contains(text, "429") || strings.Contains(text, "quota") || strings.Contains(text, "billing") {
		return newStylistError(ErrQuota, quotaMessage, err)
	}
	return newStylistError(ErrUpstream, fmt.Sprintf("Gemini API error: %v", err), err)
}

func errNotConfigured() error {
	return newStylistError(ErrConfiguration,
		"Gemini API key not configured. Please set GEMINI_API_KEY in config.yaml or as environment variable.", nil)
}

func (s *GeminiStylist) call(ctx context.Context, parts ...*genai.Part) (string, error) {
	if !s.Configured() {
		return "", errNotConfigured()
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	text, err := s.generate(ctx, parts)
	if err != nil {
		return "", classifyUpstreamError(err)
	}
	return text, nil
}

func (s *GeminiStylist) AnalyzeImage(ctx context.Context, image []byte) (*models.ImageAnalysisResult, error) {
	if !s.Configured() {
		return nil, errNotConfigured()
	}
	data, mimeType, err := PrepareImage(image)
	if err != nil {
		return nil, err
	}
	text, err := s.call(ctx, genai.NewPartFromText(imageAnalysisPrompt), genai.NewPartFromBytes(data, mimeType))
	if err != nil {
		logger.WithError(err).Warn("image analysis failed")
		return nil, err
	}
	return ParseImageAnalysis(text)
}

func (s *GeminiStylist) GenerateClothingSuggestions(ctx context.Context, analysis models.WardrobeAnalysis, info models.PersonalInfo) ([]models.ClothingSuggestion, error) {
	text, err := s.call(ctx, genai.NewPartFromText(suggestionsPrompt(analysis, info)))
	if err != nil {
		return nil, err
	}
	raw, err := ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}
	var suggestions []models.ClothingSuggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		return nil, newStylistError(ErrParse, fmt.Sprintf("Unexpected suggestions format: %v", err), err)
	}
	valid := suggestions[:0]
	for _, suggestion := range suggestions {
		suggestion.ItemType = languageutil.NormalizeEnum(suggestion.ItemType)
		if suggestion.ItemType == "" {
			continue
		}
		valid = append(valid, suggestion)
	}
	return valid, nil
}

func (s *GeminiStylist) GenerateOutfitRecommendation(ctx context.Context, items []models.ClothingItem, info models.PersonalInfo, stylePrompt, occasion string) (models.OutfitRecommendation, error) {
	text, err := s.call(ctx, genai.NewPartFromText(outfitPrompt(items, info, stylePrompt, occasion)))
	if err != nil {
		return models.OutfitRecommendation{}, err
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return models.OutfitRecommendation{}, err
	}
	var recommendation models.OutfitRecommendation
	if err := json.Unmarshal(raw, &recommendation); err != nil {
		return models.OutfitRecommendation{}, newStylistError(ErrParse, fmt.Sprintf("Unexpected outfit format: %v", err), err)
	}
	return recommendation, nil
}

type rawImageAnalysis struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Type        *string `json:"type"`
	FabricType  *string `json:"fabricType"`
	Brand       *string `json:"brand"`
	GraphicSize *string `json:"graphicSize"`
	Fit         *string `json:"fit"`
}

// ParseImageAnalysis turns the model's answer to the image prompt into an
// ImageAnalysisResult. Enum values outside the known sets are dropped
// (type, fabricType) or defaulted (graphicSize "none", fit "regular").
func ParseImageAnalysis(text string) (*models.ImageAnalysisResult, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var parsed rawImageAnalysis
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, newStylistError(ErrParse, "Could not parse JSON from Gemini response", err)
	}

	result := &models.ImageAnalysisResult{
		Name:        nonEmpty(parsed.Name),
		Color:       nonEmpty(parsed.Color),
		Brand:       nonEmpty(parsed.Brand),
		GraphicSize: string(models.GraphicNone),
		Fit:         string(models.FitRegular),
		Confidence:  map[string]float64{"color": 0.8, "type": 0.85},
	}
	if v := normalized(parsed.Type); v != "" && models.ValidClothingType(v) {
		result.Type = &v
	}
	if v := normalized(parsed.FabricType); v != "" && models.ValidFabricType(v) {
		result.FabricType = &v
	}
	if v := normalized(parsed.GraphicSize); models.ValidGraphicSize(v) {
		result.GraphicSize = v
	}
	if v := normalized(parsed.Fit); models.ValidFit(v) {
		result.Fit = v
	}
	return result, nil
}

func normalized(value *string) string {
	if value == nil {
		return ""
	}
	return languageutil.NormalizeEnum(*value)
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}
