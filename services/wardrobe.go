package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"wardrobeapi/languageutil"
	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/storage"
)

// Completeness is the share of EssentialTypes present in the wardrobe.
var EssentialTypes = []models.ClothingType{
	models.ClothingTShirt, models.ClothingPants, models.ClothingShirt, models.ClothingJacket,
}

type GapCheck struct {
	Type    models.ClothingType
	Message string
}

// StatsGapChecks are independent of EssentialTypes: each check adds its
// message when the wardrobe holds none of that type.
var StatsGapChecks = []GapCheck{
	{Type: models.ClothingJacket, Message: "Consider adding jackets to your wardrobe"},
	{Type: models.ClothingPants, Message: "Your wardrobe lacks pants"},
}

var (
	MinWardrobeSize     = 5
	SmallWardrobeAdvice = "Consider expanding your wardrobe with more items"
)

// CanonicalTypes is the ordered list gaps are taken from.
var CanonicalTypes = []models.ClothingType{
	models.ClothingTShirt, models.ClothingShirt, models.ClothingHoodie, models.ClothingJacket,
	models.ClothingSweater, models.ClothingPants, models.ClothingShorts, models.ClothingDress,
}

var (
	MaxAnalysisGaps        = 5
	MaxDistributionSize    = 5
	MaxFallbackSuggestions = 3
	OutfitPromptLimit      = 20
)

var (
	FallbackTopTypes       = []models.ClothingType{models.ClothingTShirt, models.ClothingShirt, models.ClothingHoodie, models.ClothingSweater}
	FallbackBottomTypes    = []models.ClothingType{models.ClothingPants, models.ClothingShorts}
	FallbackOuterwearTypes = []models.ClothingType{models.ClothingJacket, models.ClothingHoodie}
)

const (
	unknownValue           = "unknown"
	defaultSuggestColor    = "black"
	defaultSuggestFabric   = "cotton"
	defaultOutfitReasoning = "AI-generated outfit recommendation"
)

type WardrobeService struct {
	store   storage.Store
	stylist StylistProvider
}

func NewWardrobeService(store storage.Store, stylist StylistProvider) *WardrobeService {
	return &WardrobeService{store: store, stylist: stylist}
}

func (s *WardrobeService) CreateItem(in models.ClothingItemIn) (models.ClothingItem, error) {
	items, err := s.store.LoadClothes()
	if err != nil {
		return models.ClothingItem{}, err
	}
	item := in.WithID(uuid.NewString())
	if err := s.store.SaveClothes(append(items, item)); err != nil {
		return models.ClothingItem{}, err
	}
	return item, nil
}

func (s *WardrobeService) ListItems() ([]models.ClothingItem, error) {
	return s.store.LoadClothes()
}

func (s *WardrobeService) GetItem(id string) (models.ClothingItem, error) {
	items, err := s.store.LoadClothes()
	if err != nil {
		return models.ClothingItem{}, err
	}
	i := slices.IndexFunc(items, func(item models.ClothingItem) bool { return item.ID == id })
	if i < 0 {
		return models.ClothingItem{}, fmt.Errorf("clothing item %s: %w", id, ErrNotFound)
	}
	return items[i], nil
}

func (s *WardrobeService) DeleteItem(id string) error {
	items, err := s.store.LoadClothes()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(items), func(item models.ClothingItem) bool { return item.ID == id })
	if len(kept) == len(items) {
		return fmt.Errorf("clothing item %s: %w", id, ErrNotFound)
	}
	return s.store.SaveClothes(kept)
}

func (s *WardrobeService) GetPersonalInfo() (models.PersonalInfo, error) {
	return s.store.LoadPersonalInfo()
}

func (s *WardrobeService) SavePersonalInfo(info models.PersonalInfo) (models.PersonalInfo, error) {
	if err := s.store.SavePersonalInfo(info); err != nil {
		return models.PersonalInfo{}, err
	}
	return info, nil
}

func (s *WardrobeService) ComputeStatistics() (models.WardrobeStatistics, error) {
	items, err := s.store.LoadClothes()
	if err != nil {
		return models.WardrobeStatistics{}, err
	}
	stats := models.WardrobeStatistics{
		TotalItems:      len(items),
		ByType:          map[string]int{},
		ByColor:         map[string]int{},
		ByFit:           map[string]int{},
		Recommendations: []string{},
	}
	for _, item := range items {
		stats.ByType[string(item.Type)]++
		stats.ByColor[item.Color]++
		stats.ByFit[string(item.Fit)]++
	}

	present := 0
	for _, t := range EssentialTypes {
		if stats.ByType[string(t)] > 0 {
			present++
		}
	}
	if len(EssentialTypes) > 0 {
		stats.WardrobeCompleteness = float64(present) / float64(len(EssentialTypes))
	}

	for _, check := range StatsGapChecks {
		if stats.ByType[string(check.Type)] == 0 {
			stats.Recommendations = append(stats.Recommendations, check.Message)
		}
	}
	if len(items) < MinWardrobeSize {
		stats.Recommendations = append(stats.Recommendations, SmallWardrobeAdvice)
	}
	return stats, nil
}

// tally counts values keeping the order in which they first appear.
type tally struct {
	keys   []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

// mostCommon breaks ties by first occurrence.
func (t *tally) mostCommon() string {
	best := unknownValue
	bestCount := 0
	for _, key := range t.keys {
		if t.counts[key] > bestCount {
			best, bestCount = key, t.counts[key]
		}
	}
	return best
}

func (t *tally) firstN(n int) map[string]int {
	out := make(map[string]int, min(n, len(t.keys)))
	for _, key := range t.keys[:min(n, len(t.keys))] {
		out[key] = t.counts[key]
	}
	return out
}

func orUnknown(value string) string {
	if value == "" {
		return unknownValue
	}
	return value
}

// AnalyzeWardrobe summarises items for gap suggestions.
func (s *WardrobeService) AnalyzeWardrobe(items []models.ClothingItem) models.WardrobeAnalysis {
	types, colors, fabrics := newTally(), newTally(), newTally()
	for _, item := range items {
		types.add(orUnknown(string(item.Type)))
		colors.add(orUnknown(item.Color))
		fabrics.add(orUnknown(string(item.FabricType)))
	}

	gaps := []string{}
	for _, t := range CanonicalTypes {
		if types.counts[string(t)] == 0 {
			gaps = append(gaps, string(t))
		}
	}

	return models.WardrobeAnalysis{
		TotalItems:        len(items),
		MostCommonColor:   colors.mostCommon(),
		MostCommonType:    types.mostCommon(),
		MostCommonFabric:  fabrics.mostCommon(),
		Gaps:              gaps[:min(MaxAnalysisGaps, len(gaps))],
		ColorDistribution: colors.firstN(MaxDistributionSize),
		TypeDistribution:  types.firstN(MaxDistributionSize),
	}
}

// resolvePersonalInfo prefers the request value over the stored record.
func (s *WardrobeService) resolvePersonalInfo(info *models.PersonalInfo) (models.PersonalInfo, error) {
	if info != nil {
		return *info, nil
	}
	return s.store.LoadPersonalInfo()
}

// withFallback runs the AI path and reports whether its result can be used.
// Only errors in fallbackErrors are absorbed.
func withFallback[T any](operation string, enhanced func() (T, error), usable func(T) bool) (T, bool, error) {
	result, err := enhanced()
	if err != nil {
		if !isFallbackError(err) {
			var zero T
			return zero, false, err
		}
		logger.WithError(err).WithField("operation", operation).Warn("stylist unavailable, using fallback")
		var zero T
		return zero, false, nil
	}
	return result, usable(result), nil
}

func (s *WardrobeService) SuggestNewClothes(ctx context.Context, info *models.PersonalInfo) (models.SuggestionsResult, error) {
	items, err := s.store.LoadClothes()
	if err != nil {
		return models.SuggestionsResult{}, err
	}
	personalInfo, err := s.resolvePersonalInfo(info)
	if err != nil {
		return models.SuggestionsResult{}, err
	}
	analysis := s.AnalyzeWardrobe(items)

	suggestions, ok, err := withFallback("suggest-new-clothes",
		func() ([]models.ClothingSuggestion, error) {
			return s.stylist.GenerateClothingSuggestions(ctx, analysis, personalInfo)
		},
		func(out []models.ClothingSuggestion) bool { return len(out) > 0 },
	)
	if err != nil {
		return models.SuggestionsResult{}, err
	}
	if !ok {
		suggestions = fallbackSuggestions(analysis, items)
	}
	return models.SuggestionsResult{Suggestions: suggestions, WardrobeAnalysis: analysis}, nil
}

// fallbackSuggestions proposes the first missing canonical types in the
// wardrobe's dominant color and fabric.
func fallbackSuggestions(analysis models.WardrobeAnalysis, items []models.ClothingItem) []models.ClothingSuggestion {
	color := analysis.MostCommonColor
	if color == unknownValue {
		color = defaultSuggestColor
	}
	fabric := analysis.MostCommonFabric
	if fabric == unknownValue {
		fabric = defaultSuggestFabric
	}

	types := map[string]bool{}
	for _, item := range items {
		types[string(item.Type)] = true
	}
	suggestions := []models.ClothingSuggestion{}
	for _, t := range CanonicalTypes {
		if len(suggestions) == MaxFallbackSuggestions {
			break
		}
		if types[string(t)] {
			continue
		}
		suggestions = append(suggestions, models.ClothingSuggestion{
			ItemType: string(t),
			Reason:   fmt.Sprintf("You don't have any %s. Adding one would complement your wardrobe.", languageutil.Plural(string(t))),
			RecommendedAttributes: models.RecommendedAttributes{
				Color:      color,
				Fit:        string(models.FitRegular),
				FabricType: fabric,
				Reasoning:  "Matches your existing color palette",
			},
		})
	}
	return suggestions
}

func (s *WardrobeService) RecommendOutfit(ctx context.Context, info *models.PersonalInfo, stylePrompt, occasion string) (models.OutfitResult, error) {
	items, err := s.store.LoadClothes()
	if err != nil {
		return models.OutfitResult{}, err
	}
	if len(items) == 0 {
		return models.OutfitResult{}, ErrEmptyWardrobe
	}
	personalInfo, err := s.resolvePersonalInfo(info)
	if err != nil {
		return models.OutfitResult{}, err
	}

	eligible := items[:min(OutfitPromptLimit, len(items))]
	recommendation, ok, err := withFallback("recommend-outfit",
		func() (models.OutfitRecommendation, error) {
			return s.stylist.GenerateOutfitRecommendation(ctx, eligible, personalInfo, stylePrompt, occasion)
		},
		models.OutfitRecommendation.HasTop,
	)
	if err != nil {
		return models.OutfitResult{}, err
	}
	if ok {
		return resolveOutfit(recommendation, items), nil
	}
	return fallbackOutfit(items), nil
}

// resolveOutfit maps the stylist's ids onto stored items. Ids that match
// nothing are dropped.
func resolveOutfit(rec models.OutfitRecommendation, items []models.ClothingItem) models.OutfitResult {
	find := func(pick *models.OutfitPick) *models.ClothingItem {
		if pick == nil || pick.ID == nil || *pick.ID == "" {
			return nil
		}
		i := slices.IndexFunc(items, func(item models.ClothingItem) bool { return item.ID == *pick.ID })
		if i < 0 {
			return nil
		}
		item := items[i]
		return &item
	}

	result := models.OutfitResult{
		Outfit: models.Outfit{
			Top:       find(rec.Top),
			Bottom:    find(rec.Bottom),
			Outerwear: find(rec.Outerwear),
		},
		Reasoning:    rec.Reasoning,
		MissingItems: rec.MissingItems,
	}
	if rec.Shoes != nil && rec.Shoes.Suggestion != "" {
		result.Shoes = rec.Shoes
	}
	if result.Reasoning == "" {
		result.Reasoning = defaultOutfitReasoning
	}
	if result.MissingItems == nil {
		result.MissingItems = []string{}
	}
	return result
}

func firstOfType(items []models.ClothingItem, types []models.ClothingType) *models.ClothingItem {
	i := slices.IndexFunc(items, func(item models.ClothingItem) bool { return slices.Contains(types, item.Type) })
	if i < 0 {
		return nil
	}
	item := items[i]
	return &item
}

func fallbackOutfit(items []models.ClothingItem) models.OutfitResult {
	outfit := models.Outfit{
		Top:       firstOfType(items, FallbackTopTypes),
		Bottom:    firstOfType(items, FallbackBottomTypes),
		Outerwear: firstOfType(items, FallbackOuterwearTypes),
	}
	missing := []string{}
	if outfit.Top == nil {
		missing = append(missing, "top")
	}
	if outfit.Bottom == nil {
		missing = append(missing, "bottom")
	}

	reasoning := "Selected items from your wardrobe. "
	if len(missing) > 0 {
		reasoning += "Missing: " + strings.Join(missing, ", ")
	}
	reasoning += " (AI unavailable - using simple matching)"
	return models.OutfitResult{Outfit: outfit, Reasoning: reasoning, MissingItems: missing}
}

// ImportWardrobe replaces the stored clothes and personal info. Both fields
// must be present and every item valid before anything is written; the two
// documents are then saved one after the other.
func (s *WardrobeService) ImportWardrobe(in models.WardrobeImportIn) (models.ImportResult, error) {
	if in.Clothes == nil {
		return models.ImportResult{}, fmt.Errorf("clothes: field required: %w", ErrValidation)
	}
	if in.PersonalInfo == nil {
		return models.ImportResult{}, fmt.Errorf("personalInfo: field required: %w", ErrValidation)
	}
	clothes, info := *in.Clothes, *in.PersonalInfo

	validate := models.NewValidator()
	seen := map[string]bool{}
	for i, item := range clothes {
		if err := validate.Struct(item); err != nil {
			return models.ImportResult{}, fmt.Errorf("clothes[%d]: %v: %w", i, err, ErrValidation)
		}
		if seen[item.ID] {
			return models.ImportResult{}, fmt.Errorf("clothes[%d]: duplicate id %s: %w", i, item.ID, ErrValidation)
		}
		seen[item.ID] = true
	}

	if clothes == nil {
		clothes = []models.ClothingItem{}
	}
	if err := s.store.SaveClothes(clothes); err != nil {
		return models.ImportResult{}, err
	}
	if err := s.store.SavePersonalInfo(info); err != nil {
		return models.ImportResult{}, err
	}
	// PersonalInfoUpdated reports whether any field was set, not merely that
	// the record was written.
	return models.ImportResult{
		Message:             "Wardrobe imported successfully",
		ItemsImported:       len(clothes),
		PersonalInfoUpdated: !info.IsEmpty(),
	}, nil
}

func (s *WardrobeService) ExportWardrobe() (models.WardrobeSnapshot, error) {
	clothes, err := s.store.LoadClothes()
	if err != nil {
		return models.WardrobeSnapshot{}, err
	}
	info, err := s.store.LoadPersonalInfo()
	if err != nil {
		return models.WardrobeSnapshot{}, err
	}
	return models.WardrobeSnapshot{Clothes: clothes, PersonalInfo: info}, nil
}

// AnalyzeImage decodes a data URL or bare base64 image and asks the stylist
// to describe it. A missing credential is reported before the image is read.
func (s *WardrobeService) AnalyzeImage(ctx context.Context, image string) (*models.ImageAnalysisResult, error) {
	if !s.stylist.Configured() {
		return nil, errNotConfigured()
	}
	data, err := DecodeDataURL(image)
	if err != nil {
		return nil, err
	}
	result, err := s.stylist.AnalyzeImage(ctx, data)
	if err != nil {
		var stylistErr *StylistError
		if !errors.As(err, &stylistErr) {
			return nil, newStylistError(ErrUpstream, err.Error(), err)
		}
		return nil, err
	}
	return result, nil
}
