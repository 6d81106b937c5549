package models

// PersonalInfo is the single per-installation profile. Nil fields are
// dropped when the record is saved.
type PersonalInfo struct {
	Gender           *string `json:"gender,omitempty"`
	Height           *string `json:"height,omitempty"`
	Weight           *string `json:"weight,omitempty"`
	PreferredStyle   *string `json:"preferredStyle,omitempty"`
	OtherDescription *string `json:"otherDescription,omitempty"`
}

func (p PersonalInfo) IsEmpty() bool {
	return p.Gender == nil && p.Height == nil && p.Weight == nil &&
		p.PreferredStyle == nil && p.OtherDescription == nil
}

// WardrobeSnapshot is the export unit.
type WardrobeSnapshot struct {
	Clothes      []ClothingItem `json:"clothes"`
	PersonalInfo PersonalInfo   `json:"personalInfo"`
}

// WardrobeImportIn is the import body. Both fields must be present: an
// omitted or null field is rejected instead of being read as empty.
type WardrobeImportIn struct {
	Clothes      *[]ClothingItem `json:"clothes"`
	PersonalInfo *PersonalInfo   `json:"personalInfo"`
}

// ImportOf turns an exported snapshot into an import body.
func ImportOf(snapshot WardrobeSnapshot) WardrobeImportIn {
	clothes := snapshot.Clothes
	if clothes == nil {
		clothes = []ClothingItem{}
	}
	return WardrobeImportIn{Clothes: &clothes, PersonalInfo: &snapshot.PersonalInfo}
}

type WardrobeStatistics struct {
	TotalItems           int            `json:"totalItems"`
	ByType               map[string]int `json:"byType"`
	ByColor              map[string]int `json:"byColor"`
	ByFit                map[string]int `json:"byFit"`
	WardrobeCompleteness float64        `json:"wardrobeCompleteness"`
	Recommendations      []string       `json:"recommendations"`
}

// WardrobeAnalysis is the gap summary handed to the stylist when asking for
// new clothes. Distribution maps hold at most five entries.
type WardrobeAnalysis struct {
	TotalItems        int            `json:"totalItems"`
	MostCommonColor   string         `json:"mostCommonColor"`
	MostCommonType    string         `json:"mostCommonType"`
	MostCommonFabric  string         `json:"mostCommonFabric"`
	Gaps              []string       `json:"gaps"`
	ColorDistribution map[string]int `json:"colorDistribution"`
	TypeDistribution  map[string]int `json:"typeDistribution"`
}

type RecommendedAttributes struct {
	Color      string `json:"color"`
	Fit        string `json:"fit"`
	FabricType string `json:"fabricType"`
	Reasoning  string `json:"reasoning"`
}

type ClothingSuggestion struct {
	ItemType              string                `json:"itemType"`
	Reason                string                `json:"reason"`
	RecommendedAttributes RecommendedAttributes `json:"recommendedAttributes"`
}

// OutfitPick is one slot of a stylist answer, referencing a wardrobe item id.
type OutfitPick struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Reason string  `json:"reason"`
}

type ShoesPick struct {
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// OutfitRecommendation is the raw stylist answer before ids are resolved.
type OutfitRecommendation struct {
	Top          *OutfitPick `json:"top"`
	Bottom       *OutfitPick `json:"bottom"`
	Outerwear    *OutfitPick `json:"outerwear"`
	Shoes        *ShoesPick  `json:"shoes"`
	Reasoning    string      `json:"reasoning"`
	MissingItems []string    `json:"missingItems"`
}

// HasTop reports whether the answer names a top usable for the outfit.
func (r OutfitRecommendation) HasTop() bool {
	return r.Top != nil && r.Top.ID != nil && *r.Top.ID != ""
}

type Outfit struct {
	Top       *ClothingItem `json:"top,omitempty"`
	Bottom    *ClothingItem `json:"bottom,omitempty"`
	Outerwear *ClothingItem `json:"outerwear,omitempty"`
}

type OutfitResult struct {
	Outfit       Outfit     `json:"outfit"`
	Shoes        *ShoesPick `json:"shoes,omitempty"`
	Reasoning    string     `json:"reasoning"`
	MissingItems []string   `json:"missingItems"`
}

type SuggestionsResult struct {
	Suggestions      []ClothingSuggestion `json:"suggestions"`
	WardrobeAnalysis WardrobeAnalysis     `json:"wardrobeAnalysis"`
}

type ImportResult struct {
	Message             string `json:"message"`
	ItemsImported       int    `json:"itemsImported"`
	PersonalInfoUpdated bool   `json:"personalInfoUpdated"`
}

// ImageAnalysisResult pre-fills a new item from a photo; it is never saved.
type ImageAnalysisResult struct {
	Name        *string            `json:"name"`
	Color       *string            `json:"color"`
	Type        *string            `json:"type"`
	FabricType  *string            `json:"fabricType"`
	Brand       *string            `json:"brand"`
	GraphicSize string             `json:"graphicSize"`
	Fit         string             `json:"fit"`
	Confidence  map[string]float64 `json:"confidence"`
}
