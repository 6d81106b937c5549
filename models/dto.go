package models

type ImageAnalysisIn struct {
	Image string `json:"image" validate:"required"`
}

type OutfitRecommendationIn struct {
	OutfitType   *string       `json:"outfitType"`
	Occasion     *string       `json:"occasion"`
	StylePrompt  *string       `json:"stylePrompt"`
	PersonalInfo *PersonalInfo `json:"personalInfo"`
}

type SuggestNewClothesIn struct {
	PersonalInfo *PersonalInfo  `json:"personalInfo"`
	Preferences  map[string]any `json:"preferences"`
}

type ClothesListOut struct {
	Clothes []ClothingItem `json:"clothes"`
}

type PersonalInfoSavedOut struct {
	Message      string       `json:"message"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
}

type ClothingUploadFileIn struct {
	FileName string `json:"fileName" validate:"required,max=200"`
}

type ClothingUploadFileOut struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

type ImageURLOut struct {
	URL string `json:"url"`
}

type MessageOut struct {
	Message string `json:"message"`
}

type ErrorOut struct {
	Detail string `json:"detail"`
}
