package models

import (
	"slices"

	"github.com/go-playground/validator"
)

type ClothingType string

const (
	ClothingHoodie  ClothingType = "hoodie"
	ClothingTShirt  ClothingType = "t-shirt"
	ClothingJacket  ClothingType = "jacket"
	ClothingSweater ClothingType = "sweater"
	ClothingPants   ClothingType = "pants"
	ClothingShirt   ClothingType = "shirt"
	ClothingShorts  ClothingType = "shorts"
	ClothingDress   ClothingType = "dress"
	ClothingOther   ClothingType = "other"
)

var ClothingTypes = []ClothingType{
	ClothingHoodie, ClothingTShirt, ClothingJacket, ClothingSweater,
	ClothingPants, ClothingShirt, ClothingShorts, ClothingDress, ClothingOther,
}

type FabricType string

const (
	FabricCotton    FabricType = "cotton"
	FabricPolyester FabricType = "polyester"
	FabricWool      FabricType = "wool"
	FabricDenim     FabricType = "denim"
	FabricLeather   FabricType = "leather"
	FabricSilk      FabricType = "silk"
	FabricLinen     FabricType = "linen"
	FabricOther     FabricType = "other"
)

var FabricTypes = []FabricType{
	FabricCotton, FabricPolyester, FabricWool, FabricDenim,
	FabricLeather, FabricSilk, FabricLinen, FabricOther,
}

type Fit string

const (
	FitBaggy   Fit = "baggy"
	FitRegular Fit = "regular"
	FitTight   Fit = "tight"
)

var Fits = []Fit{FitBaggy, FitRegular, FitTight}

type GraphicSize string

const (
	GraphicLarge GraphicSize = "large"
	GraphicSmall GraphicSize = "small"
	GraphicNone  GraphicSize = "none"
)

var GraphicSizes = []GraphicSize{GraphicLarge, GraphicSmall, GraphicNone}

// ClothingItem is a single stored piece of the wardrobe. Items are never
// updated in place, only created and deleted.
type ClothingItem struct {
	ID          string       `json:"id" validate:"required"`
	Name        string       `json:"name"`
	Type        ClothingType `json:"type" validate:"required,clothingtype"`
	Color       string       `json:"color"`
	FabricType  FabricType   `json:"fabricType" validate:"required,fabrictype"`
	Fit         Fit          `json:"fit" validate:"required,fit"`
	GraphicSize GraphicSize  `json:"graphicSize" validate:"required,graphicsize"`
	Brand       *string      `json:"brand"`
	ImageURL    *string      `json:"imageUrl"`
}

// ClothingItemIn is the create payload; the id is assigned on save. Name and
// color must be sent but may be empty.
type ClothingItemIn struct {
	Name        *string      `json:"name" validate:"required"`
	Type        ClothingType `json:"type" validate:"required,clothingtype"`
	Color       *string      `json:"color" validate:"required"`
	FabricType  FabricType   `json:"fabricType" validate:"required,fabrictype"`
	Fit         Fit          `json:"fit" validate:"required,fit"`
	GraphicSize GraphicSize  `json:"graphicSize" validate:"required,graphicsize"`
	Brand       *string      `json:"brand"`
	ImageURL    *string      `json:"imageUrl"`
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (in ClothingItemIn) WithID(id string) ClothingItem {
	return ClothingItem{
		ID:          id,
		Name:        derefString(in.Name),
		Type:        in.Type,
		Color:       derefString(in.Color),
		FabricType:  in.FabricType,
		Fit:         in.Fit,
		GraphicSize: in.GraphicSize,
		Brand:       in.Brand,
		ImageURL:    in.ImageURL,
	}
}

func ValidClothingType(value string) bool {
	return slices.Contains(ClothingTypes, ClothingType(value))
}

func ValidFabricType(value string) bool {
	return slices.Contains(FabricTypes, FabricType(value))
}

func ValidFit(value string) bool {
	return slices.Contains(Fits, Fit(value))
}

func ValidGraphicSize(value string) bool {
	return slices.Contains(GraphicSizes, GraphicSize(value))
}

func ValidateClothingType(fl validator.FieldLevel) bool {
	return ValidClothingType(fl.Field().String())
}

func ValidateFabricType(fl validator.FieldLevel) bool {
	return ValidFabricType(fl.Field().String())
}

func ValidateFit(fl validator.FieldLevel) bool {
	return ValidFit(fl.Field().String())
}

func ValidateGraphicSize(fl validator.FieldLevel) bool {
	return ValidGraphicSize(fl.Field().String())
}

// NewValidator returns a validator with the wardrobe enum tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("clothingtype", ValidateClothingType)
	v.RegisterValidation("fabrictype", ValidateFabricType)
	v.RegisterValidation("fit", ValidateFit)
	v.RegisterValidation("graphicsize", ValidateGraphicSize)
	return v
}
