package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"wardrobeapi/models"
	"wardrobeapi/services"
)

type StylistController struct {
	Wardrobe *services.WardrobeService
}

func (controller *StylistController) StylistRoutes(g *echo.Group) {
	g.POST("/analyze-image", controller.AnalyzeImage)
	g.POST("/recommend-outfit", controller.RecommendOutfit)
	g.POST("/suggest-new-clothes", controller.SuggestNewClothes)
}

func (controller *StylistController) AnalyzeImage(c echo.Context) error {
	var req models.ImageAnalysisIn
	if err := c.Bind(&req); err != nil {
		return bindError(http.StatusUnprocessableEntity, err)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := controller.Wardrobe.AnalyzeImage(c.Request().Context(), req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// RecommendOutfit uses stylePrompt, then occasion, as the style hint and
// outfitType as the occasion.
func (controller *StylistController) RecommendOutfit(c echo.Context) error {
	var req models.OutfitRecommendationIn
	if err := c.Bind(&req); err != nil {
		return bindError(http.StatusUnprocessableEntity, err)
	}
	if err := validatePersonalInfo(c, req.PersonalInfo); err != nil {
		return err
	}

	stylePrompt := StrValue(req.StylePrompt)
	if stylePrompt == "" {
		stylePrompt = StrValue(req.Occasion)
	}
	result, err := controller.Wardrobe.RecommendOutfit(c.Request().Context(), req.PersonalInfo, stylePrompt, StrValue(req.OutfitType))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *StylistController) SuggestNewClothes(c echo.Context) error {
	var req models.SuggestNewClothesIn
	if err := c.Bind(&req); err != nil {
		return bindError(http.StatusUnprocessableEntity, err)
	}
	if err := validatePersonalInfo(c, req.PersonalInfo); err != nil {
		return err
	}

	result, err := controller.Wardrobe.SuggestNewClothes(c.Request().Context(), req.PersonalInfo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func validatePersonalInfo(c echo.Context, info *models.PersonalInfo) error {
	if info == nil {
		return nil
	}
	return c.Validate(*info)
}
