package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"wardrobeapi/models"
	"wardrobeapi/services"
)

type ClothesController struct {
	Wardrobe   *services.WardrobeService
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *ClothesController) ClothingRoutes(g *echo.Group) {
	g.POST("", controller.CreateClothing)
	g.GET("", controller.ListClothes)
	g.POST("/upload-url", controller.CreateUploadURL)
	g.GET("/:id", controller.GetClothing)
	g.DELETE("/:id", controller.DeleteClothing)
	g.GET("/:id/image-url", controller.GetImageURL)
}

func (controller *ClothesController) CreateClothing(c echo.Context) error {
	var req models.ClothingItemIn
	if err := c.Bind(&req); err != nil {
		return bindError(http.StatusUnprocessableEntity, err)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	item, err := controller.Wardrobe.CreateItem(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (controller *ClothesController) ListClothes(c echo.Context) error {
	items, err := controller.Wardrobe.ListItems()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ClothesListOut{Clothes: items})
}

func (controller *ClothesController) GetClothing(c echo.Context) error {
	item, err := controller.Wardrobe.GetItem(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (controller *ClothesController) DeleteClothing(c echo.Context) error {
	if err := controller.Wardrobe.DeleteItem(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.MessageOut{Message: "Clothing item deleted successfully"})
}

// CreateUploadURL hands out a presigned PUT for a clothing photo. The client
// stores the returned object key as the item's imageUrl.
func (controller *ClothesController) CreateUploadURL(c echo.Context) error {
	if controller.AWSService == nil {
		return services.ErrStorageDisabled
	}
	var req models.ClothingUploadFileIn
	if err := c.Bind(&req); err != nil {
		return bindError(http.StatusUnprocessableEntity, err)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	objectKey, err := services.NewClothingObjectKey(req.FileName, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	uploadURL, err := controller.AWSService.PresignLink(c.Request().Context(), objectKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ClothingUploadFileOut{ObjectKey: objectKey, UploadURL: uploadURL})
}

func (controller *ClothesController) GetImageURL(c echo.Context) error {
	item, err := controller.Wardrobe.GetItem(c.Param("id"))
	if err != nil {
		return err
	}
	if item.ImageURL == nil || *item.ImageURL == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Clothing item has no image")
	}
	if !services.IsObjectKey(*item.ImageURL) {
		return c.JSON(http.StatusOK, models.ImageURLOut{URL: *item.ImageURL})
	}
	if controller.URLCache == nil {
		return services.ErrStorageDisabled
	}

	url, err := controller.URLCache.GetReadURL(c.Request().Context(), *item.ImageURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ImageURLOut{URL: url})
}
