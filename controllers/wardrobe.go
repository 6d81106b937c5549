package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"wardrobeapi/models"
	"wardrobeapi/services"
)

type WardrobeController struct {
	Wardrobe *services.WardrobeService
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/import-wardrobe", controller.ImportWardrobe)
	g.GET("/export-wardrobe", controller.ExportWardrobe)
	g.GET("/wardrobe/stats", controller.Stats)
}

func (controller *WardrobeController) ImportWardrobe(c echo.Context) error {
	var req models.WardrobeImportIn
	if err := c.Bind(&req); err != nil {
		return bindError(http.StatusBadRequest, err)
	}

	result, err := controller.Wardrobe.ImportWardrobe(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Error importing wardrobe: %v", err))
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *WardrobeController) ExportWardrobe(c echo.Context) error {
	snapshot, err := controller.Wardrobe.ExportWardrobe()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (controller *WardrobeController) Stats(c echo.Context) error {
	stats, err := controller.Wardrobe.ComputeStatistics()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
