package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"wardrobeapi/models"
	"wardrobeapi/services"
)

type ProfileController struct {
	Wardrobe *services.WardrobeService
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("", func(c echo.Context) error {
		info, err := controller.Wardrobe.GetPersonalInfo()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, info)
	})

	g.POST("", func(c echo.Context) error {
		var req models.PersonalInfo
		if err := c.Bind(&req); err != nil {
			return bindError(http.StatusUnprocessableEntity, err)
		}
		if err := c.Validate(req); err != nil {
			return err
		}

		saved, err := controller.Wardrobe.SavePersonalInfo(req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, models.PersonalInfoSavedOut{
			Message:      "Personal info saved successfully",
			PersonalInfo: saved,
		})
	})
}
