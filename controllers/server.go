package controllers

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"wardrobeapi/config"
	"wardrobeapi/models"
	"wardrobeapi/services"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// SetupServer wires every route. awsService and urlCache may be nil when
// object storage is not configured.
func SetupServer(
	wardrobe *services.WardrobeService,
	awsService services.AWSServiceProvider,
	urlCache services.URLCacheServiceProvider,
	cfg config.Server,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: models.NewValidator()}
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.MessageOut{Message: "Welcome to Personal Fashion Suggester API"})
	})

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	clothesController := ClothesController{Wardrobe: wardrobe, AWSService: awsService, URLCache: urlCache}
	clothesController.ClothingRoutes(api.Group("/clothing"))

	profileController := ProfileController{Wardrobe: wardrobe}
	profileController.ProfileRoutes(api.Group("/personal-info"))

	stylistController := StylistController{Wardrobe: wardrobe}
	stylistController.StylistRoutes(api)

	wardrobeController := WardrobeController{Wardrobe: wardrobe}
	wardrobeController.WardrobeRoutes(api)

	return e
}
