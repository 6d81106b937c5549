package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/services"
)

// errorStatus maps domain errors to a status code and the detail shown to
// the client.
func errorStatus(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	var stylistErr *services.StylistError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "Clothing item not found"
	case errors.Is(err, services.ErrEmptyWardrobe):
		return http.StatusBadRequest, "No clothing items in wardrobe"
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "Image storage is not configured"
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &stylistErr):
		return http.StatusInternalServerError, "Error analyzing image: " + stylistErr.Message
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// HTTPErrorHandler renders every error as {"detail": ...}. Unexpected
// server errors are reported to sentry.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, detail := errorStatus(err)

	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		if hub := sentryecho.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, models.ErrorOut{Detail: detail})
	}
	if err != nil {
		logger.WithError(err).Error("failed to write error response")
	}
}

// bindError reports a body that could not be decoded with the given status.
func bindError(status int, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return echo.NewHTTPError(status, fmt.Sprint(httpErr.Message))
	}
	return echo.NewHTTPError(status, err.Error())
}
