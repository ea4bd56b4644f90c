package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sentimeter-team/sentimeter/errors"
	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    errors.ErrorCode_HTTP_OK,
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = toAppError(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps domain sentinel errors onto their wire representation.
// Anything unrecognized is an internal server error.
func toAppError(err error) errors.AppError {
	switch {
	case stdErrors.Is(err, entities.ErrNoTextExtracted):
		return errors.ErrNoTextExtracted(err)
	case stdErrors.Is(err, entities.ErrNoContent):
		return errors.ErrNoContent()
	case stdErrors.Is(err, entities.ErrClassifierUnavailable):
		return errors.ErrClassifierUnavailable(err)
	case stdErrors.Is(err, entities.ErrUndecodableAudio):
		return errors.ErrUndecodableAudio(err)
	default:
		return errors.ErrInternal(err)
	}
}
