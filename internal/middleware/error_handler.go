package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders AppErrors and echo errors as {error, request_id} JSON.
func ErrorHandler(l *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperr.HTTPStatus(apperr.KindOf(err))
		publicMsg := apperr.PublicMessage(err)
		payload := map[string]interface{}{}

		var he *echo.HTTPError
		var ae *apperr.AppError
		switch {
		case errors.As(err, &ae):
			if len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
		case errors.As(err, &he):
			status = he.Code
			publicMsg = http.StatusText(he.Code)
			if msg, ok := he.Message.(string); ok {
				publicMsg = msg
			}
		}

		rid := GetRequestID(c)
		if status >= 500 {
			l.LogAttrs(c.Request().Context(), slog.LevelError, "request_failed",
				slog.String("request_id", rid),
				slog.Int("status", status),
				slog.Any("err", err),
			)
		}

		payload["error"] = publicMsg
		payload["request_id"] = rid

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, payload)
		}
		if err != nil {
			l.Error("write error response", "error", err)
		}
	}
}
