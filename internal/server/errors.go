package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONErrorHandler returns an HTTP error handler that keeps every error
// response in the {"detail": ...} envelope, including 404s and panics caught
// by the recover middleware. Internal error text never leaves the process.
func JSONErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			detail := http.StatusText(he.Code)
			if msg, ok := he.Message.(string); ok {
				detail = msg
			}
			_ = c.JSON(he.Code, ErrorResponse{Detail: detail})
			return
		}

		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Detail: http.StatusText(http.StatusInternalServerError),
		})
	}
}
