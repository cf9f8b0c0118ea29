package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/juicelabs/juice-content/cmd/contentd/service"
	"github.com/juicelabs/juice-content/common/bucket"
)

// toHTTPError translates store error kinds to HTTP status codes. Bucket and
// fetch failures deliberately collapse to 500 with a generic message; the
// detail stays in the logs.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	case errors.Is(err, service.ErrProtected):
		return echo.NewHTTPError(http.StatusForbidden, "content is protected")
	case errors.Is(err, service.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, bucket.ErrKeyExists):
		return echo.NewHTTPError(http.StatusConflict, "key already exists; pass allow_overwrite to replace")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "storage operation failed")
	}
}
