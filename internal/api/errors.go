package api

import (
	"errors"
	"net/http"

	"vending-console/internal/apiclient"
	"vending-console/internal/collection"
	"vending-console/internal/purchase"
	"vending-console/internal/response"
	"vending-console/internal/stats"

	"github.com/gin-gonic/gin"
)

// writeError maps an operation error to a status code and envelope
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *collection.ValidationError
	var fe *apiclient.FetchError
	switch {
	case errors.As(err, &ve):
		response.ErrorDataJSON(c, http.StatusBadRequest, "validation failed", ve.Fields)
	case errors.Is(err, collection.ErrNotFound),
		errors.Is(err, purchase.ErrUnknownMachine),
		errors.Is(err, purchase.ErrUnknownProduct),
		errors.Is(err, purchase.ErrUnknownUser):
		response.ErrorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, collection.ErrUnsupported):
		response.ErrorJSON(c, http.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, stats.ErrInvalidPeriod), errors.Is(err, stats.ErrInvalidDate):
		response.ErrorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, purchase.ErrOutOfStock),
		errors.Is(err, purchase.ErrBusy),
		errors.Is(err, purchase.ErrNoContext):
		response.ErrorJSON(c, http.StatusConflict, err.Error())
	case errors.As(err, &fe):
		response.ErrorDataJSON(c, http.StatusBadGateway, "upstream request failed", gin.H{
			"method":      fe.Method,
			"url":         fe.URL,
			"status_code": fe.StatusCode,
		})
	default:
		response.ErrorJSON(c, http.StatusInternalServerError, err.Error())
	}
}
