package handlers

import (
	"errors"
	"net/http"
	"strconv"

	xerrors "egovpapua-service/internal/pkg/errors"
	"egovpapua-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// handleError maps service errors onto HTTP responses. Anything unrecognized
// becomes a 500 with a generic message so internals never leak.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound),
		errors.Is(err, xerrors.ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Unauthorized(c, "unauthorized")
	case errors.Is(err, xerrors.ErrForbidden):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, xerrors.ErrInvalidInput),
		errors.Is(err, xerrors.ErrPlanInactive),
		errors.Is(err, xerrors.ErrInvoiceAlreadyPaid):
		response.ValidationError(c, "invalid request", err)
	case errors.Is(err, xerrors.ErrConflict),
		errors.Is(err, xerrors.ErrDuplicateInvoiceNumber):
		response.Error(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, xerrors.ErrGateway):
		response.Error(c, http.StatusBadGateway, "payment gateway error", err)
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.ValidationError(c, "invalid id", err)
		return 0, false
	}
	return id, true
}
