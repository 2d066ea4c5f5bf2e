package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"logs-dashboard/internal/gateway"
	"logs-dashboard/internal/model"
)

// respondGatewayError maps gateway client errors to an HTTP answer.
func respondGatewayError(ctx *gin.Context, err error, fallback string) {
	var validationErr *gateway.ValidationError
	var apiErr *gateway.APIError

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, model.NewResponse(validationErr.Message, gin.H{"field": validationErr.Field}))
	case errors.Is(err, gateway.ErrNotSignedIn):
		ctx.JSON(http.StatusUnauthorized, model.NewResponse("Sign in first", nil))
	case errors.Is(err, gateway.ErrAuth):
		ctx.JSON(http.StatusUnauthorized, model.NewResponse("Session rejected by the gateway", nil))
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		ctx.JSON(apiErr.Status, model.NewResponse(apiErr.Message, nil))
	case errors.Is(err, gateway.ErrTransient), errors.Is(err, gateway.ErrMalformed):
		ctx.JSON(http.StatusBadGateway, model.NewResponse(fallback, err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, model.NewResponse(fallback, nil))
	}
}
