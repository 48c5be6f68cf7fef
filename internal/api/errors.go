package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mealmancer/server/internal/messages"
	"github.com/mealmancer/server/internal/service"
)

// respondError maps a service error onto the HTTP taxonomy. Anything not
// recognized is a storage or internal failure: logged server side,
// surfaced as a generic 500 so no internals leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailUsed):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.EmailUsed})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: messages.InvalidEmailOrPassword})
	case errors.Is(err, service.ErrOutOfTokens):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.OutOfTokens})
	case errors.Is(err, service.ErrUpstream), errors.Is(err, service.ErrMalformedRecipe):
		c.JSON(http.StatusBadGateway, MessageResponse{Message: messages.RecipeUnavailable})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: messages.PageNotFound})
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: messages.ServerError})
	}
}
