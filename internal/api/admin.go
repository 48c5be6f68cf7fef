package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealmancer/server/internal/messages"
	"github.com/mealmancer/server/internal/service"
)

// AdminHandler serves the admin-only user and analytics surfaces.
type AdminHandler struct {
	auth     *service.AuthService
	metering *service.MeteringService
	stats    *service.StatsService
}

func NewAdminHandler(auth *service.AuthService, metering *service.MeteringService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{auth: auth, metering: metering, stats: stats}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateTokens(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.BadRequest})
		return
	}

	var req UpdateTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.BadRequest})
		return
	}

	if err := h.metering.SetBalance(c.Request.Context(), userID, req.NewTokens); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: messages.TokensUpdated})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.BadRequest})
		return
	}

	if err := h.auth.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: messages.RemovedUser})
}

func (h *AdminHandler) ListCallStats(c *gin.Context) {
	stats, err := h.stats.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
