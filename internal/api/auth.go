package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealmancer/server/internal/messages"
	"github.com/mealmancer/server/internal/middleware"
	"github.com/mealmancer/server/internal/service"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	auth     *service.AuthService
	metering *service.MeteringService
}

func NewAuthHandler(auth *service.AuthService, metering *service.MeteringService) *AuthHandler {
	return &AuthHandler{auth: auth, metering: metering}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.InvalidEmailOrPassword})
		return
	}

	user, consumption, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, SessionResponse{
		Message:      messages.RegisterSuccess,
		Role:         user.Role,
		Tokens:       consumption.Tokens,
		HTTPRequests: consumption.HTTPRequests,
		ExpiresAt:    expiresAt,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.InvalidEmailOrPassword})
		return
	}

	user, consumption, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	// Count the login itself before reporting the counter, so the
	// response reflects this request rather than trailing it by one.
	h.metering.IncrementUsage(user.ID)
	if refreshed, err := h.metering.Balance(c.Request.Context(), user.ID); err == nil {
		consumption = refreshed
	}

	c.JSON(http.StatusOK, SessionResponse{
		Message:      messages.LoginSuccess,
		Role:         user.Role,
		Tokens:       consumption.Tokens,
		HTTPRequests: consumption.HTTPRequests,
		ExpiresAt:    expiresAt,
	})
}

// Logout always succeeds and clears the cookie, whether or not a valid
// session was presented.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, MessageResponse{Message: messages.Logout})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.auth.SessionDuration().Seconds()), "/", "", true, true)
}
