package api

import (
	"time"

	"github.com/mealmancer/server/internal/models"
	"github.com/mealmancer/server/internal/service"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is returned by signup and login alongside the session
// cookie so the client can render quota state without another roundtrip.
type SessionResponse struct {
	Message      string      `json:"message"`
	Role         models.Role `json:"role"`
	Tokens       int         `json:"tokens"`
	HTTPRequests int64       `json:"httpRequests"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

type GenerateQuery struct {
	Ingredients string `form:"ingredients" binding:"required"`
}

type AddFavouriteRequest struct {
	Recipe service.Recipe `json:"recipe" binding:"required"`
}

type UpdateTokensRequest struct {
	NewTokens int `json:"newTokens" binding:"min=0"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
