package api

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mealmancer/server/internal/messages"
	"github.com/mealmancer/server/internal/middleware"
	"github.com/mealmancer/server/internal/service"
)

var ingredientsPattern = regexp.MustCompile(`^[a-zA-Z\s,]+$`)

// RecipeHandler serves recipe generation and the favourites collection.
type RecipeHandler struct {
	recipes   *service.RecipeService
	favorites *service.FavoriteService
	metering  *service.MeteringService
}

func NewRecipeHandler(recipes *service.RecipeService, favorites *service.FavoriteService, metering *service.MeteringService) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		favorites: favorites,
		metering:  metering,
	}
}

// Generate reserves one token, calls the external generation service and
// returns the parsed recipe. The reservation is refunded when the
// upstream call or the parse fails, so a failed generation is never
// charged. With an empty balance the upstream service is not contacted.
func (h *RecipeHandler) Generate(c *gin.Context) {
	var query GenerateQuery
	if err := c.ShouldBindQuery(&query); err != nil || !ingredientsPattern.MatchString(query.Ingredients) {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.InvalidRecipeInput})
		return
	}

	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: messages.InvalidToken})
		return
	}

	if err := h.metering.ReserveToken(c.Request.Context(), claims.UserID); err != nil {
		respondError(c, err)
		return
	}

	sections, err := h.recipes.GenerateRecipe(c.Request.Context(), query.Ingredients)
	if err != nil {
		// The upstream call may have failed because the client hung up;
		// the refund must still go through on a live context.
		refundCtx := context.WithoutCancel(c.Request.Context())
		if refundErr := h.metering.RefundToken(refundCtx, claims.UserID); refundErr != nil {
			logrus.WithError(refundErr).WithField("user_id", claims.UserID).Error("failed to refund token")
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

func (h *RecipeHandler) ListFavourites(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	recipes, err := h.favorites.List(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) AddFavourite(c *gin.Context) {
	var req AddFavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipe.Title == "" {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.BadRequest})
		return
	}

	claims := middleware.CurrentClaims(c)
	if _, err := h.favorites.Add(c.Request.Context(), claims.UserID, req.Recipe); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: messages.NewFavouriteAdded})
}

func (h *RecipeHandler) DeleteFavourite(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Query("recipe"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: messages.BadRequest})
		return
	}

	claims := middleware.CurrentClaims(c)
	if err := h.favorites.Delete(c.Request.Context(), claims.UserID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: messages.RemovedFavourite})
}
