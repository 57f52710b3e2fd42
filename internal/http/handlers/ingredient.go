package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type IngredientHandler struct {
	log         *logger.Logger
	ingredients services.IngredientService
}

func NewIngredientHandler(log *logger.Logger, ingredients services.IngredientService) *IngredientHandler {
	return &IngredientHandler{log: log.With("handler", "IngredientHandler"), ingredients: ingredients}
}

// List handles GET /api/ingredients?name=<prefix>. The catalog is not paginated.
func (ih *IngredientHandler) List(c *gin.Context) {
	items, err := ih.ingredients.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.RespondDomainError(c, ih.log, err)
		return
	}
	response.RespondOK(c, presentIngredients(items))
}

// Suggest handles GET /api/ingredients/suggest?name=<query>&limit=<n>.
func (ih *IngredientHandler) Suggest(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	items, err := ih.ingredients.Suggest(c.Request.Context(), c.Query("name"), limit)
	if err != nil {
		response.RespondDomainError(c, ih.log, err)
		return
	}
	response.RespondOK(c, presentIngredients(items))
}

// Get handles GET /api/ingredients/:id.
func (ih *IngredientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := ih.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, ih.log, err)
		return
	}
	response.RespondOK(c, presentIngredient(item))
}
