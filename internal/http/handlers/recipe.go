package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandlerConfig struct {
	// PublicBaseURL prefixes short links; the request host is used when empty.
	PublicBaseURL string
	// FrontendBaseURL is where short links redirect to.
	FrontendBaseURL string
}

type RecipeHandler struct {
	log         *logger.Logger
	recipes     services.RecipeService
	memberships services.MembershipService
	cfg         RecipeHandlerConfig
}

func NewRecipeHandler(log *logger.Logger, recipes services.RecipeService, memberships services.MembershipService, cfg RecipeHandlerConfig) *RecipeHandler {
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.FrontendBaseURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendBaseURL), "/")
	return &RecipeHandler{
		log:         log.With("handler", "RecipeHandler"),
		recipes:     recipes,
		memberships: memberships,
		cfg:         cfg,
	}
}

// List handles GET /api/recipes.
func (rh *RecipeHandler) List(c *gin.Context) {
	page, ok := response.ParsePage(c)
	if !ok {
		return
	}
	q := services.RecipeQuery{
		FavoritedOnly: queryFlag(c, "is_favorited"),
		InCartOnly:    queryFlag(c, "is_in_shopping_cart"),
	}
	if raw := strings.TrimSpace(c.Query("author")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.RespondError(c, http.StatusBadRequest, "author: select a valid user id")
			return
		}
		q.AuthorID = id
	}
	views, total, err := rh.recipes.List(c.Request.Context(), q, page.Offset(), page.Limit)
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondPage(c, page, total, presentRecipesFor("list", views))
}

// Create handles POST /api/recipes.
func (rh *RecipeHandler) Create(c *gin.Context) {
	var req services.RecipeWriteInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := rh.recipes.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondCreated(c, presentRecipeFor("create", view))
}

// Get handles GET /api/recipes/:id.
func (rh *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := rh.recipes.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondOK(c, presentRecipeFor("retrieve", view))
}

// Update handles PATCH /api/recipes/:id.
func (rh *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.RecipeWriteInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := rh.recipes.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondOK(c, presentRecipeFor("partial_update", view))
}

// Delete handles DELETE /api/recipes/:id.
func (rh *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rh.recipes.Delete(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondNoContent(c)
}

// GetLink handles GET /api/recipes/:id/get-link.
func (rh *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	code, err := rh.recipes.ShortCode(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	base := rh.cfg.PublicBaseURL
	if base == "" {
		base = requestOrigin(c.Request)
	}
	response.RespondOK(c, gin.H{"short-link": base + "/s/" + code})
}

// Redirect handles GET /s/:code.
func (rh *RecipeHandler) Redirect(c *gin.Context) {
	id, err := rh.recipes.ResolveShortCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	base := rh.cfg.FrontendBaseURL
	if base == "" {
		base = requestOrigin(c.Request)
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/recipes/%d", base, id))
}

// AddFavorite handles POST /api/recipes/:id/favorite.
func (rh *RecipeHandler) AddFavorite(c *gin.Context) {
	rh.addMembership(c, types.KindFavorite, "favorite")
}

// RemoveFavorite handles DELETE /api/recipes/:id/favorite.
func (rh *RecipeHandler) RemoveFavorite(c *gin.Context) {
	rh.removeMembership(c, types.KindFavorite)
}

// AddToCart handles POST /api/recipes/:id/shopping_cart.
func (rh *RecipeHandler) AddToCart(c *gin.Context) {
	rh.addMembership(c, types.KindShoppingCart, "shopping_cart")
}

// RemoveFromCart handles DELETE /api/recipes/:id/shopping_cart.
func (rh *RecipeHandler) RemoveFromCart(c *gin.Context) {
	rh.removeMembership(c, types.KindShoppingCart)
}

func (rh *RecipeHandler) addMembership(c *gin.Context, kind types.MembershipKind, action string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := rh.memberships.AddRecipe(c.Request.Context(), kind, id)
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondCreated(c, presentRecipeFor(action, &services.RecipeView{Recipe: recipe}))
}

func (rh *RecipeHandler) removeMembership(c *gin.Context, kind types.MembershipKind) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := rh.memberships.RemoveRecipe(c.Request.Context(), kind, id); err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	response.RespondNoContent(c)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart.
func (rh *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	text, err := rh.recipes.ShoppingList(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, rh.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(strings.Split(proto, ",")[0])
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
