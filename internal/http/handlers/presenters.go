package handlers

import (
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type userPayload struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type userCreatedPayload struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type authorPayload struct {
	userPayload
	Recipes      []recipeMinifiedPayload `json:"recipes"`
	RecipesCount int64                   `json:"recipes_count"`
}

type ingredientPayload struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type lineItemPayload struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipePayload struct {
	ID               int64             `json:"id"`
	Author           userPayload       `json:"author"`
	Ingredients      []lineItemPayload `json:"ingredients"`
	IsFavorited      bool              `json:"is_favorited"`
	IsInShoppingCart bool              `json:"is_in_shopping_cart"`
	Name             string            `json:"name"`
	Image            string            `json:"image"`
	Text             string            `json:"text"`
	CookingTime      int               `json:"cooking_time"`
}

type recipeMinifiedPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// userPresenters selects the user response shape by action.
var userPresenters = map[string]func(services.AuthorView) any{
	"list":          func(v services.AuthorView) any { return presentUser(v.UserView) },
	"retrieve":      func(v services.AuthorView) any { return presentUser(v.UserView) },
	"me":            func(v services.AuthorView) any { return presentUser(v.UserView) },
	"create":        func(v services.AuthorView) any { return presentUserCreated(v.User) },
	"subscribe":     func(v services.AuthorView) any { return presentAuthor(v) },
	"subscriptions": func(v services.AuthorView) any { return presentAuthor(v) },
}

// recipePresenters selects the recipe response shape by action.
var recipePresenters = map[string]func(*services.RecipeView) any{
	"list":           func(v *services.RecipeView) any { return presentRecipe(v) },
	"retrieve":       func(v *services.RecipeView) any { return presentRecipe(v) },
	"create":         func(v *services.RecipeView) any { return presentRecipe(v) },
	"partial_update": func(v *services.RecipeView) any { return presentRecipe(v) },
	"favorite":       func(v *services.RecipeView) any { return presentRecipeMinified(v.Recipe) },
	"shopping_cart":  func(v *services.RecipeView) any { return presentRecipeMinified(v.Recipe) },
}

func presentUserFor(action string, v services.AuthorView) any {
	if fn, ok := userPresenters[action]; ok {
		return fn(v)
	}
	return presentUser(v.UserView)
}

func presentUsersFor(action string, views []services.AuthorView) []any {
	out := make([]any, 0, len(views))
	for _, v := range views {
		out = append(out, presentUserFor(action, v))
	}
	return out
}

func presentRecipeFor(action string, v *services.RecipeView) any {
	if fn, ok := recipePresenters[action]; ok {
		return fn(v)
	}
	return presentRecipe(v)
}

func presentRecipesFor(action string, views []*services.RecipeView) []any {
	out := make([]any, 0, len(views))
	for _, v := range views {
		out = append(out, presentRecipeFor(action, v))
	}
	return out
}

func presentUser(v services.UserView) userPayload {
	u := v.User
	if u == nil {
		return userPayload{}
	}
	return userPayload{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: v.IsSubscribed,
		Avatar:       u.AvatarURL,
	}
}

func presentUserCreated(u *types.User) userCreatedPayload {
	return userCreatedPayload{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func presentAuthor(v services.AuthorView) authorPayload {
	recipes := make([]recipeMinifiedPayload, 0, len(v.Recipes))
	for _, r := range v.Recipes {
		recipes = append(recipes, presentRecipeMinified(r))
	}
	return authorPayload{
		userPayload:  presentUser(v.UserView),
		Recipes:      recipes,
		RecipesCount: v.RecipesCount,
	}
}

func presentIngredient(i *types.Ingredient) ingredientPayload {
	return ingredientPayload{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func presentIngredients(items []*types.Ingredient) []ingredientPayload {
	out := make([]ingredientPayload, 0, len(items))
	for _, i := range items {
		out = append(out, presentIngredient(i))
	}
	return out
}

func presentRecipe(v *services.RecipeView) recipePayload {
	lines := make([]lineItemPayload, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, lineItemPayload{
			ID:              l.IngredientID,
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		})
	}
	r := v.Recipe
	return recipePayload{
		ID:               r.ID,
		Author:           presentUser(v.Author),
		Ingredients:      lines,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func presentRecipeMinified(r *types.Recipe) recipeMinifiedPayload {
	return recipeMinifiedPayload{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}
