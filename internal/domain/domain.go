package domain

import (
	"github.com/yungbote/foodgram-backend/internal/domain/auth"
	"github.com/yungbote/foodgram-backend/internal/domain/recipes"
	"github.com/yungbote/foodgram-backend/internal/domain/social"
	"github.com/yungbote/foodgram-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Ingredient = recipes.Ingredient
type Recipe = recipes.Recipe
type RecipeIngredient = recipes.RecipeIngredient
type LineItem = recipes.LineItem
type LineItemInput = recipes.LineItemInput

type Favorite = social.Favorite
type ShoppingCartItem = social.ShoppingCartItem
type Subscription = social.Subscription
type MembershipKind = social.MembershipKind
type MembershipRow = social.MembershipRow

const (
	KindFavorite     = social.KindFavorite
	KindShoppingCart = social.KindShoppingCart
	KindSubscription = social.KindSubscription
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	}
}
