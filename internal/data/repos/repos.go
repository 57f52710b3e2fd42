package repos

import (
	"github.com/yungbote/foodgram-backend/internal/data/repos/auth"
	"github.com/yungbote/foodgram-backend/internal/data/repos/recipes"
	"github.com/yungbote/foodgram-backend/internal/data/repos/social"
	"github.com/yungbote/foodgram-backend/internal/data/repos/user"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type IngredientRepo = recipes.IngredientRepo
type RecipeRepo = recipes.RecipeRepo
type RecipeIngredientRepo = recipes.RecipeIngredientRepo
type RecipeFilter = recipes.RecipeFilter

type MembershipRepo = social.MembershipRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return recipes.NewIngredientRepo(db, baseLog)
}
func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return recipes.NewRecipeRepo(db, baseLog)
}
func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return recipes.NewRecipeIngredientRepo(db, baseLog)
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return social.NewMembershipRepo(db, baseLog)
}
