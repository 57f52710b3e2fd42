package recipes

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type RecipeIngredientRepo interface {
	Create(dbc dbctx.Context, rows []*types.RecipeIngredient) ([]*types.RecipeIngredient, error)
	GetLinesByRecipeIDs(dbc dbctx.Context, recipeIDs []int64) ([]*types.LineItem, error)
	FullDeleteByRecipeIDs(dbc dbctx.Context, recipeIDs []int64) error
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	repoLog := baseLog.With("repo", "RecipeIngredientRepo")
	return &recipeIngredientRepo{db: db, log: repoLog}
}

func (rir *recipeIngredientRepo) Create(dbc dbctx.Context, rows []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rir.db
	}

	if len(rows) == 0 {
		return []*types.RecipeIngredient{}, nil
	}

	if err := transaction.WithContext(dbc.Context()).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLinesByRecipeIDs joins line items with the catalog, in insertion order.
func (rir *recipeIngredientRepo) GetLinesByRecipeIDs(dbc dbctx.Context, recipeIDs []int64) ([]*types.LineItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rir.db
	}

	var results []*types.LineItem
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Context()).
		Table("recipe_ingredient AS ri").
		Select("ri.recipe_id AS recipe_id, i.id AS ingredient_id, i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN ingredient AS i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id IN ?", recipeIDs).
		Order("ri.recipe_id ASC, ri.id ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rir *recipeIngredientRepo) FullDeleteByRecipeIDs(dbc dbctx.Context, recipeIDs []int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rir.db
	}

	if len(recipeIDs) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Context()).
		Where("recipe_id IN ?", recipeIDs).
		Delete(&types.RecipeIngredient{}).Error
}
