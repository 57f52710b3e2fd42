package recipes

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// RecipeFilter narrows List. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
}

type AuthorRecipeCount struct {
	AuthorID int64
	Count    int64
}

type RecipeRepo interface {
	Create(dbc dbctx.Context, recipes []*types.Recipe) ([]*types.Recipe, error)
	GetByIDs(dbc dbctx.Context, recipeIDs []int64) ([]*types.Recipe, error)
	GetByAuthorIDs(dbc dbctx.Context, authorIDs []int64) ([]*types.Recipe, error)
	List(dbc dbctx.Context, filter RecipeFilter, offset, limit int) ([]*types.Recipe, int64, error)
	ListByAuthor(dbc dbctx.Context, authorID int64, limit int) ([]*types.Recipe, error)
	CountByAuthors(dbc dbctx.Context, authorIDs []int64) (map[int64]int64, error)
	UpdateFields(dbc dbctx.Context, recipeID int64, updates map[string]interface{}) error
	FullDeleteByIDs(dbc dbctx.Context, recipeIDs []int64) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	repoLog := baseLog.With("repo", "RecipeRepo")
	return &recipeRepo{db: db, log: repoLog}
}

const newestFirst = "created_at DESC, id DESC"

func (rr *recipeRepo) Create(dbc dbctx.Context, recipes []*types.Recipe) ([]*types.Recipe, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recipes) == 0 {
		return []*types.Recipe{}, nil
	}

	if err := transaction.WithContext(dbc.Context()).Create(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (rr *recipeRepo) GetByIDs(dbc dbctx.Context, recipeIDs []int64) ([]*types.Recipe, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Context()).
		Where("id IN ?", recipeIDs).
		Order(newestFirst).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) GetByAuthorIDs(dbc dbctx.Context, authorIDs []int64) ([]*types.Recipe, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe
	if len(authorIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Context()).
		Where("author_id IN ?", authorIDs).
		Order(newestFirst).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// List returns one newest-first page of recipes matching filter and the
// total number of matches.
func (rr *recipeRepo) List(dbc dbctx.Context, filter RecipeFilter, offset, limit int) ([]*types.Recipe, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	scoped := func() *gorm.DB {
		q := transaction.WithContext(dbc.Context()).Model(&types.Recipe{})
		if filter.AuthorID > 0 {
			q = q.Where("author_id = ?", filter.AuthorID)
		}
		if filter.FavoritedBy > 0 {
			q = q.Where("id IN (?)", transaction.Table("favorite").Select("recipe_id").Where("user_id = ?", filter.FavoritedBy))
		}
		if filter.InCartOf > 0 {
			q = q.Where("id IN (?)", transaction.Table("shopping_cart").Select("recipe_id").Where("user_id = ?", filter.InCartOf))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Recipe
	if err := scoped().
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// ListByAuthor returns the author's newest recipes; limit <= 0 means all.
func (rr *recipeRepo) ListByAuthor(dbc dbctx.Context, authorID int64, limit int) ([]*types.Recipe, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	q := transaction.WithContext(dbc.Context()).
		Where("author_id = ?", authorID).
		Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var results []*types.Recipe
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) CountByAuthors(dbc dbctx.Context, authorIDs []int64) (map[int64]int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []AuthorRecipeCount
	if err := transaction.WithContext(dbc.Context()).
		Model(&types.Recipe{}).
		Select("author_id, COUNT(*) AS count").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AuthorID] = r.Count
	}
	return out, nil
}

func (rr *recipeRepo) UpdateFields(dbc dbctx.Context, recipeID int64, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(updates) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Context()).
		Model(&types.Recipe{}).
		Where("id = ?", recipeID).
		Updates(updates).Error
}

func (rr *recipeRepo) FullDeleteByIDs(dbc dbctx.Context, recipeIDs []int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recipeIDs) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Context()).
		Where("id IN ?", recipeIDs).
		Delete(&types.Recipe{}).Error
}
