package recipes

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type IngredientRepo interface {
	SearchByNamePrefix(dbc dbctx.Context, prefix string) ([]*types.Ingredient, error)
	GetByIDs(dbc dbctx.Context, ingredientIDs []int64) ([]*types.Ingredient, error)
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.Ingredient, batchSize int) (int64, error)
	DeleteAll(dbc dbctx.Context) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

// SearchByNamePrefix matches against the Unicode-folded name_lower column;
// an empty prefix returns the whole catalog.
func (ir *ingredientRepo) SearchByNamePrefix(dbc dbctx.Context, prefix string) ([]*types.Ingredient, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ir.db
	}

	q := transaction.WithContext(dbc.Context()).Model(&types.Ingredient{})
	if p := strings.ToLower(strings.TrimSpace(prefix)); p != "" {
		q = q.Where(`name_lower LIKE ? ESCAPE '\'`, escapeLike(p)+"%")
	}

	var results []*types.Ingredient
	if err := q.Order("name ASC, measurement_unit ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) GetByIDs(dbc dbctx.Context, ingredientIDs []int64) ([]*types.Ingredient, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if len(ingredientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Context()).
		Where("id IN ?", ingredientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CreateIgnoreDuplicates inserts rows in batches and skips (name, unit)
// pairs that already exist. It returns the number of rows inserted.
func (ir *ingredientRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.Ingredient, batchSize int) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	res := transaction.WithContext(dbc.Context()).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, batchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (ir *ingredientRepo) DeleteAll(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ir.db
	}

	res := transaction.WithContext(dbc.Context()).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Ingredient{})
	return res.RowsAffected, res.Error
}

func (ir *ingredientRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ir.db
	}

	var n int64
	err := transaction.WithContext(dbc.Context()).Model(&types.Ingredient{}).Count(&n).Error
	return n, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
