package social

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// MembershipRepo reads and writes the favorite, shopping_cart and
// subscription tables through one (owner, target) view.
type MembershipRepo interface {
	Exists(dbc dbctx.Context, kind types.MembershipKind, ownerID, targetID int64) (bool, error)
	Create(dbc dbctx.Context, kind types.MembershipKind, ownerID, targetID int64) (*types.MembershipRow, error)
	Delete(dbc dbctx.Context, kind types.MembershipKind, ownerID, targetID int64) (int64, error)
	ListTargets(dbc dbctx.Context, kind types.MembershipKind, ownerID int64) ([]int64, error)
	ListTargetsPage(dbc dbctx.Context, kind types.MembershipKind, ownerID int64, offset, limit int) ([]int64, int64, error)
	ExistingTargets(dbc dbctx.Context, kind types.MembershipKind, ownerID int64, targetIDs []int64) (map[int64]bool, error)
	DeleteByTargets(dbc dbctx.Context, kind types.MembershipKind, targetIDs []int64) error
	DeleteByOwners(dbc dbctx.Context, kind types.MembershipKind, ownerIDs []int64) error
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	repoLog := baseLog.With("repo", "MembershipRepo")
	return &membershipRepo{db: db, log: repoLog}
}

func kindModel(kind types.MembershipKind) (interface{}, error) {
	switch kind {
	case types.KindFavorite:
		return &types.Favorite{}, nil
	case types.KindShoppingCart:
		return &types.ShoppingCartItem{}, nil
	case types.KindSubscription:
		return &types.Subscription{}, nil
	default:
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
}

func (mr *membershipRepo) table(dbc dbctx.Context, kind types.MembershipKind) (*gorm.DB, error) {
	model, err := kindModel(kind)
	if err != nil {
		return nil, err
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(dbc.Context()).Model(model), nil
}

func (mr *membershipRepo) Exists(dbc dbctx.Context, kind types.MembershipKind, ownerID, targetID int64) (bool, error) {
	q, err := mr.table(dbc, kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := q.
		Where("user_id = ? AND "+kind.TargetColumn()+" = ?", ownerID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mr *membershipRepo) Create(dbc dbctx.Context, kind types.MembershipKind, ownerID, targetID int64) (*types.MembershipRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = mr.db
	}
	transaction = transaction.WithContext(dbc.Context())

	switch kind {
	case types.KindFavorite:
		row := &types.Favorite{UserID: ownerID, RecipeID: targetID}
		if err := transaction.Create(row).Error; err != nil {
			return nil, err
		}
		return &types.MembershipRow{ID: row.ID, OwnerID: row.UserID, TargetID: row.RecipeID, CreatedAt: row.CreatedAt}, nil
	case types.KindShoppingCart:
		row := &types.ShoppingCartItem{UserID: ownerID, RecipeID: targetID}
		if err := transaction.Create(row).Error; err != nil {
			return nil, err
		}
		return &types.MembershipRow{ID: row.ID, OwnerID: row.UserID, TargetID: row.RecipeID, CreatedAt: row.CreatedAt}, nil
	case types.KindSubscription:
		row := &types.Subscription{UserID: ownerID, AuthorID: targetID}
		if err := transaction.Create(row).Error; err != nil {
			return nil, err
		}
		return &types.MembershipRow{ID: row.ID, OwnerID: row.UserID, TargetID: row.AuthorID, CreatedAt: row.CreatedAt}, nil
	default:
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
}

// Delete returns the number of rows removed.
func (mr *membershipRepo) Delete(dbc dbctx.Context, kind types.MembershipKind, ownerID, targetID int64) (int64, error) {
	q, err := mr.table(dbc, kind)
	if err != nil {
		return 0, err
	}
	model, _ := kindModel(kind)
	res := q.
		Where("user_id = ? AND "+kind.TargetColumn()+" = ?", ownerID, targetID).
		Delete(model)
	return res.RowsAffected, res.Error
}

// ListTargets returns every target id for the owner, newest first.
func (mr *membershipRepo) ListTargets(dbc dbctx.Context, kind types.MembershipKind, ownerID int64) ([]int64, error) {
	q, err := mr.table(dbc, kind)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := q.
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Pluck(kind.TargetColumn(), &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (mr *membershipRepo) ListTargetsPage(dbc dbctx.Context, kind types.MembershipKind, ownerID int64, offset, limit int) ([]int64, int64, error) {
	q, err := mr.table(dbc, kind)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := q.Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q, _ = mr.table(dbc, kind)
	var ids []int64
	if err := q.
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Pluck(kind.TargetColumn(), &ids).Error; err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

// ExistingTargets reports which of targetIDs the owner holds.
func (mr *membershipRepo) ExistingTargets(dbc dbctx.Context, kind types.MembershipKind, ownerID int64, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIDs))
	if ownerID <= 0 || len(targetIDs) == 0 {
		return out, nil
	}
	q, err := mr.table(dbc, kind)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := q.
		Where("user_id = ? AND "+kind.TargetColumn()+" IN ?", ownerID, targetIDs).
		Pluck(kind.TargetColumn(), &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (mr *membershipRepo) DeleteByTargets(dbc dbctx.Context, kind types.MembershipKind, targetIDs []int64) error {
	if len(targetIDs) == 0 {
		return nil
	}
	q, err := mr.table(dbc, kind)
	if err != nil {
		return err
	}
	model, _ := kindModel(kind)
	return q.Where(kind.TargetColumn()+" IN ?", targetIDs).Delete(model).Error
}

func (mr *membershipRepo) DeleteByOwners(dbc dbctx.Context, kind types.MembershipKind, ownerIDs []int64) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	q, err := mr.table(dbc, kind)
	if err != nil {
		return err
	}
	model, _ := kindModel(kind)
	return q.Where("user_id IN ?", ownerIDs).Delete(model).Error
}
