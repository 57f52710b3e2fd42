package aggregates

import (
	"context"
	"fmt"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

type MembershipAggregateDeps struct {
	Base BaseDeps

	Memberships repos.MembershipRepo
	Recipes     repos.RecipeRepo
	Users       repos.UserRepo
}

type membershipAggregate struct {
	deps MembershipAggregateDeps
}

func NewMembershipAggregate(deps MembershipAggregateDeps) domainagg.MembershipAggregate {
	deps.Base = deps.Base.withDefaults()
	return &membershipAggregate{deps: deps}
}

func (a *membershipAggregate) Contract() domainagg.Contract {
	return domainagg.MembershipAggregateContract
}

type membershipMessages struct {
	target  string
	exists  string
	missing string
}

var messagesByKind = map[types.MembershipKind]membershipMessages{
	types.KindFavorite: {
		target:  "recipe",
		exists:  "recipe is already in favorites",
		missing: "recipe is not in favorites",
	},
	types.KindShoppingCart: {
		target:  "recipe",
		exists:  "recipe is already in the shopping cart",
		missing: "recipe is not in the shopping cart",
	},
	types.KindSubscription: {
		target:  "user",
		exists:  "you are already subscribed to this author",
		missing: "you are not subscribed to this author",
	},
}

func (a *membershipAggregate) Add(ctx context.Context, in domainagg.MembershipInput) (*types.MembershipRow, error) {
	op := fmt.Sprintf("Social.Membership.Add.%s", in.Kind)
	msgs, err := a.precheck(op, in)
	if err != nil {
		return nil, err
	}

	var out *types.MembershipRow
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.requireTarget(dbc, op, in, msgs); err != nil {
			return err
		}
		exists, err := a.deps.Memberships.Exists(dbc, in.Kind, in.OwnerID, in.TargetID)
		if err != nil {
			return err
		}
		if exists {
			return ConflictError(msgs.exists)
		}
		row, err := a.deps.Memberships.Create(dbc, in.Kind, in.OwnerID, in.TargetID)
		if err != nil {
			if IsUniqueViolation(err) {
				return ConflictError(msgs.exists)
			}
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *membershipAggregate) Remove(ctx context.Context, in domainagg.MembershipInput) error {
	op := fmt.Sprintf("Social.Membership.Remove.%s", in.Kind)
	msgs, err := a.precheck(op, in)
	if err != nil {
		return err
	}

	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.requireTarget(dbc, op, in, msgs); err != nil {
			return err
		}
		n, err := a.deps.Memberships.Delete(dbc, in.Kind, in.OwnerID, in.TargetID)
		if err != nil {
			return err
		}
		if n == 0 {
			return domainagg.NewError(domainagg.CodeNotFound, op, msgs.missing, domainagg.ErrMembershipMissing)
		}
		return nil
	})
}

func (a *membershipAggregate) precheck(op string, in domainagg.MembershipInput) (membershipMessages, error) {
	msgs, ok := messagesByKind[in.Kind]
	if !ok {
		return msgs, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown membership kind %q", in.Kind), nil)
	}
	if a.deps.Memberships == nil || a.deps.Recipes == nil || a.deps.Users == nil {
		return msgs, domainagg.NewError(domainagg.CodeInternal, op, "membership aggregate deps not configured", nil)
	}
	if in.OwnerID <= 0 {
		return msgs, domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
	}
	if in.Kind == types.KindSubscription && in.OwnerID == in.TargetID {
		return msgs, domainagg.NewError(domainagg.CodeValidation, op, "you cannot subscribe to yourself", nil)
	}
	return msgs, nil
}

func (a *membershipAggregate) requireTarget(dbc dbctx.Context, op string, in domainagg.MembershipInput, msgs membershipMessages) error {
	var found bool
	switch in.Kind {
	case types.KindSubscription:
		rows, err := a.deps.Users.GetByIDs(dbc, []int64{in.TargetID})
		if err != nil {
			return err
		}
		found = len(rows) > 0
	default:
		rows, err := a.deps.Recipes.GetByIDs(dbc, []int64{in.TargetID})
		if err != nil {
			return err
		}
		found = len(rows) > 0
	}
	if !found {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("%s %d not found", msgs.target, in.TargetID), nil)
	}
	return nil
}
