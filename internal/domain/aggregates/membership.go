package aggregates

import (
	"context"
	"errors"

	"github.com/yungbote/foodgram-backend/internal/domain/social"
)

var MembershipAggregateContract = Contract{
	Name:             "Social.MembershipAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "One add/remove contract over favorite, shopping_cart and subscription pairs; unique indexes decide races.",
}

// MembershipAggregate owns the favorite, shopping cart and subscription sets.
//
// Add fails with CodeNotFound for a missing target, CodeConflict for an
// existing pair and CodeValidation for self-subscription. Remove fails with
// CodeNotFound when the pair is absent.
type MembershipAggregate interface {
	Aggregate

	Add(ctx context.Context, in MembershipInput) (*social.MembershipRow, error)
	Remove(ctx context.Context, in MembershipInput) error
}

// ErrMembershipMissing is the cause of the not_found error Remove returns
// when the owner does not hold the pair.
var ErrMembershipMissing = errors.New("membership pair does not exist")

type MembershipInput struct {
	Kind     social.MembershipKind
	OwnerID  int64
	TargetID int64
}
