package aggregates

import "context"

var UserAggregateContract = Contract{
	Name:             "Users.UserAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Deletes a user and everything the user owns in one transaction.",
}

type UserAggregate interface {
	Aggregate

	Delete(ctx context.Context, in DeleteUserInput) (DeleteUserResult, error)
}

type DeleteUserInput struct {
	UserID int64
}

// DeleteUserResult lists the object keys that were referenced by deleted rows.
type DeleteUserResult struct {
	UserID          int64
	RecipeIDs       []int64
	RecipeImageKeys []string
	AvatarBucketKey string
}
