package social

import "time"

// MembershipKind names one of the (owner, target) sets a user maintains.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindShoppingCart MembershipKind = "shopping_cart"
	KindSubscription MembershipKind = "subscription"
)

func (k MembershipKind) Valid() bool {
	switch k {
	case KindFavorite, KindShoppingCart, KindSubscription:
		return true
	default:
		return false
	}
}

// TargetColumn is the column holding the target id.
func (k MembershipKind) TargetColumn() string {
	if k == KindSubscription {
		return "author_id"
	}
	return "recipe_id"
}

type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_favorite_pair;column:user_id" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_favorite_pair;index;column:recipe_id" json:"recipe_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }

type ShoppingCartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_shopping_cart_pair;column:user_id" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_shopping_cart_pair;index;column:recipe_id" json:"recipe_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ShoppingCartItem) TableName() string { return "shopping_cart" }

type Subscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_subscription_pair;column:user_id" json:"user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:idx_subscription_pair;index;column:author_id" json:"author_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Subscription) TableName() string { return "subscription" }

// MembershipRow is the kind-agnostic view of a membership row.
type MembershipRow struct {
	ID        int64
	OwnerID   int64
	TargetID  int64
	CreatedAt time.Time
}
