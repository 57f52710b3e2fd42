package auth

import "time"

// UserToken is one issued access token. The JWT carries JTI; deleting the
// row revokes the token.
type UserToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null;column:user_id" json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null;size:64;column:jti" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (UserToken) TableName() string { return "user_token" }

func (t *UserToken) Expired(now time.Time) bool {
	return t == nil || !now.Before(t.ExpiresAt)
}
