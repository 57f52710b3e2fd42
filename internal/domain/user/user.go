package user

import "time"

type User struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null;size:254;column:email" json:"email"`
	Username        string    `gorm:"uniqueIndex;not null;size:150;column:username" json:"username"`
	FirstName       string    `gorm:"not null;size:150;column:first_name" json:"first_name"`
	LastName        string    `gorm:"not null;size:150;column:last_name" json:"last_name"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	IsStaff         bool      `gorm:"not null;default:false;column:is_staff" json:"is_staff"`
	AvatarBucketKey string    `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       *string   `gorm:"column:avatar_url" json:"avatar"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "user" }
