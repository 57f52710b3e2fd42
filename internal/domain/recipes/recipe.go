package recipes

import "time"

const (
	MinAmount      = 1
	MaxAmount      = 32000
	MinCookingTime = 1
	MaxCookingTime = 32000
	MaxNameLength  = 256
)

type Recipe struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID       int64     `gorm:"not null;index;column:author_id" json:"author_id"`
	Name           string    `gorm:"not null;size:256;column:name" json:"name"`
	ImageBucketKey string    `gorm:"not null;column:image_bucket_key" json:"-"`
	ImageURL       string    `gorm:"not null;column:image_url" json:"image"`
	Text           string    `gorm:"not null;type:text;column:text" json:"text"`
	CookingTime    int       `gorm:"not null;column:cooking_time" json:"cooking_time"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }

type RecipeIngredient struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     int64 `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;column:recipe_id" json:"recipe_id"`
	IngredientID int64 `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;index;column:ingredient_id" json:"ingredient_id"`
	Amount       int   `gorm:"not null;column:amount" json:"amount"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }

// LineItem is a recipe ingredient joined with its catalog entry.
type LineItem struct {
	RecipeID        int64  `json:"-"`
	IngredientID    int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// LineItemInput is the (ingredient id, amount) pair supplied on write.
type LineItemInput struct {
	IngredientID int64 `json:"id"`
	Amount       int   `json:"amount"`
}
