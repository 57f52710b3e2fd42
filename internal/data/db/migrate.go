package db

import (
	"fmt"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

type foreignKey struct {
	name      string
	table     string
	column    string
	refTable  string
	refColumn string
}

var foreignKeys = []foreignKey{
	{"fk_user_token_user", "user_token", "user_id", `"user"`, "id"},
	{"fk_recipe_author", "recipe", "author_id", `"user"`, "id"},
	{"fk_recipe_ingredient_recipe", "recipe_ingredient", "recipe_id", "recipe", "id"},
	{"fk_recipe_ingredient_ingredient", "recipe_ingredient", "ingredient_id", "ingredient", "id"},
	{"fk_favorite_user", "favorite", "user_id", `"user"`, "id"},
	{"fk_favorite_recipe", "favorite", "recipe_id", "recipe", "id"},
	{"fk_shopping_cart_user", "shopping_cart", "user_id", `"user"`, "id"},
	{"fk_shopping_cart_recipe", "shopping_cart", "recipe_id", "recipe", "id"},
	{"fk_subscription_user", "subscription", "user_id", `"user"`, "id"},
	{"fk_subscription_author", "subscription", "author_id", `"user"`, "id"},
}

// EnsureConstraints installs cascading foreign keys, the self-subscription
// check and the folded ingredient name index. Postgres only.
func EnsureConstraints(db *gorm.DB) error {
	for _, fk := range foreignKeys {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %s ADD CONSTRAINT %s
					FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE CASCADE;
				END IF;
			END $$;
		`, fk.name, fk.table, fk.name, fk.column, fk.refTable, fk.refColumn)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", fk.name, err)
		}
	}

	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_subscription_not_self') THEN
				ALTER TABLE subscription ADD CONSTRAINT chk_subscription_not_self
				CHECK (user_id <> author_id);
			END IF;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("create chk_subscription_not_self: %w", err)
	}

	if err := db.Exec(`
		UPDATE ingredient SET name_lower = lower(name)
		WHERE name_lower IS NULL OR name_lower = '';
	`).Error; err != nil {
		return fmt.Errorf("backfill ingredient.name_lower: %w", err)
	}
	if err := db.Exec(`DROP INDEX IF EXISTS idx_ingredient_lower_name;`).Error; err != nil {
		return fmt.Errorf("drop idx_ingredient_lower_name: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_ingredient_name_lower
		ON ingredient (name_lower text_pattern_ops);
	`).Error; err != nil {
		return fmt.Errorf("create idx_ingredient_name_lower: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recipe_created_desc
		ON recipe (created_at DESC, id DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_recipe_created_desc: %w", err)
	}
	return nil
}
