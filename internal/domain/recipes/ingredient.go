package recipes

import (
	"strings"

	"gorm.io/gorm"
)

// Ingredient is catalog reference data. Rows are only written by the
// import command.
type Ingredient struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"not null;size:128;uniqueIndex:idx_ingredient_name_unit;column:name" json:"name" yaml:"name"`
	MeasurementUnit string `gorm:"not null;size:64;uniqueIndex:idx_ingredient_name_unit;column:measurement_unit" json:"measurement_unit" yaml:"measurement_unit"`
	// NameLower is the Unicode-folded name used for prefix search.
	NameLower string `gorm:"size:128;column:name_lower" json:"-" yaml:"-"`
}

func (Ingredient) TableName() string { return "ingredient" }

func (i *Ingredient) BeforeSave(*gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}
