package services

import (
	"fmt"
	"sort"
	"strings"

	types "github.com/yungbote/foodgram-backend/internal/domain"
)

const shoppingListRule = "=================================================="

// ShoppingListItem is one aggregated line of the shopping list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

type shoppingListKey struct {
	name string
	unit string
}

// AggregateShoppingList groups line items by (name, unit), sums amounts and
// sorts by name case-insensitively, breaking ties by exact name then unit.
func AggregateShoppingList(lines []*types.LineItem) []ShoppingListItem {
	totals := map[shoppingListKey]int64{}
	for _, l := range lines {
		if l == nil {
			continue
		}
		totals[shoppingListKey{name: l.Name, unit: l.MeasurementUnit}] += int64(l.Amount)
	}
	items := make([]ShoppingListItem, 0, len(totals))
	for k, amount := range totals {
		items = append(items, ShoppingListItem{Name: k.name, MeasurementUnit: k.unit, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool {
		li, lj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if li != lj {
			return li < lj
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// RenderShoppingList produces the downloadable plain-text report.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n")
	b.WriteString(shoppingListRule)
	b.WriteString("\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s (%s) — %d\n", it.Name, it.MeasurementUnit, it.Amount)
	}
	b.WriteString("\n")
	b.WriteString(shoppingListRule)
	fmt.Fprintf(&b, "\n\nTotal ingredients: %d", len(items))
	return b.String()
}
