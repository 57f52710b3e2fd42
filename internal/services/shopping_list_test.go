package services

import (
	"strings"
	"testing"

	types "github.com/yungbote/foodgram-backend/internal/domain"
)

func line(name, unit string, amount int) *types.LineItem {
	return &types.LineItem{Name: name, MeasurementUnit: unit, Amount: amount}
}

func TestAggregateShoppingListSumsByNameAndUnit(t *testing.T) {
	items := AggregateShoppingList([]*types.LineItem{
		line("sugar", "g", 200),
		line("egg", "pcs", 1),
		line("sugar", "g", 300),
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %+v", items)
	}
	if items[0] != (ShoppingListItem{Name: "egg", MeasurementUnit: "pcs", Amount: 1}) {
		t.Fatalf("unexpected first line: %+v", items[0])
	}
	if items[1] != (ShoppingListItem{Name: "sugar", MeasurementUnit: "g", Amount: 500}) {
		t.Fatalf("unexpected second line: %+v", items[1])
	}
}

func TestAggregateShoppingListKeepsUnitsApart(t *testing.T) {
	items := AggregateShoppingList([]*types.LineItem{
		line("milk", "ml", 200),
		line("milk", "cup", 1),
	})
	if len(items) != 2 {
		t.Fatalf("different units must not merge: %+v", items)
	}
	if items[0].MeasurementUnit != "cup" || items[1].MeasurementUnit != "ml" {
		t.Fatalf("ties should order by unit: %+v", items)
	}
}

func TestAggregateShoppingListOrdersCaseInsensitively(t *testing.T) {
	items := AggregateShoppingList([]*types.LineItem{
		line("banana", "pcs", 1),
		line("Apple", "pcs", 1),
		line("apple", "pcs", 1),
		line("cherry", "g", 1),
	})
	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.Name)
	}
	if strings.Join(got, ",") != "Apple,apple,banana,cherry" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestAggregateShoppingListIsDeterministic(t *testing.T) {
	in := []*types.LineItem{line("b", "g", 1), line("a", "g", 2), line("c", "g", 3), line("a", "kg", 4)}
	first := RenderShoppingList(AggregateShoppingList(in))
	for i := 0; i < 20; i++ {
		if again := RenderShoppingList(AggregateShoppingList(in)); again != first {
			t.Fatalf("render differs between runs:\n%s\n---\n%s", first, again)
		}
	}
}

func TestRenderShoppingList(t *testing.T) {
	rule := strings.Repeat("=", 50)
	got := RenderShoppingList([]ShoppingListItem{
		{Name: "egg", MeasurementUnit: "pcs", Amount: 1},
		{Name: "sugar", MeasurementUnit: "g", Amount: 500},
	})
	want := "Shopping list\n" + rule + "\n\n" +
		"egg (pcs) — 1\n" +
		"sugar (g) — 500\n" +
		"\n" + rule + "\n\nTotal ingredients: 2"
	if got != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmptyShoppingList(t *testing.T) {
	rule := strings.Repeat("=", 50)
	got := RenderShoppingList(AggregateShoppingList(nil))
	want := "Shopping list\n" + rule + "\n\n\n" + rule + "\n\nTotal ingredients: 0"
	if got != want {
		t.Fatalf("unexpected empty render: %q", got)
	}
}
