package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleLine struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int   `json:"amount" validate:"gte=1,lte=32000"`
}

type sample struct {
	Name        string       `json:"name" validate:"required,max=8"`
	Username    string       `json:"username" validate:"required,username"`
	CookingTime int          `json:"cooking_time" validate:"gte=1,lte=32000"`
	Lines       []sampleLine `json:"ingredients" validate:"min=1,dive"`
}

func TestValidateStructOK(t *testing.T) {
	err := ValidateStruct(sample{
		Name:        "soup",
		Username:    "chef.01",
		CookingTime: 10,
		Lines:       []sampleLine{{ID: 1, Amount: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStructReportsFields(t *testing.T) {
	err := ValidateStruct(sample{
		Name:        "",
		Username:    "bad name!",
		CookingTime: 0,
		Lines:       []sampleLine{{ID: 1, Amount: 40000}},
	})
	var rve *RequestValidationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected RequestValidationError, got %T %v", err, err)
	}
	fields := map[string]string{}
	for _, f := range rve.Fields {
		fields[f.Field] = f.Message
	}
	for _, want := range []string{"name", "username", "cooking_time", "ingredients[0].amount"} {
		if _, ok := fields[want]; !ok {
			t.Fatalf("missing field %q in %v", want, fields)
		}
	}
	if !strings.Contains(err.Error(), "name: this field is required") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestValidateStructEmptySlice(t *testing.T) {
	err := ValidateStruct(sample{Name: "a", Username: "a", CookingTime: 1})
	if err == nil || !strings.Contains(err.Error(), "ingredients: ensure this field has at least 1 items") {
		t.Fatalf("unexpected error: %v", err)
	}
}
