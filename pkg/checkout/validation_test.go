package checkout

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
)

func TestValidateLines_NoViolations(t *testing.T) {
	lines := []LineCheck{
		{ItemID: uuid.New(), Name: "Pizza", Quantity: 2, Found: true, Available: true},
		{ItemID: uuid.New(), Name: "Tea", Quantity: 99, Found: true, Available: true},
	}
	if err := ValidateLines(lines, 99); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateLines(nil, 0); err != nil {
		t.Fatalf("expected no error for empty input, got %v", err)
	}
}

func TestValidateLines_Violations(t *testing.T) {
	lines := []LineCheck{
		{ItemID: uuid.New(), Name: "Ghost", Quantity: 1},
		{ItemID: uuid.New(), Name: "Lobster", Quantity: 1, Found: true},
		{ItemID: uuid.New(), Name: "Tea", Quantity: 120, Found: true, Available: true},
		{ItemID: uuid.New(), Name: "Pizza", Quantity: 1, Found: true, Available: true},
	}
	err := ValidateLines(lines, 99)
	if err == nil {
		t.Fatal("expected error for invalid lines")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected pkgerrors.Error, got %T", err)
	}
	if typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected code %s, got %s", pkgerrors.CodeStateConflict, typed.Code())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]LineViolation)
	if !ok {
		t.Fatalf("expected violations slice, got %T", details["violations"])
	}
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(violations))
	}
	want := []string{ReasonRemoved, ReasonUnavailable, ReasonQuantity}
	for i, reason := range want {
		if violations[i].Reason != reason {
			t.Fatalf("violation %d: expected %s got %s", i, reason, violations[i].Reason)
		}
	}
}

func TestValidateLines_NoCap(t *testing.T) {
	lines := []LineCheck{{ItemID: uuid.New(), Quantity: 1000, Found: true, Available: true}}
	if err := ValidateLines(lines, 0); err != nil {
		t.Fatalf("expected cap disabled, got %v", err)
	}
}
