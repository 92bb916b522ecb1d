package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotalValueIsExact(t *testing.T) {
	item := Item{
		Quantity:  3,
		UnitValue: decimal.RequireFromString("19.99"),
	}

	// Float arithmetic would yield 59.970000000000006 here.
	if got := item.TotalValue().String(); got != "59.97" {
		t.Errorf("expected total value 59.97, got %s", got)
	}
}

func TestTotalValueZeroQuantity(t *testing.T) {
	item := Item{
		Quantity:  0,
		UnitValue: decimal.RequireFromString("100.00"),
	}
	if !item.TotalValue().IsZero() {
		t.Errorf("expected zero total value, got %s", item.TotalValue())
	}
}

func TestNeedsReorderBoundary(t *testing.T) {
	item := Item{Quantity: 5, MinQuantity: 5}
	if !item.NeedsReorder() {
		t.Error("quantity equal to minimum must count as needing reorder")
	}

	item.Quantity = 6
	if item.NeedsReorder() {
		t.Error("quantity above minimum must not need reorder")
	}
}

func TestTransactionTypeIsValid(t *testing.T) {
	for _, typ := range []TransactionType{
		TransactionTypeAddition,
		TransactionTypeRemoval,
		TransactionTypeAdjustment,
		TransactionTypeTransfer,
	} {
		if !typ.IsValid() {
			t.Errorf("expected %q to be valid", typ)
		}
	}

	if TransactionType("DONATE").IsValid() {
		t.Error("unknown transaction type must not be valid")
	}
}
