package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/bistro-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when an add asks for fewer than one unit.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// LineItem is one entry in a ledger. UnitPrice is the catalog price captured
// when the item was first added.
type LineItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is UnitPrice multiplied by Quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Fees are the caller-supplied charges applied on top of the subtotal.
type Fees struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

// Summary is a priced snapshot of a ledger.
type Summary struct {
	Lines       []LineItem      `json:"lines"`
	LineCount   int             `json:"line_count"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Ledger keeps ordered line items, at most one per catalog item id.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	lines []LineItem
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) indexOf(itemID uuid.UUID) int {
	for i := range l.lines {
		if l.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem appends a line with the item's current price, or increases the
// quantity of the existing line. The original price snapshot is kept.
func (l *Ledger) AddItem(item types.CatalogItem, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if idx := l.indexOf(item.ID); idx >= 0 {
		l.lines[idx].Quantity += qty
		return nil
	}
	l.lines = append(l.lines, LineItem{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  qty,
	})
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Quantities below one
// and unknown ids are ignored; the return value reports whether a line changed.
func (l *Ledger) UpdateQuantity(itemID uuid.UUID, qty int) bool {
	if qty < 1 {
		return false
	}
	idx := l.indexOf(itemID)
	if idx < 0 {
		return false
	}
	l.lines[idx].Quantity = qty
	return true
}

// RemoveItem drops the line for itemID if present.
func (l *Ledger) RemoveItem(itemID uuid.UUID) bool {
	idx := l.indexOf(itemID)
	if idx < 0 {
		return false
	}
	l.lines = append(l.lines[:idx], l.lines[idx+1:]...)
	return true
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.lines = nil
}

// IsEmpty reports whether the ledger has no lines.
func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []LineItem {
	out := make([]LineItem, len(l.lines))
	copy(out, l.lines)
	return out
}

// Line looks up a single line.
func (l *Ledger) Line(itemID uuid.UUID) (LineItem, bool) {
	idx := l.indexOf(itemID)
	if idx < 0 {
		return LineItem{}, false
	}
	return l.lines[idx], true
}

// ItemCount is the sum of quantities across lines.
func (l *Ledger) ItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal sums unit price times quantity over every line.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

// Tax is the subtotal multiplied by the tax rate.
func (l *Ledger) Tax(rate decimal.Decimal) decimal.Decimal {
	return l.Subtotal().Mul(rate)
}

// Total is subtotal + delivery fee + subtotal * tax rate. The delivery fee is
// charged even on an empty ledger; callers decide whether to allow that.
func (l *Ledger) Total(fees Fees) decimal.Decimal {
	subtotal := l.Subtotal()
	return subtotal.Add(fees.DeliveryFee).Add(subtotal.Mul(fees.TaxRate))
}

// Summarize prices the ledger in full precision.
func (l *Ledger) Summarize(fees Fees) Summary {
	subtotal := l.Subtotal()
	tax := subtotal.Mul(fees.TaxRate)
	return Summary{
		Lines:       l.Lines(),
		LineCount:   len(l.lines),
		ItemCount:   l.ItemCount(),
		Subtotal:    subtotal,
		DeliveryFee: fees.DeliveryFee,
		Tax:         tax,
		Total:       subtotal.Add(fees.DeliveryFee).Add(tax),
	}
}

type ledgerJSON struct {
	Lines []LineItem `json:"lines"`
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	lines := l.lines
	if lines == nil {
		lines = []LineItem{}
	}
	return json.Marshal(ledgerJSON{Lines: lines})
}

// UnmarshalJSON restores a ledger, rejecting snapshots that break the
// one-line-per-id or quantity >= 1 rules.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw ledgerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	seen := make(map[uuid.UUID]struct{}, len(raw.Lines))
	for _, line := range raw.Lines {
		if line.Quantity < 1 {
			return fmt.Errorf("line %s: %w", line.ItemID, ErrInvalidQuantity)
		}
		if _, dup := seen[line.ItemID]; dup {
			return fmt.Errorf("duplicate line for item %s", line.ItemID)
		}
		seen[line.ItemID] = struct{}{}
	}
	l.lines = raw.Lines
	return nil
}
