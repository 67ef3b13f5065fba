package checkout

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
)

// LineCheck describes one cart line as it stands at checkout.
type LineCheck struct {
	ItemID    uuid.UUID
	Name      string
	Quantity  int
	Found     bool
	Available bool
}

// LineViolation is returned to callers for each line that cannot be ordered.
type LineViolation struct {
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name,omitempty"`
	Reason   string    `json:"reason"`
	Quantity int       `json:"quantity"`
}

const (
	ReasonRemoved     = "removed_from_menu"
	ReasonUnavailable = "unavailable"
	ReasonQuantity    = "quantity_exceeds_limit"
)

// ValidateLines rejects lines whose item left the menu, became unavailable,
// or exceed maxQuantity. maxQuantity <= 0 disables the cap.
func ValidateLines(lines []LineCheck, maxQuantity int) error {
	var violations []LineViolation
	for _, line := range lines {
		reason := ""
		switch {
		case !line.Found:
			reason = ReasonRemoved
		case !line.Available:
			reason = ReasonUnavailable
		case maxQuantity > 0 && line.Quantity > maxQuantity:
			reason = ReasonQuantity
		}
		if reason == "" {
			continue
		}
		violations = append(violations, LineViolation{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Reason:   reason,
			Quantity: line.Quantity,
		})
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%d cart item(s) cannot be ordered", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
