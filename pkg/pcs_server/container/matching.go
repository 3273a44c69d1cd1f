package container

import (
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

// matcher is one step of the matching priority of a notification.
type matcher struct {
	name  string
	match func(mv model.Movement) bool
}

// findMovement applies the matchers in order and returns the index of the only movement the
// first successful step selects, or -1 when no step selects any movement. A step selecting
// more than one movement fails instead of picking one of them.
func findMovement(movements []model.Movement, matchers ...matcher) (int, error) {
	for _, m := range matchers {
		found := -1
		for i, mv := range movements {
			if !m.match(mv) {
				continue
			}
			if found >= 0 {
				return -1, fmt.Errorf("movements %s and %s match by %s%w", movements[found].ID, mv.ID, m.name, model.ErrAmbiguousMovement)
			}
			found = i
		}
		if found >= 0 {
			return found, nil
		}
	}
	return -1, nil
}

func byOrderNumber(kind model.OrderKind, orderNumber string) matcher {
	return matcher{
		name: fmt.Sprintf("%s order number %q", kind, orderNumber),
		match: func(mv model.Movement) bool {
			return orderNumber != "" && mv.OrderNumber(kind) == orderNumber
		},
	}
}

// withoutOrder selects the movements that have neither an order of the kind nor executed it.
func withoutOrder(kind model.OrderKind) matcher {
	return matcher{
		name: fmt.Sprintf("missing %s order", kind),
		match: func(mv model.Movement) bool {
			return !mv.HasOrder(kind) && !mv.Executed(kind)
		},
	}
}

func releaseMatchers(in MovementInput) []matcher {
	return []matcher{
		byOrderNumber(model.OrderKindRelease, releaseNumber(in)),
		withoutOrder(model.OrderKindRelease),
	}
}

func returnMatchers(in MovementInput) []matcher {
	return []matcher{
		byOrderNumber(model.OrderKindAcceptance, acceptanceNumber(in)),
		byOrderNumber(model.OrderKindRelease, releaseNumber(in)),
		withoutOrder(model.OrderKindAcceptance),
	}
}

func transportMatchers(in MovementInput) []matcher {
	return []matcher{
		byOrderNumber(model.OrderKindTransport, transportNumber(in)),
		byOrderNumber(model.OrderKindRelease, releaseNumber(in)),
		byOrderNumber(model.OrderKindAcceptance, acceptanceNumber(in)),
		withoutOrder(model.OrderKindTransport),
	}
}

// byOrderID selects the movement holding the order with the given external identifier.
func byOrderID(kind model.OrderKind, orderID string) matcher {
	return matcher{
		name: fmt.Sprintf("%s order %q", kind, orderID),
		match: func(mv model.Movement) bool {
			return mv.OrderID(kind) == orderID
		},
	}
}

func releaseNumber(in MovementInput) string {
	if in.ReleaseOrder == nil {
		return ""
	}
	return in.ReleaseOrder.OrderNumber
}

func acceptanceNumber(in MovementInput) string {
	if in.AcceptanceOrder == nil {
		return ""
	}
	return in.AcceptanceOrder.OrderNumber
}

func transportNumber(in MovementInput) string {
	if in.TransportOrder == nil {
		return ""
	}
	return in.TransportOrder.OrderNumber
}
