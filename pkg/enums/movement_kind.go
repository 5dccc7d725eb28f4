package enums

import "fmt"

// MovementKind maps to the movement_kind_enum enum in Postgres.
type MovementKind string

const (
	MovementKindRelocation        MovementKind = "RELOCATION"
	MovementKindAssignment        MovementKind = "ASSIGNMENT"
	MovementKindReturn            MovementKind = "RETURN"
	MovementKindSentToMaintenance MovementKind = "SENT_TO_MAINTENANCE"
	MovementKindMaintenanceReturn MovementKind = "RETURNED_FROM_MAINTENANCE"
	MovementKindDecommission      MovementKind = "DECOMMISSION"
)

var validMovementKinds = []MovementKind{
	MovementKindRelocation,
	MovementKindAssignment,
	MovementKindReturn,
	MovementKindSentToMaintenance,
	MovementKindMaintenanceReturn,
	MovementKindDecommission,
}

// IsValid reports whether the value matches the canonical movement kind enum.
func (k MovementKind) IsValid() bool {
	for _, candidate := range validMovementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMovementKind converts raw input into MovementKind.
func ParseMovementKind(value string) (MovementKind, error) {
	for _, candidate := range validMovementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement kind %q", value)
}
