package domain

import "strings"

type PlanStatus string

const (
	StatusNew     PlanStatus = "NEW"
	StatusOpen    PlanStatus = "OPEN"
	StatusClosed  PlanStatus = "CLOSED"
	StatusRevised PlanStatus = "REVISED"
)

// ValidPlanStatuses is the canonical set of accepted header status strings.
var ValidPlanStatuses = map[string]bool{
	"NEW": true, "OPEN": true, "CLOSED": true, "REVISED": true,
}

// Locked reports whether the status is a finalized one.
func (s PlanStatus) Locked() bool {
	return s == StatusClosed || s == StatusRevised
}

type TimeSlot string

const (
	SlotUnset TimeSlot = ""
	SlotAM    TimeSlot = "AM"
	SlotPM    TimeSlot = "PM"
)

// ParseTimeSlot accepts "AM", "PM" (any case) and the empty string.
func ParseTimeSlot(s string) (TimeSlot, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "-":
		return SlotUnset, true
	case "AM":
		return SlotAM, true
	case "PM":
		return SlotPM, true
	}
	return SlotUnset, false
}

// Rank orders slots AM < PM < unset.
func (t TimeSlot) Rank() int {
	switch t {
	case SlotAM:
		return 0
	case SlotPM:
		return 1
	default:
		return 2
	}
}

// OrDefault returns AM for an unset slot. Persisted rows never carry an empty slot.
func (t TimeSlot) OrDefault() TimeSlot {
	if t == SlotAM || t == SlotPM {
		return t
	}
	return SlotAM
}
