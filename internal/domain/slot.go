package domain

import "github.com/m04kA/salon-booking/pkg/types"

// Slot is a candidate appointment start time. Derived on every query, never persisted.
type Slot struct {
	Time      types.TimeString
	Available bool
}
