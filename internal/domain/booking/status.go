package booking

import (
	"tourops/internal/core/apperror"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusInquiry   Status = "inquiry"
	StatusQuoted    Status = "quoted"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions is the explicit transition allow-list:
// inquiry -> quoted -> confirmed -> completed, with cancelled reachable from
// any non-terminal state. Backward overwrites are rejected rather than
// silently permitted.
var allowedTransitions = map[Status][]Status{
	StatusInquiry:   {StatusQuoted, StatusCancelled},
	StatusQuoted:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValidStatus reports whether s is a known booking status.
func IsValidStatus(s Status) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed from s.
func IsTerminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// CheckTransition validates from -> to against the allow-list.
func CheckTransition(from, to Status) error {
	if !IsValidStatus(to) {
		return apperror.NewValidation("unknown booking status").
			WithDetail("status", string(to))
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperror.NewInvalidStatusTransition(string(from), string(to))
}
