// Package lifecycle owns the issue status state machine. Legal moves:
//
//	Pending     → In Progress, Escalated
//	In Progress → Resolved, Closed, Escalated
//	Resolved    → Closed, Escalated
//	Escalated   → In Progress, Closed
//	Closed      → (terminal)
//
// Anything else fails with apperrors.ErrInvalidTransition instead of
// being clamped to a nearby legal status.
package lifecycle

import (
	"fmt"

	"civicconnect-be/apperrors"
	"civicconnect-be/models"
)

// transitions is the legal move set. Closed has no outgoing edges.
var transitions = map[models.IssueStatus][]models.IssueStatus{
	models.Pending:    {models.InProgress, models.Escalated},
	models.InProgress: {models.Resolved, models.Closed, models.Escalated},
	models.Resolved:   {models.Closed, models.Escalated},
	models.Escalated:  {models.InProgress, models.Closed},
	models.Closed:     {},
}

// CanTransition reports whether from → to is a legal move.
func CanTransition(from, to models.IssueStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate checks a requested status move. The target must be a known
// status and reachable from the current one.
func Validate(from, to models.IssueStatus) error {
	if !models.ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateForceClose checks the sector-head shortcut from any non-Closed
// status directly to Closed. Re-closing is rejected so updatedAt is
// never restamped.
func ValidateForceClose(current models.IssueStatus) error {
	if current == models.Closed {
		return apperrors.ErrAlreadyClosed
	}
	return nil
}

// Terminal reports whether no further transition is expected.
func Terminal(s models.IssueStatus) bool {
	return s == models.Closed
}
