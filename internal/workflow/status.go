// Package workflow defines the content lifecycle state machine.
package workflow

import (
	"fmt"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/model"
)

// Transitions lists the legal target states per current state.
// archived is terminal: nothing leaves it.
var Transitions = map[model.ContentStatus][]model.ContentStatus{
	model.StatusDraft:     {model.StatusPending},
	model.StatusPending:   {model.StatusPublished, model.StatusDraft},
	model.StatusPublished: {model.StatusArchived},
	model.StatusArchived:  {},
}

// IsValidStatus reports whether s is one of the four lifecycle states.
func IsValidStatus(s model.ContentStatus) bool {
	_, ok := Transitions[s]
	return ok
}

// IsValidTransition reports whether from -> to is in the transition table.
func IsValidTransition(from, to model.ContentStatus) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a state error when from -> to is illegal.
func ValidateTransition(from, to model.ContentStatus) error {
	if !IsValidTransition(from, to) {
		return apperr.State(fmt.Sprintf("illegal status transition: %s -> %s", from, to))
	}
	return nil
}

// ReviewOutcome maps a review action to the resulting content status and
// review status: approve publishes, reject sends the item back to draft.
func ReviewOutcome(action model.ReviewAction) (model.ContentStatus, model.ReviewStatus) {
	if action == model.ActionApproved {
		return model.StatusPublished, model.ReviewApproved
	}
	return model.StatusDraft, model.ReviewRejected
}
