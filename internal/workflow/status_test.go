package workflow

import (
	"testing"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTransition(t *testing.T) {
	cases := []struct {
		from, to model.ContentStatus
		ok       bool
	}{
		{model.StatusDraft, model.StatusPending, true},
		{model.StatusPending, model.StatusPublished, true},
		{model.StatusPending, model.StatusDraft, true},
		{model.StatusPublished, model.StatusArchived, true},
		{model.StatusDraft, model.StatusPublished, false},
		{model.StatusDraft, model.StatusArchived, false},
		{model.StatusPublished, model.StatusDraft, false},
		{model.StatusArchived, model.StatusDraft, false},
		{model.StatusArchived, model.StatusPublished, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, IsValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestArchivedIsTerminal(t *testing.T) {
	assert.Empty(t, Transitions[model.StatusArchived])
}

func TestValidateTransitionReturnsStateError(t *testing.T) {
	err := ValidateTransition(model.StatusDraft, model.StatusPublished)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindState, apperr.KindOf(err))

	assert.NoError(t, ValidateTransition(model.StatusDraft, model.StatusPending))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(model.StatusDraft))
	assert.True(t, IsValidStatus(model.StatusArchived))
	assert.False(t, IsValidStatus(model.ContentStatus("deleted")))
}

func TestReviewOutcome(t *testing.T) {
	status, review := ReviewOutcome(model.ActionApproved)
	assert.Equal(t, model.StatusPublished, status)
	assert.Equal(t, model.ReviewApproved, review)

	status, review = ReviewOutcome(model.ActionRejected)
	assert.Equal(t, model.StatusDraft, status)
	assert.Equal(t, model.ReviewRejected, review)
}
