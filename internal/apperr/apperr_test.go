package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPermission, KindOf(Permission("nope")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("content not found")
	wrapped := fmt.Errorf("loading: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Wrap(KindTransaction, "review failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "review failed", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 403, HTTPStatus(Permission("")))
	assert.Equal(t, 400, HTTPStatus(Validation("")))
	assert.Equal(t, 400, HTTPStatus(State("")))
	assert.Equal(t, 404, HTTPStatus(NotFound("")))
	assert.Equal(t, 409, HTTPStatus(Conflict("")))
	assert.Equal(t, 500, HTTPStatus(Transaction("")))
	assert.Equal(t, 500, HTTPStatus(errors.New("plain")))
}
