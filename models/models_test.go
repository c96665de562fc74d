package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDs(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 24)
	assert.True(t, IsValidID(id))
	assert.NotEqual(t, id, NewID())

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id + "0"} {
		assert.False(t, IsValidID(bad), bad)
	}
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, NewID()))

	f := Friend{FromID: a, ToID: b}
	assert.Equal(t, b, f.Counterpart(a))
	assert.Equal(t, a, f.Counterpart(b))
}

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	internal := NewInternalError(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.ErrorIs(t, internal, cause)

	wrapped := fmt.Errorf("create post: %w", NewNotFoundError("Post"))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, "Post not found", AsAppError(wrapped).Message)
	assert.Equal(t, http.StatusNotFound, AsAppError(wrapped).Status)

	plain := AsAppError(cause)
	assert.Equal(t, KindInternal, plain.Kind)
	assert.Equal(t, "Internal server error", plain.Message)

	labelled := NewUnauthorizedError("Only author can update post").WithLabel("Update Post Error")
	assert.Equal(t, "Update Post Error", labelled.Label)
	assert.Equal(t, http.StatusForbidden, labelled.Status)
	assert.Equal(t, http.StatusConflict, NewConflictError("x").Status)
	assert.Equal(t, http.StatusBadRequest, NewValidationError("x").Status)
}
