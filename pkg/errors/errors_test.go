package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsCodeAndMatches(t *testing.T) {
	err := Clone(ErrConflict, "seat taken")
	assert.Equal(t, "seat taken", err.Message)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "conflict", ErrConflict.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("disk gone"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "booking not found"))
	assert.Equal(t, "booking not found", FromError(wrapped).Message)
}

func TestStoreMessageCarriesCause(t *testing.T) {
	err := Store(fmt.Errorf("database is locked"), "insert booking")
	assert.Equal(t, "insert booking: database is locked", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Nil(t, Store(nil, "noop"))
}
