package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("load offering: %w", Clone(ErrNotFound, "offering not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, sql.ErrNoRows))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(sql.ErrNoRows, ErrInternal.Code, ErrInternal.Status, "failed to load report")

	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "failed to load report: sql: no rows in result set", err.Error())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	locked := FromError(fmt.Errorf("calculate: %w", ErrLocked))
	assert.Equal(t, http.StatusConflict, locked.Status)

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}

func TestCloneLeavesOriginalUntouched(t *testing.T) {
	clone := Clone(ErrValidation, "subjectCode is required")

	assert.Equal(t, "subjectCode is required", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Nil(t, Clone(nil, "x"))
}
