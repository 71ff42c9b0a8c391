package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeNotFound, "profile not found")

	assert.Equal(t, "profile not found", err.Error())
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeInternal))
}

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeUnauthorized, "bad token")
	outer := Wrap(inner, CodeInternal, "request failed")

	assert.True(t, HasCode(outer, CodeUnauthorized), "inner code survives wrapping")
	assert.Equal(t, "request failed", outer.Error())
	assert.ErrorIs(t, outer, inner)
}

func TestWrapForeignError(t *testing.T) {
	inner := errors.New("connection refused")
	outer := Wrap(inner, CodeUnavailable, "store unreachable")

	assert.True(t, HasCode(outer, CodeUnavailable))
	assert.ErrorIs(t, outer, inner)
}

func TestWrapThroughFmtChain(t *testing.T) {
	inner := New(CodeConflict, "duplicate")
	chained := fmt.Errorf("while saving: %w", inner)
	outer := Wrap(chained, CodeInternal, "save failed")

	assert.True(t, HasCode(outer, CodeConflict))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeTimeout, CodeOf(New(CodeTimeout, "slow")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestErrorWithoutMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeForbidden}
	assert.Equal(t, string(CodeForbidden), err.Error())
}
