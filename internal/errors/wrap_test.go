package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))

	err := Wrap(ErrSpecNotFound, "failed to load specification")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpecNotFound)
	assert.Equal(t, "failed to load specification: specification not found", err.Error())
}

func TestWrapf(t *testing.T) {
	assert.NoError(t, Wrapf(nil, "spec %q", "checkout"))

	err := Wrapf(ErrStorageFault, "failed to persist spec %q", "checkout")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFault)
	assert.Equal(t, `failed to persist spec "checkout": storage fault`, err.Error())
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidName, ErrInvalidDescription, ErrSpecExists, ErrSpecNotFound,
		ErrIllegalTransition, ErrApprovalRequired, ErrInvalidPhase, ErrInvalidDecision,
		ErrCorruptState, ErrStorageFault, ErrLockTimeout, ErrEmptyValue,
		ErrValueOutOfRange, ErrPathTraversal, ErrUnknownDocument, ErrConfigInvalid,
		ErrInvalidOutputFormat,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, stderrors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}
