package fault

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Kind
	}{
		{
			name:     "tagged error",
			err:      New(NotFound, "group not found"),
			expected: NotFound,
		},
		{
			name:     "tagged error behind wrapping",
			err:      errors.Wrap(New(Forbidden, "not a member"), "session check"),
			expected: Forbidden,
		},
		{
			name:     "untagged error defaults to internal",
			err:      errors.New("disk on fire"),
			expected: Internal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.err))
			assert.True(t, Is(tc.err, tc.expected))
		})
	}
}

func TestFromDB(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, expected: NotFound},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: Unavailable},
		{name: "canceled", err: context.Canceled, expected: Unavailable},
		{name: "anything else", err: errors.New("syntax error"), expected: Internal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tagged := FromDB(tc.err, "query failed")
			require.NotNil(t, tagged)
			assert.Equal(t, tc.expected, tagged.Kind)
			require.ErrorIs(t, tagged, tc.err)
		})
	}

	t.Run("tagged error passes through unchanged", func(t *testing.T) {
		orig := New(Validation, "rating must be between 1 and 5")

		tagged := FromDB(orig, "transaction failed")
		assert.Same(t, orig, tagged)
	})
}

func TestErrorMessage(t *testing.T) {
	plain := New(NotFound, "group %d not found", 7)
	assert.Equal(t, "group 7 not found", plain.Error())

	wrapped := Wrap(errors.New("no rows"), NotFound, "group not found")
	assert.Equal(t, "group not found: no rows", wrapped.Error())
	require.EqualError(t, errors.Unwrap(wrapped), "no rows")
}
