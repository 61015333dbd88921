package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Invalid("pageId", "required"), KindValidation},
		{"wrapped validation", fmt.Errorf("decode: %w", Invalid("id", "expected number")), KindValidation},
		{"unauthenticated", ErrUnauthenticated, KindUnauthenticated},
		{"forbidden", fmt.Errorf("content.create: %w", ErrForbidden), KindForbidden},
		{"not found", ErrNotFound, KindNotFound},
		{"store unavailable", ErrStoreUnavailable, KindInternal},
		{"arbitrary", errors.New("connection reset"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: []FieldError{
		{Field: "pageId", Reason: "required"},
		{Reason: "malformed JSON"},
	}}
	require.Equal(t, "invalid input: pageId: required; malformed JSON", err.Error())
}
