package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	err := New(NotOwner, "caller %s is not the owner", "0xabc")
	require.Equal(t, "caller 0xabc is not the owner", err.Error())

	wrapped := fmt.Errorf("submit: %w", err)
	require.True(t, errors.Is(wrapped, Error{Code: NotOwner}))
	require.False(t, errors.Is(wrapped, Error{Code: EmptyURI}))
	require.Equal(t, NotOwner, CodeOf(wrapped))
	require.Equal(t, Unknown.Code, CodeOf(errors.New("plain")))
}
