package lifecycle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type shortError struct {
	short string
	full  string
}

func (e shortError) Error() string        { return e.full }
func (e shortError) ShortMessage() string { return e.short }

func TestErrorMessage(t *testing.T) {
	require.Equal(t, "", ErrorMessage(nil))
	require.Equal(t, "boom", ErrorMessage(errors.New("boom")))

	err := fmt.Errorf("submit: %w", shortError{short: "User rejected the request.", full: "long details"})
	require.Equal(t, "User rejected the request.", ErrorMessage(err))

	require.Equal(t, "long details", ErrorMessage(shortError{full: "long details"}))
}

func TestRejectionMessage(t *testing.T) {
	require.Equal(t, InsufficientFundsMessage, rejectionMessage(errors.New("insufficient funds for gas * price + value")))
	require.Equal(t, InsufficientFundsMessage, rejectionMessage(shortError{
		short: "The total cost exceeds the balance.",
		full:  "insufficient funds for gas",
	}))
	require.Equal(t, "user rejected", rejectionMessage(errors.New("user rejected")))
}
