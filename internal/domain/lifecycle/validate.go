package lifecycle

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/ethutil"
)

var (
	ErrEmptyURI           = errorx.Error{Code: errorx.EmptyURI, Message: "Token URI is required"}
	ErrQuantityOutOfRange = errorx.Error{Code: errorx.QuantityOutOfRange, Message: "Quantity must be between 1 and 100"}
	ErrNotConnected       = errorx.Error{Code: errorx.NotConnected, Message: "Connect your wallet first"}
	ErrNotOwner           = errorx.Error{Code: errorx.NotOwner, Message: "Only the contract owner can set the base URI"}
)

// Session exposes the connected wallet account.
type Session interface {
	ConnectedAccount() (common.Address, bool)
}

// Validate checks an intent before anything reaches the network. An empty
// owner means nobody may call SetBaseURI.
func Validate(intent Intent, session Session, owner string) error {
	if strings.TrimSpace(intent.URI) == "" {
		return ErrEmptyURI
	}

	if intent.Kind == BatchMint && (intent.Quantity < MinQuantity || intent.Quantity > MaxQuantity) {
		return ErrQuantityOutOfRange
	}

	account, connected := session.ConnectedAccount()
	if !connected {
		return ErrNotConnected
	}

	if intent.Kind == SetBaseURI && !ethutil.SameAddress(account.Hex(), owner) {
		return ErrNotOwner
	}

	return nil
}

func IsValidationError(err error) bool {
	for _, target := range []error{ErrEmptyURI, ErrQuantityOutOfRange, ErrNotConnected, ErrNotOwner} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
