package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
)

const (
	InsufficientFundsMessage = "You don't have enough ETH for gas"
	RevertedMessage          = "Transaction reverted"
)

func pendingMessage(intent Intent) string {
	switch intent.Kind {
	case BatchMint:
		return fmt.Sprintf("Minting %d NFTs...", intent.Quantity)
	case SetBaseURI:
		return "Setting base URI..."
	default:
		return "Transaction is being mined..."
	}
}

func successMessage(intent Intent) string {
	switch intent.Kind {
	case BatchMint:
		return fmt.Sprintf("Successfully minted %d NFTs!", intent.Quantity)
	case SetBaseURI:
		return "Base URI updated successfully!"
	default:
		return "NFT minted successfully"
	}
}

// rejectionMessage replaces any mention of insufficient funds with a fixed
// message. The raw text is checked too because short messages may omit it.
func rejectionMessage(err error) string {
	reason := ErrorMessage(err)
	if strings.Contains(reason, "insufficient funds") || strings.Contains(err.Error(), "insufficient funds") {
		return InsufficientFundsMessage
	}

	return reason
}

func revertMessage(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return RevertedMessage
	}

	return reason
}

// ErrorMessage prefers the structured short message of err and falls back to
// its full text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var sm blockchain.ShortMessager
	if errors.As(err, &sm) {
		if msg := sm.ShortMessage(); msg != "" {
			return msg
		}
	}

	return err.Error()
}
