package eth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ChainError keeps the node's full error and a one-line summary that is
// safe to show to a user.
type ChainError struct {
	Short string
	Err   error
}

func (e *ChainError) Error() string {
	return e.Err.Error()
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

func (e *ChainError) ShortMessage() string {
	return e.Short
}

type BlockHeightExceededError struct {
	ChainHeight uint64
}

func NewBlockHeightExceededError(chainHeight uint64) error {
	return &BlockHeightExceededError{
		ChainHeight: chainHeight,
	}
}

func (e *BlockHeightExceededError) Error() string {
	return fmt.Sprintf("Our block height is higher than chain's height. Chain height = %d", e.ChainHeight)
}

// wrapError summarizes an error returned by a node. Revert data is decoded
// into its reason when the node provides it.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var chainErr *ChainError
	if errors.As(err, &chainErr) {
		return err
	}

	return &ChainError{Short: shortMessage(err), Err: err}
}

func shortMessage(err error) string {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := revertReason(dataErr.ErrorData()); ok {
			return "execution reverted: " + reason
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return "insufficient funds for gas * price + value"
	case strings.Contains(msg, "nonce too low"):
		return "nonce too low"
	case strings.Contains(msg, "execution reverted"):
		return msg[strings.Index(msg, "execution reverted"):]
	}

	if i := strings.Index(msg, "\n"); i >= 0 {
		msg = msg[:i]
	}

	return msg
}

func revertReason(data any) (string, bool) {
	s, ok := data.(string)
	if !ok {
		return "", false
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return "", false
	}

	reason, err := abi.UnpackRevert(b)
	if err != nil {
		return "", false
	}

	return reason, true
}
