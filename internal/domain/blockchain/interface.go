package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Function names of the NFT contract as seen by callers. The eth boundary maps
// them to the deployed ABI.
const (
	FunctionMint       = "mint"
	FunctionBatchMint  = "batchMint"
	FunctionSetBaseURI = "setBaseURI"
)

// Call is one state-changing contract call.
type Call struct {
	Function string
	Args     []any
}

// Confirmation is the mined outcome of a submitted call.
type Confirmation struct {
	TxHash      common.Hash
	BlockNumber uint64
	Reverted    bool

	// RevertReason is empty when the chain gave no reason.
	RevertReason string
}

// Boundary is the wallet/network side of a transaction: simulate, submit and
// wait for the receipt. AwaitConfirmation resolves at most once per hash and
// has no internal timeout.
type Boundary interface {
	SimulateCall(ctx context.Context, call Call) error
	SubmitCall(ctx context.Context, call Call) (common.Hash, error)
	AwaitConfirmation(ctx context.Context, txHash common.Hash) (*Confirmation, error)
}

// ShortMessager is implemented by errors carrying a concise user-facing
// message next to their full text.
type ShortMessager interface {
	ShortMessage() string
}
