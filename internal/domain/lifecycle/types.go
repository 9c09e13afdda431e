package lifecycle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/pkg/enum"
)

type OperationKind string

var (
	SingleMint = enum.New(OperationKind("single_mint"), "single_mint")
	BatchMint  = enum.New(OperationKind("batch_mint"), "batch_mint")
	SetBaseURI = enum.New(OperationKind("set_base_uri"), "set_base_uri")
)

type Phase int

var (
	PhaseIdle                 = enum.New(Phase(0), "idle")
	PhaseSubmitting           = enum.New(Phase(1), "submitting")
	PhaseAwaitingConfirmation = enum.New(Phase(2), "awaiting_confirmation")
	PhaseSucceeded            = enum.New(Phase(3), "succeeded")
	PhaseFailed               = enum.New(Phase(4), "failed")
)

func (p Phase) String() string {
	return enum.ToString(p)
}

func (p Phase) IsBusy() bool {
	return p == PhaseSubmitting || p == PhaseAwaitingConfirmation
}

func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

const (
	MinQuantity = 1
	MaxQuantity = 100
)

// Intent is one user request for a state-changing call. Quantity is only read
// for BatchMint.
type Intent struct {
	Kind     OperationKind
	URI      string
	Quantity int
}

// Lifecycle is the state of one submitted intent. A new intent always starts
// from a zero Lifecycle with a fresh ID.
type Lifecycle struct {
	ID     string
	Phase  Phase
	Intent Intent

	// Handle is the only live notification of this lifecycle, if any.
	Handle notification.Handle
	TxHash common.Hash

	// held is a confirmation that arrived before the submission result.
	held *ConfirmationResult
}

func (l Lifecycle) IsBusy() bool {
	return l.Phase.IsBusy()
}
