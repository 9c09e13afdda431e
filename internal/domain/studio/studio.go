package studio

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/questx-lab/mintstudio/internal/domain/lifecycle"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/pkg/enum"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/ethutil"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

type Access string

var (
	AccessOpen         = enum.New(Access("open"), "open")
	AccessDisconnected = enum.New(Access("disconnected"), "disconnected")
	AccessRestricted   = enum.New(Access("restricted"), "restricted")
	AccessDisabled     = enum.New(Access("disabled"), "disabled")
)

type FormState struct {
	Kind     string `json:"kind"`
	Phase    string `json:"phase"`
	Busy     bool   `json:"busy"`
	Access   string `json:"access"`
	Enabled  bool   `json:"enabled"`
	URI      string `json:"uri"`
	Quantity int    `json:"quantity"`
	TxHash   string `json:"tx_hash,omitempty"`
}

// Studio owns the three forms of the client. Each form runs its own
// lifecycle, so a pending batch mint does not block a single mint.
type Studio struct {
	rootCtx  context.Context
	session  lifecycle.Session
	owner    string
	forms    map[lifecycle.OperationKind]*Form
	trackers map[lifecycle.OperationKind]*lifecycle.Tracker
}

func New(
	ctx context.Context,
	boundary blockchain.Boundary,
	session lifecycle.Session,
	notifier notification.Notifier,
) *Studio {
	owner := xcontext.Configs(ctx).Contract.Owner
	s := &Studio{
		rootCtx:  ctx,
		session:  session,
		owner:    owner,
		forms:    make(map[lifecycle.OperationKind]*Form),
		trackers: make(map[lifecycle.OperationKind]*lifecycle.Tracker),
	}

	for _, kind := range []lifecycle.OperationKind{lifecycle.SingleMint, lifecycle.BatchMint, lifecycle.SetBaseURI} {
		form := NewForm(kind)
		s.forms[kind] = form
		s.trackers[kind] = lifecycle.NewTracker(ctx, boundary, session, notifier, form, owner)
	}

	return s
}

func (s *Studio) Mint(ctx context.Context, uri string) error {
	return s.submit(ctx, lifecycle.SingleMint, uri, DefaultQuantity)
}

func (s *Studio) BatchMint(ctx context.Context, uri string, quantity int) error {
	return s.submit(ctx, lifecycle.BatchMint, uri, quantity)
}

func (s *Studio) SetBaseURI(ctx context.Context, uri string) error {
	if s.owner == "" {
		return errorx.New(errorx.AdminDisabled, "Admin features are disabled")
	}

	return s.submit(ctx, lifecycle.SetBaseURI, uri, DefaultQuantity)
}

// Reset discards the finished lifecycle of a form. It is a no-op while the
// form is busy.
func (s *Studio) Reset(kind lifecycle.OperationKind) error {
	tracker, ok := s.trackers[kind]
	if !ok {
		return errorx.New(errorx.NotFound, "Unknown form %s", kind)
	}

	tracker.Reset()
	return nil
}

func (s *Studio) State(kind lifecycle.OperationKind) (FormState, error) {
	tracker, ok := s.trackers[kind]
	if !ok {
		return FormState{}, errorx.New(errorx.NotFound, "Unknown form %s", kind)
	}

	l := tracker.Lifecycle()
	uri, quantity := s.forms[kind].Values()
	access := s.access(kind)

	state := FormState{
		Kind:     enum.ToString(kind),
		Phase:    l.Phase.String(),
		Busy:     l.IsBusy(),
		Access:   enum.ToString(access),
		Enabled:  !l.IsBusy() && access == AccessOpen,
		URI:      uri,
		Quantity: quantity,
	}

	if l.TxHash != (ethcommon.Hash{}) {
		state.TxHash = l.TxHash.Hex()
	}

	return state, nil
}

// Tracker exposes the lifecycle of a form, mainly for callers waiting on a
// terminal phase.
func (s *Studio) Tracker(kind lifecycle.OperationKind) (*lifecycle.Tracker, bool) {
	tracker, ok := s.trackers[kind]
	return tracker, ok
}

func (s *Studio) submit(ctx context.Context, kind lifecycle.OperationKind, uri string, quantity int) error {
	tracker := s.trackers[kind]
	form := s.forms[kind]

	form.submitMutex.Lock()
	defer form.submitMutex.Unlock()

	if tracker.IsBusy() {
		return errorx.New(errorx.Busy, "A transaction is already in progress")
	}

	// Every intent gets a fresh lifecycle.
	if tracker.Phase().IsTerminal() {
		tracker.Reset()
	}

	form.Set(uri, quantity)
	return tracker.Submit(ctx, form.intent())
}

// access mirrors what the form would show before any input: the admin form
// needs a configured owner and the connected account to be that owner.
func (s *Studio) access(kind lifecycle.OperationKind) Access {
	if kind == lifecycle.SetBaseURI && s.owner == "" {
		return AccessDisabled
	}

	account, connected := s.session.ConnectedAccount()
	if !connected {
		return AccessDisconnected
	}

	if kind == lifecycle.SetBaseURI && !ethutil.SameAddress(account.Hex(), s.owner) {
		return AccessRestricted
	}

	return AccessOpen
}
