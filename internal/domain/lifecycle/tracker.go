package lifecycle

import (
	"context"
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/questx-lab/mintstudio/internal/common"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/pkg/enum"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

// FormResetter restores the input fields of the form that submitted an
// intent.
type FormResetter interface {
	Reset()
}

// Tracker drives one lifecycle at a time for a single form. Wallet and chain
// callbacks run on their own goroutines; the tracker serializes them.
type Tracker struct {
	rootCtx  context.Context
	boundary blockchain.Boundary
	session  Session
	notifier notification.Notifier
	form     FormResetter
	owner    string

	// run starts background work. Tests replace it to step through the
	// asynchronous boundaries by hand.
	run func(func())

	mutex     sync.Mutex
	lifecycle Lifecycle
}

func NewTracker(
	ctx context.Context,
	boundary blockchain.Boundary,
	session Session,
	notifier notification.Notifier,
	form FormResetter,
	owner string,
) *Tracker {
	return &Tracker{
		rootCtx:  ctx,
		boundary: boundary,
		session:  session,
		notifier: notifier,
		form:     form,
		owner:    owner,
		run:      func(f func()) { go f() },
	}
}

// Lifecycle returns a copy of the current lifecycle.
func (t *Tracker) Lifecycle() Lifecycle {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.lifecycle
}

func (t *Tracker) Phase() Phase {
	return t.Lifecycle().Phase
}

func (t *Tracker) IsBusy() bool {
	return t.Lifecycle().IsBusy()
}

// Submit validates the intent and, if valid, starts a new lifecycle. It
// returns once the call is handed to the wallet; the outcome is reported
// through the notifier.
func (t *Tracker) Submit(ctx context.Context, intent Intent) error {
	t.mutex.Lock()

	if t.lifecycle.IsBusy() {
		t.mutex.Unlock()
		return errorx.New(errorx.Busy, "A transaction is already in progress")
	}

	if t.lifecycle.Phase != PhaseIdle {
		t.mutex.Unlock()
		return errorx.New(errorx.NotIdle, "Reset the form before submitting again")
	}

	if err := Validate(intent, t.session, t.owner); err != nil {
		t.mutex.Unlock()
		xcontext.Logger(ctx).Debugf("Rejected invalid %s intent: %v", intent.Kind, err)
		return err
	}

	id := uuid.NewString()
	background := t.handle(SubmitEvent{LifecycleID: id, Intent: intent})
	t.mutex.Unlock()

	xcontext.Logger(ctx).Infof("Submitting %s as lifecycle %s", intent.Kind, id)
	t.start(background)
	return nil
}

func (t *Tracker) OnSubmissionResult(result SubmissionResult) {
	t.mutex.Lock()
	background := t.handle(result)
	t.mutex.Unlock()

	t.start(background)
}

func (t *Tracker) OnConfirmationResult(result ConfirmationResult) {
	t.mutex.Lock()
	background := t.handle(result)
	t.mutex.Unlock()

	t.start(background)
}

// Reset discards a finished lifecycle. It does nothing while a transaction is
// in flight or when already idle.
func (t *Tracker) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.handle(ResetEvent{})
}

// handle runs one event through Transition and performs the notification and
// form effects. The returned effects need the network and are started by the
// caller after unlocking. Must be called with the mutex held.
func (t *Tracker) handle(event Event) []Effect {
	before := t.lifecycle
	next, effects, err := Transition(t.lifecycle, event)
	if err != nil {
		xcontext.Logger(t.rootCtx).Warnf("Ignored %T for lifecycle %s in phase %s: %v",
			event, before.ID, before.Phase, err)
		return nil
	}

	t.lifecycle = next

	var background []Effect
	for _, effect := range effects {
		switch e := effect.(type) {
		case CreatePending:
			if t.lifecycle.Handle != "" {
				xcontext.Logger(t.rootCtx).Errorf(
					"Lifecycle %s already owns notification %s", t.lifecycle.ID, t.lifecycle.Handle)
				continue
			}
			t.lifecycle.Handle = t.notifier.CreatePending(e.Message)

		case UpdateToSuccess:
			t.notifier.UpdateToSuccess(e.Handle, e.Message)

		case UpdateToError:
			t.notifier.UpdateToError(e.Handle, e.Message)

		case ShowError:
			t.notifier.Error(e.Message)

		case Dismiss:
			t.notifier.Dismiss(e.Handle)

		case ResetForm:
			if t.form != nil {
				t.form.Reset()
			}

		default:
			background = append(background, effect)
		}
	}

	if next.Phase != before.Phase {
		t.observe(before, next)
	}

	if held, ok := t.lifecycle.Held(); ok && t.lifecycle.Phase == PhaseAwaitingConfirmation {
		background = append(background, t.handle(held)...)
	}

	return background
}

func (t *Tracker) observe(before, next Lifecycle) {
	xcontext.Logger(t.rootCtx).Debugf("Lifecycle %s: %s -> %s", next.ID, before.Phase, next.Phase)

	if next.Phase.IsTerminal() {
		counter := common.PromCounters[common.LifecycleOutcomeTotal]
		counter.WithLabelValues(enum.ToString(next.Intent.Kind), next.Phase.String()).Inc()
	}
}

func (t *Tracker) start(effects []Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case Dispatch:
			t.run(func() { t.dispatch(e.LifecycleID, e.Intent) })

		case AwaitConfirmation:
			t.run(func() { t.await(e.LifecycleID, e.TxHash) })
		}
	}
}

func (t *Tracker) dispatch(id string, intent Intent) {
	ctx := t.rootCtx
	call := CallOf(intent)

	if err := t.boundary.SimulateCall(ctx, call); err != nil {
		xcontext.Logger(ctx).Warnf("Simulation of %s failed: %v", call.Function, err)
		t.OnSubmissionResult(Rejected(id, err))
		return
	}

	txHash, err := t.boundary.SubmitCall(ctx, call)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Submission of %s failed: %v", call.Function, err)
		t.OnSubmissionResult(Rejected(id, err))
		return
	}

	xcontext.Logger(ctx).Infof("Lifecycle %s submitted tx %s", id, txHash.Hex())
	t.OnSubmissionResult(Accepted(id, txHash))
}

func (t *Tracker) await(id string, txHash ethcommon.Hash) {
	confirmation, err := t.boundary.AwaitConfirmation(t.rootCtx, txHash)
	if err != nil {
		xcontext.Logger(t.rootCtx).Errorf("Cannot confirm tx %s: %v", txHash.Hex(), err)
		t.OnConfirmationResult(Reverted(id, ErrorMessage(err)))
		return
	}

	if confirmation.Reverted {
		t.OnConfirmationResult(Reverted(id, confirmation.RevertReason))
		return
	}

	t.OnConfirmationResult(Confirmed(id))
}

// CallOf maps an intent to the contract call it performs.
func CallOf(intent Intent) blockchain.Call {
	switch intent.Kind {
	case BatchMint:
		return blockchain.Call{
			Function: blockchain.FunctionBatchMint,
			Args:     []any{intent.URI, big.NewInt(int64(intent.Quantity))},
		}
	case SetBaseURI:
		return blockchain.Call{Function: blockchain.FunctionSetBaseURI, Args: []any{intent.URI}}
	default:
		return blockchain.Call{Function: blockchain.FunctionMint, Args: []any{intent.URI}}
	}
}
