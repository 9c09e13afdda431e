package lifecycle

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
)

var (
	ErrIllegalTransition = errors.New("illegal lifecycle transition")
	ErrStaleEvent        = errors.New("event belongs to another lifecycle")
)

type Event interface {
	isEvent()
}

type SubmitEvent struct {
	LifecycleID string
	Intent      Intent
}

// SubmissionResult is the wallet's answer to a simulate-then-write call.
// Exactly one of Accepted or Reason is meaningful.
type SubmissionResult struct {
	LifecycleID string
	Accepted    bool
	TxHash      common.Hash
	Reason      string
}

type ConfirmationResult struct {
	LifecycleID string
	Reverted    bool
	Reason      string
}

type ResetEvent struct{}

func (SubmitEvent) isEvent()        {}
func (SubmissionResult) isEvent()   {}
func (ConfirmationResult) isEvent() {}
func (ResetEvent) isEvent()         {}

func Accepted(lifecycleID string, txHash common.Hash) SubmissionResult {
	return SubmissionResult{LifecycleID: lifecycleID, Accepted: true, TxHash: txHash}
}

func Rejected(lifecycleID string, err error) SubmissionResult {
	return SubmissionResult{LifecycleID: lifecycleID, Reason: rejectionMessage(err)}
}

func Confirmed(lifecycleID string) ConfirmationResult {
	return ConfirmationResult{LifecycleID: lifecycleID}
}

func Reverted(lifecycleID, reason string) ConfirmationResult {
	return ConfirmationResult{LifecycleID: lifecycleID, Reverted: true, Reason: reason}
}

type Effect interface {
	isEffect()
}

type CreatePending struct{ Message string }

type UpdateToSuccess struct {
	Handle  notification.Handle
	Message string
}

type UpdateToError struct {
	Handle  notification.Handle
	Message string
}

// ShowError is an error notification not tied to the lifecycle handle.
type ShowError struct{ Message string }

type Dismiss struct{ Handle notification.Handle }

type ResetForm struct{ Kind OperationKind }

type Dispatch struct {
	LifecycleID string
	Intent      Intent
}

type AwaitConfirmation struct {
	LifecycleID string
	TxHash      common.Hash
}

func (CreatePending) isEffect()     {}
func (UpdateToSuccess) isEffect()   {}
func (UpdateToError) isEffect()     {}
func (ShowError) isEffect()         {}
func (Dismiss) isEffect()           {}
func (ResetForm) isEffect()         {}
func (Dispatch) isEffect()          {}
func (AwaitConfirmation) isEffect() {}

// Transition applies one event and returns the next lifecycle with the side
// effects to perform, in order. It never mutates its input. On error the
// returned lifecycle equals the input and there are no effects.
//
// CreatePending leaves Handle empty; whoever performs the effect stores the
// handle it gets back.
func Transition(l Lifecycle, event Event) (Lifecycle, []Effect, error) {
	switch e := event.(type) {
	case SubmitEvent:
		if l.Phase != PhaseIdle {
			return l, nil, ErrIllegalTransition
		}

		next := Lifecycle{ID: e.LifecycleID, Phase: PhaseSubmitting, Intent: e.Intent}
		return next, []Effect{Dispatch{LifecycleID: e.LifecycleID, Intent: e.Intent}}, nil

	case SubmissionResult:
		if e.LifecycleID != l.ID {
			return l, nil, ErrStaleEvent
		}

		if l.Phase != PhaseSubmitting {
			return l, nil, ErrIllegalTransition
		}

		return onSubmission(l, e), effectsOfSubmission(l, e), nil

	case ConfirmationResult:
		if e.LifecycleID != l.ID {
			return l, nil, ErrStaleEvent
		}

		switch l.Phase {
		case PhaseSubmitting:
			if l.held != nil {
				return l, nil, ErrIllegalTransition
			}

			next := l
			next.held = &e
			return next, nil, nil

		case PhaseAwaitingConfirmation:
			return onConfirmation(l, e)

		default:
			return l, nil, ErrIllegalTransition
		}

	case ResetEvent:
		if !l.Phase.IsTerminal() {
			return l, nil, nil
		}

		var effects []Effect
		if l.Handle != "" {
			effects = append(effects, Dismiss{Handle: l.Handle})
		}

		return Lifecycle{}, effects, nil
	}

	return l, nil, ErrIllegalTransition
}

func onSubmission(l Lifecycle, e SubmissionResult) Lifecycle {
	next := l
	if e.Accepted {
		next.Phase = PhaseAwaitingConfirmation
		next.TxHash = e.TxHash
	} else {
		next.Phase = PhaseFailed
		next.Handle = ""
		next.held = nil
	}

	return next
}

func effectsOfSubmission(l Lifecycle, e SubmissionResult) []Effect {
	if !e.Accepted {
		if l.Handle != "" {
			return []Effect{UpdateToError{Handle: l.Handle, Message: e.Reason}}
		}

		return []Effect{ShowError{Message: e.Reason}}
	}

	effects := []Effect{CreatePending{Message: pendingMessage(l.Intent)}}
	if l.held == nil {
		effects = append(effects, AwaitConfirmation{LifecycleID: l.ID, TxHash: e.TxHash})
	}

	return effects
}

func onConfirmation(l Lifecycle, e ConfirmationResult) (Lifecycle, []Effect, error) {
	next := l
	next.Handle = ""
	next.held = nil

	if e.Reverted {
		next.Phase = PhaseFailed
		return next, []Effect{notifyError(l.Handle, revertMessage(e.Reason))}, nil
	}

	next.Phase = PhaseSucceeded
	var effects []Effect
	if l.Handle != "" {
		effects = append(effects, UpdateToSuccess{Handle: l.Handle, Message: successMessage(l.Intent)})
	}

	return next, append(effects, ResetForm{Kind: l.Intent.Kind}), nil
}

func notifyError(h notification.Handle, message string) Effect {
	if h == "" {
		return ShowError{Message: message}
	}

	return UpdateToError{Handle: h, Message: message}
}

// Held returns the confirmation that arrived early, if any.
func (l Lifecycle) Held() (ConfirmationResult, bool) {
	if l.held == nil {
		return ConfirmationResult{}, false
	}

	return *l.held, true
}
