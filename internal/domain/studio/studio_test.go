package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/questx-lab/mintstudio/internal/domain/lifecycle"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/mocks"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/testutil"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func waitPhase(t *testing.T, s *Studio, kind lifecycle.OperationKind, phase lifecycle.Phase) {
	tracker, ok := s.Tracker(kind)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return tracker.Phase() == phase
	}, time.Second, 5*time.Millisecond)
}

func newOwnerSession() *mocks.Session {
	return &mocks.Session{Account: common.HexToAddress(testutil.OwnerAddress), Connected: true}
}

func Test_Studio_Mint(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	notifier := testutil.NewRecordingNotifier()
	hash := common.HexToHash("0x10")

	boundary.On("SimulateCall", mock.Anything, mock.Anything).Return(nil)
	boundary.On("SubmitCall", mock.Anything, mock.Anything).Return(hash, nil)
	boundary.On("AwaitConfirmation", mock.Anything, hash).Return(&blockchain.Confirmation{TxHash: hash}, nil)

	s := New(ctx, boundary, newOwnerSession(), notifier)
	require.NoError(t, s.Mint(ctx, "ipfs://meta"))
	waitPhase(t, s, lifecycle.SingleMint, lifecycle.PhaseSucceeded)

	state, err := s.State(lifecycle.SingleMint)
	require.NoError(t, err)
	require.Equal(t, FormState{
		Kind:     "single_mint",
		Phase:    "succeeded",
		Access:   "open",
		Enabled:  true,
		URI:      DefaultURI,
		Quantity: DefaultQuantity,
		TxHash:   hash.Hex(),
	}, state)
	require.Equal(t, []string{"CreatePending", "UpdateToSuccess"}, notifier.Methods())
}

func Test_Studio_failureKeepsInputAndAllowsResubmit(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	notifier := testutil.NewRecordingNotifier()
	hash := common.HexToHash("0x11")

	boundary.On("SimulateCall", mock.Anything, mock.Anything).Return(errors.New("User rejected the request.")).Once()
	boundary.On("SimulateCall", mock.Anything, mock.Anything).Return(nil)
	boundary.On("SubmitCall", mock.Anything, mock.Anything).Return(hash, nil)
	boundary.On("AwaitConfirmation", mock.Anything, hash).Return(&blockchain.Confirmation{TxHash: hash}, nil)

	s := New(ctx, boundary, newOwnerSession(), notifier)
	require.NoError(t, s.BatchMint(ctx, "ipfs://meta", 4))
	waitPhase(t, s, lifecycle.BatchMint, lifecycle.PhaseFailed)

	state, err := s.State(lifecycle.BatchMint)
	require.NoError(t, err)
	require.Equal(t, "ipfs://meta", state.URI)
	require.Equal(t, 4, state.Quantity)
	require.Empty(t, state.TxHash)

	// A new intent on a finished form starts a fresh lifecycle.
	require.NoError(t, s.BatchMint(ctx, "ipfs://meta", 4))
	waitPhase(t, s, lifecycle.BatchMint, lifecycle.PhaseSucceeded)
	require.Equal(t, []string{"Error", "CreatePending", "UpdateToSuccess"}, notifier.Methods())
}

func Test_Studio_formsAreIndependent(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	release := make(chan struct{})
	batchHash := common.HexToHash("0x12")
	mintHash := common.HexToHash("0x13")

	boundary.On("SimulateCall", mock.Anything, mock.Anything).Return(nil)
	boundary.On("SubmitCall", mock.Anything, mock.MatchedBy(func(c blockchain.Call) bool {
		return c.Function == blockchain.FunctionBatchMint
	})).Return(batchHash, nil)
	boundary.On("SubmitCall", mock.Anything, mock.MatchedBy(func(c blockchain.Call) bool {
		return c.Function == blockchain.FunctionMint
	})).Return(mintHash, nil)
	boundary.On("AwaitConfirmation", mock.Anything, batchHash).
		Run(func(mock.Arguments) { <-release }).
		Return(&blockchain.Confirmation{TxHash: batchHash}, nil)
	boundary.On("AwaitConfirmation", mock.Anything, mintHash).Return(&blockchain.Confirmation{TxHash: mintHash}, nil)

	s := New(ctx, boundary, newOwnerSession(), testutil.NewRecordingNotifier())
	require.NoError(t, s.BatchMint(ctx, "ipfs://meta", 2))
	waitPhase(t, s, lifecycle.BatchMint, lifecycle.PhaseAwaitingConfirmation)

	err := s.BatchMint(ctx, "ipfs://other", 3)
	require.Equal(t, errorx.Busy, errorx.CodeOf(err))

	state, err := s.State(lifecycle.BatchMint)
	require.NoError(t, err)
	require.True(t, state.Busy)
	require.False(t, state.Enabled)
	require.Equal(t, "ipfs://meta", state.URI)

	require.NoError(t, s.Mint(ctx, "ipfs://single"))
	waitPhase(t, s, lifecycle.SingleMint, lifecycle.PhaseSucceeded)

	close(release)
	waitPhase(t, s, lifecycle.BatchMint, lifecycle.PhaseSucceeded)
}

func Test_Studio_concurrentSubmitsKeepInFlightInput(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	release := make(chan struct{})
	hash := common.HexToHash("0x14")

	var submitted blockchain.Call
	boundary.On("SimulateCall", mock.Anything, mock.Anything).Return(nil)
	boundary.On("SubmitCall", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { submitted = args.Get(1).(blockchain.Call) }).
		Return(hash, nil).Once()
	boundary.On("AwaitConfirmation", mock.Anything, hash).
		Run(func(mock.Arguments) { <-release }).
		Return(&blockchain.Confirmation{TxHash: hash}, nil)

	s := New(ctx, boundary, newOwnerSession(), testutil.NewRecordingNotifier())

	const n = 16
	uris := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		uris[i] = fmt.Sprintf("ipfs://meta/%d", i)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Mint(ctx, uris[i])
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "only one submit may start a lifecycle")
			winner = i
			continue
		}
		require.Equal(t, errorx.Busy, errorx.CodeOf(err))
	}
	require.NotEqual(t, -1, winner)

	waitPhase(t, s, lifecycle.SingleMint, lifecycle.PhaseAwaitingConfirmation)
	state, err := s.State(lifecycle.SingleMint)
	require.NoError(t, err)
	require.Equal(t, uris[winner], state.URI)
	require.Equal(t, []any{uris[winner]}, submitted.Args)

	close(release)
	waitPhase(t, s, lifecycle.SingleMint, lifecycle.PhaseSucceeded)
}

func Test_Studio_validationLeavesFormIdle(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	notifier := testutil.NewRecordingNotifier()

	s := New(ctx, boundary, newOwnerSession(), notifier)
	require.ErrorIs(t, s.BatchMint(ctx, "ipfs://meta", 0), lifecycle.ErrQuantityOutOfRange)
	require.ErrorIs(t, s.Mint(ctx, " "), lifecycle.ErrEmptyURI)

	state, err := s.State(lifecycle.BatchMint)
	require.NoError(t, err)
	require.Equal(t, "idle", state.Phase)
	require.Empty(t, notifier.Calls)
	boundary.AssertNotCalled(t, "SimulateCall", mock.Anything, mock.Anything)
}

func Test_Studio_adminAccess(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	session := &mocks.Session{}

	s := New(ctx, boundary, session, testutil.NewRecordingNotifier())

	state, err := s.State(lifecycle.SetBaseURI)
	require.NoError(t, err)
	require.Equal(t, "disconnected", state.Access)
	require.False(t, state.Enabled)

	session.Account = common.HexToAddress(testutil.OtherAddress)
	session.Connected = true
	state, _ = s.State(lifecycle.SetBaseURI)
	require.Equal(t, "restricted", state.Access)
	require.ErrorIs(t, s.SetBaseURI(ctx, "https://api/"), lifecycle.ErrNotOwner)

	state, _ = s.State(lifecycle.SingleMint)
	require.Equal(t, "open", state.Access)

	session.Account = common.HexToAddress(testutil.OwnerAddress)
	state, _ = s.State(lifecycle.SetBaseURI)
	require.Equal(t, "open", state.Access)
	require.True(t, state.Enabled)
}

func Test_Studio_adminDisabledWithoutOwner(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Contract.Owner = ""
	ctx = xcontext.WithConfigs(ctx, cfg)

	boundary := &mocks.Boundary{}
	s := New(ctx, boundary, newOwnerSession(), testutil.NewRecordingNotifier())

	err := s.SetBaseURI(ctx, "https://api/")
	require.Equal(t, errorx.AdminDisabled, errorx.CodeOf(err))

	state, err := s.State(lifecycle.SetBaseURI)
	require.NoError(t, err)
	require.Equal(t, "disabled", state.Access)
	require.False(t, state.Enabled)
	boundary.AssertNotCalled(t, "SimulateCall", mock.Anything, mock.Anything)
}

func Test_Studio_unknownKind(t *testing.T) {
	s := New(testutil.MockContext(), &mocks.Boundary{}, newOwnerSession(), testutil.NewRecordingNotifier())

	_, err := s.State(lifecycle.OperationKind("burn"))
	require.Equal(t, errorx.NotFound, errorx.CodeOf(err))
	require.Equal(t, errorx.NotFound, errorx.CodeOf(s.Reset(lifecycle.OperationKind("burn"))))
}

type memoryTheme struct{ dark bool }

func (m *memoryTheme) IsDark() bool { return m.dark }
func (m *memoryTheme) Toggle() error {
	m.dark = !m.dark
	return nil
}

func Test_Service(t *testing.T) {
	ctx := testutil.MockContext()
	boundary := &mocks.Boundary{}
	boundary.On("SimulateCall", mock.Anything, mock.Anything).Return(errors.New("insufficient funds for gas"))

	board := notification.NewBoard()
	s := New(ctx, boundary, newOwnerSession(), board)
	svc := NewService(s, board, &memoryTheme{})

	require.NoError(t, svc.Mint(context.Background(), "ipfs://meta"))
	waitPhase(t, s, lifecycle.SingleMint, lifecycle.PhaseFailed)

	toasts := svc.Toasts(context.Background())
	require.Len(t, toasts, 1)
	require.Equal(t, lifecycle.InsufficientFundsMessage, toasts[0].Message)

	state, err := svc.State(context.Background(), "single_mint")
	require.NoError(t, err)
	require.Equal(t, "failed", state.Phase)

	require.NoError(t, svc.Reset(context.Background(), "single_mint"))
	state, _ = svc.State(context.Background(), "single_mint")
	require.Equal(t, "idle", state.Phase)

	_, err = svc.State(context.Background(), "burn")
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(err))

	require.Equal(t, "light", svc.Theme(context.Background()))
	theme, err := svc.ToggleTheme(context.Background())
	require.NoError(t, err)
	require.Equal(t, "dark", theme)
}
