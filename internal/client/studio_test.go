package client

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/internal/domain/studio"
	"github.com/questx-lab/mintstudio/internal/session"
	"github.com/questx-lab/mintstudio/mocks"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/testutil"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestCaller(t *testing.T, connected bool) (context.Context, *studioCaller) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.RPCServer.RPCName = "studio"
	ctx = xcontext.WithConfigs(ctx, cfg)

	board := notification.NewBoard()
	sess := &mocks.Session{Account: common.HexToAddress(testutil.OtherAddress), Connected: connected}
	theme, err := session.LoadTheme("")
	require.NoError(t, err)

	server := rpc.NewServer()
	t.Cleanup(server.Stop)
	require.NoError(t, server.RegisterName("studio", studio.NewService(
		studio.New(ctx, &mocks.Boundary{}, sess, board), board, theme)))

	caller := NewStudioCaller(rpc.DialInProc(server))
	t.Cleanup(caller.Close)
	return ctx, caller
}

func TestStudioCaller_State(t *testing.T) {
	ctx, caller := newTestCaller(t, true)

	state, err := caller.State(ctx, "batch_mint")
	require.NoError(t, err)
	require.Equal(t, "idle", state.Phase)
	require.Equal(t, 1, state.Quantity)
	require.True(t, state.Enabled)

	state, err = caller.State(ctx, "set_base_uri")
	require.NoError(t, err)
	require.Equal(t, "restricted", state.Access)
	require.False(t, state.Enabled)
}

func TestStudioCaller_errorCodes(t *testing.T) {
	ctx, caller := newTestCaller(t, true)

	err := caller.Mint(ctx, "  ")
	require.Equal(t, errorx.EmptyURI, errorx.CodeOf(err))

	err = caller.BatchMint(ctx, "ipfs://meta", 101)
	require.Equal(t, errorx.QuantityOutOfRange, errorx.CodeOf(err))

	err = caller.SetBaseURI(ctx, "ipfs://base/")
	require.Equal(t, errorx.NotOwner, errorx.CodeOf(err))

	err = caller.Reset(ctx, "unknown")
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(err))

	toasts, err := caller.Toasts(ctx)
	require.NoError(t, err)
	require.Empty(t, toasts)
}

func TestStudioCaller_notConnected(t *testing.T) {
	ctx, caller := newTestCaller(t, false)

	err := caller.Mint(ctx, "ipfs://meta")
	require.Equal(t, errorx.NotConnected, errorx.CodeOf(err))
}

func TestStudioCaller_ToggleTheme(t *testing.T) {
	ctx, caller := newTestCaller(t, true)

	theme, err := caller.ToggleTheme(ctx)
	require.NoError(t, err)
	require.Equal(t, "dark", theme)

	theme, err = caller.ToggleTheme(ctx)
	require.NoError(t, err)
	require.Equal(t, "light", theme)
}
