package notification_test

import (
	"testing"

	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestFanout(t *testing.T) {
	primary := testutil.NewRecordingNotifier()
	board := notification.NewBoard()
	fanout := notification.NewFanout(primary, board)

	h := fanout.CreatePending("Setting base URI...")
	require.Equal(t, primary.Last().Handle, h)
	require.Len(t, board.Toasts(), 1)
	boardHandle := board.Toasts()[0].Handle
	require.NotEqual(t, h, boardHandle)

	fanout.UpdateToSuccess(h, "Base URI updated successfully!")
	require.Equal(t, "UpdateToSuccess", primary.Last().Method)
	toast, ok := board.Get(boardHandle)
	require.True(t, ok)
	require.Equal(t, notification.LevelSuccess, toast.Level)

	// The mapping is released after a terminal update.
	fanout.Dismiss(h)
	_, ok = board.Get(boardHandle)
	require.True(t, ok)

	fanout.Error("boom")
	require.Equal(t, "Error", primary.Last().Method)
	require.Len(t, board.Toasts(), 2)
}

func TestFanout_dismiss(t *testing.T) {
	primary := testutil.NewRecordingNotifier()
	board := notification.NewBoard()
	fanout := notification.NewFanout(primary, board)

	h := fanout.CreatePending("Transaction is being mined...")
	fanout.Dismiss(h)

	require.Empty(t, board.Toasts())
	require.Equal(t, 0, primary.Pending())
}
