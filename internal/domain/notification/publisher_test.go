package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/pkg/pubsub"
	"github.com/questx-lab/mintstudio/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestPublisher(t *testing.T) {
	var events []notification.Event
	var keys []string
	mock := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			require.Equal(t, "notification", topic)

			var e notification.Event
			require.NoError(t, json.Unmarshal(pack.Msg, &e))
			events = append(events, e)
			keys = append(keys, string(pack.Key))
			return nil
		},
	}

	p := notification.NewPublisher(testutil.MockContext(), mock, "notification")

	h := p.CreatePending("Minting 2 NFTs...")
	p.UpdateToError(h, "Transaction reverted")
	p.Dismiss(h)

	require.Len(t, events, 3)
	require.Equal(t, []string{string(h), string(h), string(h)}, keys)
	require.Equal(t, notification.LevelPending, events[0].Level)
	require.Equal(t, "Minting 2 NFTs...", events[0].Message)
	require.Equal(t, notification.LevelError, events[1].Level)
	require.True(t, events[2].Dismissed)
	require.False(t, events[0].UpdatedAt.IsZero())
}

func TestPublisher_publishErrorIsSwallowed(t *testing.T) {
	mock := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker down")
		},
	}

	p := notification.NewPublisher(testutil.MockContext(), mock, "notification")
	require.NotEmpty(t, p.CreatePending("Transaction is being mined..."))
	require.NotPanics(t, func() { p.Error("x") })
}
