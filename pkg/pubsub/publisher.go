package pubsub

import "context"

// Pack is one message. Key decides ordering: packs with the same key are
// delivered in publish order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}
