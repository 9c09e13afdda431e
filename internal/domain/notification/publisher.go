package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/mintstudio/pkg/pubsub"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

// Publisher emits every toast change as a JSON event keyed by handle, so the
// latest event per key is the current state of that toast.
type Publisher struct {
	rootCtx   context.Context
	publisher pubsub.Publisher
	topic     string
	now       func() time.Time
}

type Event struct {
	Toast
	Dismissed bool `json:"dismissed,omitempty"`
}

func NewPublisher(ctx context.Context, publisher pubsub.Publisher, topic string) *Publisher {
	return &Publisher{
		rootCtx:   ctx,
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
	}
}

func (p *Publisher) CreatePending(message string) Handle {
	h := Handle(uuid.NewString())
	p.publish(Event{Toast: Toast{Handle: h, Level: LevelPending, Message: message}})
	return h
}

func (p *Publisher) UpdateToSuccess(h Handle, message string) {
	p.publish(Event{Toast: Toast{Handle: h, Level: LevelSuccess, Message: message}})
}

func (p *Publisher) UpdateToError(h Handle, message string) {
	p.publish(Event{Toast: Toast{Handle: h, Level: LevelError, Message: message}})
}

func (p *Publisher) Error(message string) {
	h := Handle(uuid.NewString())
	p.publish(Event{Toast: Toast{Handle: h, Level: LevelError, Message: message}})
}

func (p *Publisher) Dismiss(h Handle) {
	p.publish(Event{Toast: Toast{Handle: h}, Dismissed: true})
}

func (p *Publisher) publish(event Event) {
	event.UpdatedAt = p.now()

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(p.rootCtx).Errorf("Cannot marshal notification event: %v", err)
		return
	}

	pack := &pubsub.Pack{Key: []byte(event.Handle), Msg: b}
	if err := p.publisher.Publish(p.rootCtx, p.topic, pack); err != nil {
		xcontext.Logger(p.rootCtx).Errorf("Cannot publish notification %s: %v", event.Handle, err)
	}
}
