package notification

import "sync"

// Fanout forwards every call to all notifiers. The handle returned to the
// caller is the primary's; handles of the others are tracked internally.
type Fanout struct {
	primary Notifier
	others  []Notifier

	mutex   sync.Mutex
	handles map[Handle][]Handle
}

func NewFanout(primary Notifier, others ...Notifier) *Fanout {
	return &Fanout{
		primary: primary,
		others:  others,
		handles: make(map[Handle][]Handle),
	}
}

func (f *Fanout) CreatePending(message string) Handle {
	h := f.primary.CreatePending(message)

	secondary := make([]Handle, len(f.others))
	for i, n := range f.others {
		secondary[i] = n.CreatePending(message)
	}

	f.mutex.Lock()
	f.handles[h] = secondary
	f.mutex.Unlock()

	return h
}

func (f *Fanout) UpdateToSuccess(h Handle, message string) {
	f.primary.UpdateToSuccess(h, message)
	for i, sh := range f.release(h) {
		f.others[i].UpdateToSuccess(sh, message)
	}
}

func (f *Fanout) UpdateToError(h Handle, message string) {
	f.primary.UpdateToError(h, message)
	for i, sh := range f.release(h) {
		f.others[i].UpdateToError(sh, message)
	}
}

func (f *Fanout) Error(message string) {
	f.primary.Error(message)
	for _, n := range f.others {
		n.Error(message)
	}
}

func (f *Fanout) Dismiss(h Handle) {
	f.primary.Dismiss(h)
	for i, sh := range f.release(h) {
		f.others[i].Dismiss(sh)
	}
}

// release returns the secondary handles of h and forgets them. A terminal
// update or a dismiss is the last call a handle receives.
func (f *Fanout) release(h Handle) []Handle {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	secondary := f.handles[h]
	delete(f.handles, h)
	return secondary
}
