package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBoardLimit is how many finished toasts a board keeps.
const DefaultBoardLimit = 50

// Board keeps toasts in memory. The RPC service reads it to let remote
// clients render the same toasts the console does. Pending toasts are always
// kept; finished ones are dropped oldest first beyond the limit.
type Board struct {
	mutex  sync.RWMutex
	toasts map[Handle]*Toast
	order  []Handle
	limit  int
	now    func() time.Time

	// touched orders toasts by their last change.
	touched map[Handle]uint64
	seq     uint64
}

func NewBoard() *Board {
	return NewBoardWithLimit(DefaultBoardLimit)
}

func NewBoardWithLimit(limit int) *Board {
	if limit < 0 {
		limit = 0
	}

	return &Board{
		toasts:  make(map[Handle]*Toast),
		limit:   limit,
		now:     time.Now,
		touched: make(map[Handle]uint64),
	}
}

func (b *Board) CreatePending(message string) Handle {
	return b.add(LevelPending, message)
}

func (b *Board) UpdateToSuccess(h Handle, message string) {
	b.update(h, LevelSuccess, message)
}

func (b *Board) UpdateToError(h Handle, message string) {
	b.update(h, LevelError, message)
}

func (b *Board) Error(message string) {
	b.add(LevelError, message)
}

func (b *Board) Dismiss(h Handle) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.remove(h)
}

func (b *Board) remove(h Handle) {
	if _, ok := b.toasts[h]; !ok {
		return
	}

	delete(b.toasts, h)
	delete(b.touched, h)
	for i, handle := range b.order {
		if handle == h {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Toasts returns the live toasts, oldest first.
func (b *Board) Toasts() []Toast {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	result := make([]Toast, 0, len(b.order))
	for _, h := range b.order {
		result = append(result, *b.toasts[h])
	}

	return result
}

func (b *Board) Get(h Handle) (Toast, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	t, ok := b.toasts[h]
	if !ok {
		return Toast{}, false
	}

	return *t, true
}

func (b *Board) add(level Level, message string) Handle {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	h := Handle(uuid.NewString())
	b.toasts[h] = &Toast{Handle: h, Level: level, Message: message, UpdatedAt: b.now()}
	b.order = append(b.order, h)
	b.touch(h)
	b.prune()
	return h
}

func (b *Board) update(h Handle, level Level, message string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	t, ok := b.toasts[h]
	if !ok {
		return
	}

	t.Level = level
	t.Message = message
	t.UpdatedAt = b.now()
	b.touch(h)
	b.prune()
}

func (b *Board) touch(h Handle) {
	b.seq++
	b.touched[h] = b.seq
}

// prune drops the least recently changed finished toasts beyond the limit.
// It must be called with the mutex held.
func (b *Board) prune() {
	finished := make([]Handle, 0, len(b.order))
	for _, h := range b.order {
		if b.toasts[h].Level != LevelPending {
			finished = append(finished, h)
		}
	}

	if len(finished) <= b.limit {
		return
	}

	sort.Slice(finished, func(i, j int) bool {
		return b.touched[finished[i]] < b.touched[finished[j]]
	})

	for _, h := range finished[:len(finished)-b.limit] {
		b.remove(h)
	}
}
