package testutil

import (
	"fmt"
	"sync"

	"github.com/questx-lab/mintstudio/internal/domain/notification"
)

type NotifierCall struct {
	Method  string
	Handle  notification.Handle
	Message string
}

// RecordingNotifier records every call and counts pending notifications that
// were never resolved or dismissed.
type RecordingNotifier struct {
	mutex   sync.Mutex
	Calls   []NotifierCall
	pending map[notification.Handle]bool
	next    int

	// MaxPending is the highest number of unresolved pending notifications
	// observed at any instant.
	MaxPending int
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{pending: make(map[notification.Handle]bool)}
}

func (n *RecordingNotifier) CreatePending(message string) notification.Handle {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.next++
	h := notification.Handle(fmt.Sprintf("toast-%d", n.next))
	n.pending[h] = true
	if len(n.pending) > n.MaxPending {
		n.MaxPending = len(n.pending)
	}

	n.Calls = append(n.Calls, NotifierCall{Method: "CreatePending", Handle: h, Message: message})
	return h
}

func (n *RecordingNotifier) UpdateToSuccess(h notification.Handle, message string) {
	n.resolve("UpdateToSuccess", h, message)
}

func (n *RecordingNotifier) UpdateToError(h notification.Handle, message string) {
	n.resolve("UpdateToError", h, message)
}

func (n *RecordingNotifier) Error(message string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.Calls = append(n.Calls, NotifierCall{Method: "Error", Message: message})
}

func (n *RecordingNotifier) Dismiss(h notification.Handle) {
	n.resolve("Dismiss", h, "")
}

func (n *RecordingNotifier) resolve(method string, h notification.Handle, message string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	delete(n.pending, h)
	n.Calls = append(n.Calls, NotifierCall{Method: method, Handle: h, Message: message})
}

// Pending returns the number of pending notifications not yet resolved.
func (n *RecordingNotifier) Pending() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return len(n.pending)
}

func (n *RecordingNotifier) Methods() []string {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	methods := make([]string, 0, len(n.Calls))
	for _, c := range n.Calls {
		methods = append(methods, c.Method)
	}

	return methods
}

func (n *RecordingNotifier) Last() NotifierCall {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if len(n.Calls) == 0 {
		return NotifierCall{}
	}

	return n.Calls[len(n.Calls)-1]
}
