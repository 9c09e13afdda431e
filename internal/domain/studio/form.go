package studio

import (
	"sync"

	"github.com/questx-lab/mintstudio/internal/domain/lifecycle"
)

const (
	DefaultURI      = ""
	DefaultQuantity = 1
)

// Form holds the input fields of one mode. The tracker resets it after a
// confirmed transaction.
type Form struct {
	kind lifecycle.OperationKind

	// submitMutex serializes submits so that a refused submit never writes
	// the fields of the intent in flight.
	submitMutex sync.Mutex

	mutex    sync.RWMutex
	uri      string
	quantity int
}

func NewForm(kind lifecycle.OperationKind) *Form {
	return &Form{kind: kind, uri: DefaultURI, quantity: DefaultQuantity}
}

func (f *Form) Kind() lifecycle.OperationKind {
	return f.kind
}

func (f *Form) Set(uri string, quantity int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.uri = uri
	f.quantity = quantity
}

func (f *Form) Values() (string, int) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.uri, f.quantity
}

func (f *Form) Reset() {
	f.Set(DefaultURI, DefaultQuantity)
}

func (f *Form) intent() lifecycle.Intent {
	uri, quantity := f.Values()
	return lifecycle.Intent{Kind: f.kind, URI: uri, Quantity: quantity}
}
