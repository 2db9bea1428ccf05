package definition

import (
	"context"
	"maps"
	"sync"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/google/uuid"
)

// Document is the generic entity driven by a definition-built class.
type Document struct {
	ID    string
	State fsm.Field

	// OnSave runs for transitions declared with save: true.
	OnSave func(ctx context.Context, doc *Document) error

	mu   sync.RWMutex
	data map[string]any
}

// NewDocument creates a document with a random ID.
func NewDocument(initial fsm.State) *Document {
	return &Document{
		ID:    uuid.NewString(),
		State: fsm.NewField(initial),
		data:  make(map[string]any),
	}
}

// FSMID identifies the document on spans.
func (d *Document) FSMID() string {
	return d.ID
}

// Save implements fsm.Saver.
func (d *Document) Save(ctx context.Context) error {
	if d.OnSave == nil {
		return nil
	}

	return d.OnSave(ctx, d)
}

// Get returns a data value.
func (d *Document) Get(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.data[key]

	return value, ok
}

// Set stores a data value.
func (d *Document) Set(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.data == nil {
		d.data = make(map[string]any)
	}

	d.data[key] = value
}

// Data returns a copy of the document data.
func (d *Document) Data() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return maps.Clone(d.data)
}
