// Package store persists entity states outside the entity itself. A
// Persister plugs a Store into an entity's save hook.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/amp-fsm/fsm"
)

// Store errors.
var (
	ErrNotFound      = errors.New("state record not found")
	ErrInvalidRecord = errors.New("state record needs a class and an id")
)

// Record is the persisted state of one entity.
type Record struct {
	Class     string    `json:"class"`
	ID        string    `json:"id"`
	State     fsm.State `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the record key.
func (r Record) Validate() error {
	if r.Class == "" || r.ID == "" {
		return ErrInvalidRecord
	}

	return nil
}

// Store saves and loads state records. Load returns ErrNotFound for unknown keys.
type Store interface {
	Save(ctx context.Context, record Record) error
	Load(ctx context.Context, class, id string) (Record, error)
}

// Persister reads an entity's state and writes it to a store.
type Persister[E any] struct {
	store Store
	class string
	id    func(E) string
	now   func() time.Time
}

// PersisterOption configures a Persister.
type PersisterOption[E any] func(*Persister[E])

// WithClock overrides the timestamp source.
func WithClock[E any](now func() time.Time) PersisterOption[E] {
	return func(p *Persister[E]) {
		p.now = now
	}
}

// NewPersister creates a persister saving under class, keyed by id(entity).
func NewPersister[E any](store Store, class string, id func(E) string, opts ...PersisterOption[E]) *Persister[E] {
	p := &Persister[E]{
		store: store,
		class: class,
		id:    id,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Persist saves the entity's current state.
func (p *Persister[E]) Persist(ctx context.Context, entity E) error {
	state, err := fsm.CurrentState(entity)
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}

	record := Record{
		Class:     p.class,
		ID:        p.id(entity),
		State:     state,
		UpdatedAt: p.now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return err
	}

	if err := p.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save state of %s/%s: %w", record.Class, record.ID, err)
	}

	return nil
}

// Restore writes the stored state into the entity. It returns ErrNotFound
// when nothing was saved for it.
func (p *Persister[E]) Restore(ctx context.Context, entity E) (Record, error) {
	record, err := p.store.Load(ctx, p.class, p.id(entity))
	if err != nil {
		return Record{}, err
	}

	if err := fsm.SetState(entity, record.State); err != nil {
		return Record{}, fmt.Errorf("failed to restore state: %w", err)
	}

	return record, nil
}
