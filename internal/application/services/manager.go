package services

import (
	"context"
	"sync"

	"github.com/foliostack/foliostack-go/internal/domain/faults"
	"github.com/foliostack/foliostack-go/internal/domain/repositories"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
)

// Entity is any record with a unique identifier.
type Entity interface {
	EntityID() string
}

// FormCodec translates between an entity and its text-editable form state.
type FormCodec[T Entity, F any] interface {
	// Defaults returns the form state for a new record.
	Defaults() F
	// Hydrate projects an existing record into form state, including any
	// array-to-delimited-string projection for multi-value fields.
	Hydrate(item T) F
	// Normalize validates the form and builds a record. Required-field and
	// numeric-parse failures return *faults.ValidationError before any
	// store call is made.
	Normalize(form F) (T, error)
}

// ConfirmFunc is an explicit synchronous confirmation decision for a
// destructive operation.
type ConfirmFunc func(id string) bool

// Manager is the generic create/read/update/delete controller bound to one
// table. One instance exists per entity type; it owns its in-memory list
// copy and keeps it consistent with the store by full re-fetch after every
// mutation.
//
// Overlapping List calls are not serialized: the last response to resolve
// wins. Mutations are serialized by the saving flag. After Close every
// state update is discarded.
type Manager[T Entity, F any] struct {
	repo   repositories.Store[T]
	codec  FormCodec[T, F]
	logger *logging.ChanneledLogger
	label  string

	mu        sync.Mutex
	items     []T
	loading   bool
	modalOpen bool
	editing   *T
	form      F
	saving    bool
	closed    bool
}

// NewManager creates a manager for one entity type. label names the entity
// in logs and errors ("project", "skill", ...).
func NewManager[T Entity, F any](repo repositories.Store[T], codec FormCodec[T, F], label string, logger *logging.ChanneledLogger) *Manager[T, F] {
	return &Manager[T, F]{
		repo:    repo,
		codec:   codec,
		logger:  logger,
		label:   label,
		loading: true,
		form:    codec.Defaults(),
	}
}

// List fetches all rows and replaces the local list wholesale. Loading is
// cleared on completion or failure; a failure is returned as *faults.FetchError
// so the operator sees that the list failed to load.
func (m *Manager[T, F]) List(ctx context.Context) error {
	rows, err := m.repo.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.loading = false

	if err != nil {
		ferr := &faults.FetchError{Table: m.label, Err: err}
		m.logger.Content().Error("List fetch failed", "entity", m.label, "error", err.Error())
		return ferr
	}

	m.items = rows
	return nil
}

// OpenCreate resets the form to type-specific defaults and opens the modal
// with no editing target.
func (m *Manager[T, F]) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.editing = nil
	m.form = m.codec.Defaults()
	m.modalOpen = true
}

// OpenEdit hydrates the form from an existing record and opens the modal.
func (m *Manager[T, F]) OpenEdit(item T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	item2 := item
	m.editing = &item2
	m.form = m.codec.Hydrate(item)
	m.modalOpen = true
}

// Submit validates and persists the form. With an editing target set it
// updates by identifier, otherwise it inserts. On success the modal closes
// and the list is re-fetched; on failure the modal stays open for retry.
// The saving flag is cleared on every exit path. A Submit arriving while
// one is in flight is dropped and reported as ErrSaveInFlight.
func (m *Manager[T, F]) Submit(ctx context.Context, form F) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	if m.saving {
		m.mu.Unlock()
		return ErrSaveInFlight
	}
	m.saving = true
	m.form = form
	editing := m.editing
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if !m.closed {
			m.saving = false
		}
		m.mu.Unlock()
	}()

	record, err := m.codec.Normalize(form)
	if err != nil {
		return err
	}

	var op string
	var persistErr error
	if editing != nil {
		op = "update"
		_, persistErr = m.repo.Update(ctx, (*editing).EntityID(), record)
	} else {
		op = "insert"
		_, persistErr = m.repo.Insert(ctx, record)
	}

	if persistErr != nil {
		m.logger.Content().Error("Save failed", "entity", m.label, "operation", op, "error", persistErr.Error())
		return &faults.PersistenceError{Op: op + " " + m.label, Err: persistErr}
	}

	m.mu.Lock()
	if !m.closed {
		m.modalOpen = false
		m.editing = nil
	}
	m.mu.Unlock()

	// Resynchronize from the source of truth. The write already succeeded;
	// a refresh failure is logged inside List and does not fail the submit.
	if err := m.List(ctx); err != nil {
		m.logger.Content().Warn("Post-save refresh failed", "entity", m.label, "error", err.Error())
	}
	return nil
}

// Remove deletes a row after an explicit confirmation decision. A declined
// or absent confirmation is a no-op. On success the list is re-fetched; on
// failure the list is left unchanged.
func (m *Manager[T, F]) Remove(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(id) {
		return nil
	}

	if err := m.repo.Delete(ctx, id); err != nil {
		m.logger.Content().Error("Delete failed", "entity", m.label, "id", id, "error", err.Error())
		return &faults.PersistenceError{Op: "delete " + m.label, Err: err}
	}

	if err := m.List(ctx); err != nil {
		m.logger.Content().Warn("Post-delete refresh failed", "entity", m.label, "error", err.Error())
	}
	return nil
}

// CloseModal abandons the current form without saving.
func (m *Manager[T, F]) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.modalOpen = false
	m.editing = nil
}

// Items returns a copy of the local list.
func (m *Manager[T, F]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Item looks up a single record in the local list by identifier.
func (m *Manager[T, F]) Item(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Patch applies an in-place mutation to one local list entry without a
// re-fetch. This is reserved for the message read-flip, where a full
// refresh would discard transient detail-view state.
func (m *Manager[T, F]) Patch(id string, apply func(*T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	for i := range m.items {
		if m.items[i].EntityID() == id {
			apply(&m.items[i])
			return
		}
	}
}

// Form returns the current form state.
func (m *Manager[T, F]) Form() F {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Editing returns a copy of the current editing target, if any.
func (m *Manager[T, F]) Editing() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editing == nil {
		var zero T
		return zero, false
	}
	return *m.editing, true
}

func (m *Manager[T, F]) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager[T, F]) ModalOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modalOpen
}

func (m *Manager[T, F]) Saving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saving
}

// Close marks the manager unmounted: in-flight results are discarded and no
// further state transitions occur.
func (m *Manager[T, F]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
