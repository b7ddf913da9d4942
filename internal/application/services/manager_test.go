package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/domain/faults"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	cfg.JSONFormat = false
	cfg.DefaultLevel = slog.Level(12) // silence all channels
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

// fakeStore is an in-memory Store with error injection and call counters.
// insertGate, when set, blocks Insert until the channel is closed so tests
// can hold a save in flight.
type fakeStore[T Entity] struct {
	mu     sync.Mutex
	rows   []T
	nextID int
	withID func(T, string) T

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	listCalls   int
	insertCalls int
	updateCalls int
	deleteCalls int

	insertGate chan struct{}
}

func (s *fakeStore[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]T, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *fakeStore[T]) Insert(ctx context.Context, row T) (T, error) {
	s.mu.Lock()
	s.insertCalls++
	gate := s.insertGate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		var zero T
		return zero, s.insertErr
	}
	s.nextID++
	row = s.withID(row, fmt.Sprintf("id-%d", s.nextID))
	s.rows = append(s.rows, row)
	return row, nil
}

func (s *fakeStore[T]) Update(ctx context.Context, id string, row T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.updateErr != nil {
		var zero T
		return zero, s.updateErr
	}
	for i := range s.rows {
		if s.rows[i].EntityID() == id {
			s.rows[i] = s.withID(row, id)
			return s.rows[i], nil
		}
	}
	var zero T
	return zero, errors.New("not found")
}

func (s *fakeStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.rows {
		if s.rows[i].EntityID() == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func newSkillStore(rows ...content.Skill) *fakeStore[content.Skill] {
	return &fakeStore[content.Skill]{
		rows: rows,
		withID: func(s content.Skill, id string) content.Skill {
			s.ID = id
			return s
		},
	}
}

func newSkillManager(t *testing.T, store *fakeStore[content.Skill]) *Manager[content.Skill, SkillForm] {
	t.Helper()
	return NewManager[content.Skill, SkillForm](store, SkillCodec{}, "skill", newTestLogger(t))
}

func TestManagerList(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the local list wholesale", func(t *testing.T) {
		store := newSkillStore(
			content.Skill{ID: "s1", Name: "Go", Category: "Languages"},
			content.Skill{ID: "s2", Name: "Docker", Category: "Tools"},
		)
		m := newSkillManager(t, store)

		require.True(t, m.Loading())
		require.NoError(t, m.List(ctx))
		assert.False(t, m.Loading())
		assert.Len(t, m.Items(), 2)

		store.mu.Lock()
		store.rows = store.rows[:1]
		store.mu.Unlock()

		require.NoError(t, m.List(ctx))
		assert.Len(t, m.Items(), 1)
	})

	t.Run("failure returns a fetch error and clears loading", func(t *testing.T) {
		store := newSkillStore(content.Skill{ID: "s1", Name: "Go"})
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		store.mu.Lock()
		store.listErr = errors.New("connection reset")
		store.mu.Unlock()

		err := m.List(ctx)
		var ferr *faults.FetchError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "skill", ferr.Table)
		assert.False(t, m.Loading())
		// Items keep the last good snapshot.
		assert.Len(t, m.Items(), 1)
	})
}

func TestManagerModal(t *testing.T) {
	ctx := context.Background()

	t.Run("open create resets the form to defaults", func(t *testing.T) {
		store := newSkillStore()
		m := newSkillManager(t, store)

		m.OpenCreate()
		assert.True(t, m.ModalOpen())
		_, editing := m.Editing()
		assert.False(t, editing)
		assert.Equal(t, SkillCodec{}.Defaults(), m.Form())
	})

	t.Run("open edit hydrates the form from the record", func(t *testing.T) {
		item := content.Skill{ID: "s1", Name: "Go", Category: "Languages", DisplayOrder: 3}
		m := newSkillManager(t, newSkillStore(item))
		require.NoError(t, m.List(ctx))

		m.OpenEdit(item)
		assert.True(t, m.ModalOpen())
		got, editing := m.Editing()
		require.True(t, editing)
		assert.Equal(t, item, got)
		assert.Equal(t, "Go", m.Form().Name)
		assert.Equal(t, "3", m.Form().DisplayOrder)
	})

	t.Run("close modal abandons the editing target", func(t *testing.T) {
		item := content.Skill{ID: "s1", Name: "Go"}
		m := newSkillManager(t, newSkillStore(item))

		m.OpenEdit(item)
		m.CloseModal()
		assert.False(t, m.ModalOpen())
		_, editing := m.Editing()
		assert.False(t, editing)
	})
}

func TestManagerSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("validation failure never reaches the store", func(t *testing.T) {
		store := newSkillStore()
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		m.OpenCreate()
		err := m.Submit(ctx, SkillForm{Name: "   "})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
		assert.Equal(t, 0, store.insertCalls)
		assert.Equal(t, 0, store.updateCalls)
		assert.True(t, m.ModalOpen())
		assert.False(t, m.Saving())
		assert.Empty(t, m.Items())
	})

	t.Run("non-numeric display order is rejected before persisting", func(t *testing.T) {
		store := newSkillStore()
		m := newSkillManager(t, store)

		m.OpenCreate()
		err := m.Submit(ctx, SkillForm{Name: "Go", DisplayOrder: "first"})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "display_order", verr.Field)
		assert.Equal(t, 0, store.insertCalls)
	})

	t.Run("create closes the modal and refreshes the list", func(t *testing.T) {
		store := newSkillStore()
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		m.OpenCreate()
		require.NoError(t, m.Submit(ctx, SkillForm{Name: "Go", Category: "Languages", DisplayOrder: "1"}))

		assert.Equal(t, 1, store.insertCalls)
		assert.False(t, m.ModalOpen())
		assert.False(t, m.Saving())
		items := m.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "Go", items[0].Name)
		assert.NotEmpty(t, items[0].ID)
	})

	t.Run("edit updates by identifier", func(t *testing.T) {
		item := content.Skill{ID: "s1", Name: "Go", Category: "Languages"}
		store := newSkillStore(item)
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		m.OpenEdit(item)
		form := m.Form()
		form.Name = "Golang"
		require.NoError(t, m.Submit(ctx, form))

		assert.Equal(t, 1, store.updateCalls)
		assert.Equal(t, 0, store.insertCalls)
		got, ok := m.Item("s1")
		require.True(t, ok)
		assert.Equal(t, "Golang", got.Name)
	})

	t.Run("persistence failure keeps the modal open for retry", func(t *testing.T) {
		item := content.Skill{ID: "s1", Name: "Go"}
		store := newSkillStore(item)
		store.updateErr = errors.New("disk full")
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		m.OpenEdit(item)
		form := m.Form()
		form.Name = "Golang"
		err := m.Submit(ctx, form)

		var perr *faults.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.True(t, m.ModalOpen())
		assert.False(t, m.Saving())
		got, ok := m.Item("s1")
		require.True(t, ok)
		assert.Equal(t, "Go", got.Name)
	})

	t.Run("a submit arriving while one is in flight is dropped and reported", func(t *testing.T) {
		store := newSkillStore()
		store.insertGate = make(chan struct{})
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))
		m.OpenCreate()

		done := make(chan error, 1)
		go func() {
			done <- m.Submit(ctx, SkillForm{Name: "Go"})
		}()
		waitFor(t, m.Saving)

		// Second submit while the first holds the saving flag.
		err := m.Submit(ctx, SkillForm{Name: "Rust"})
		require.ErrorIs(t, err, ErrSaveInFlight)

		close(store.insertGate)
		require.NoError(t, <-done)
		assert.Equal(t, 1, store.insertCalls)
		require.Len(t, m.Items(), 1)
		assert.Equal(t, "Go", m.Items()[0].Name)
	})
}

func TestManagerRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("declined confirmation is a no-op", func(t *testing.T) {
		store := newSkillStore(content.Skill{ID: "s1", Name: "Go"})
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		require.NoError(t, m.Remove(ctx, "s1", func(string) bool { return false }))
		assert.Equal(t, 0, store.deleteCalls)
		assert.Len(t, m.Items(), 1)
	})

	t.Run("absent confirmation is a no-op", func(t *testing.T) {
		store := newSkillStore(content.Skill{ID: "s1", Name: "Go"})
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		require.NoError(t, m.Remove(ctx, "s1", nil))
		assert.Equal(t, 0, store.deleteCalls)
	})

	t.Run("confirmed delete refreshes the list", func(t *testing.T) {
		store := newSkillStore(
			content.Skill{ID: "s1", Name: "Go"},
			content.Skill{ID: "s2", Name: "Docker"},
		)
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		require.NoError(t, m.Remove(ctx, "s1", func(string) bool { return true }))
		assert.Equal(t, 1, store.deleteCalls)
		items := m.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "s2", items[0].ID)
	})

	t.Run("delete failure leaves the list unchanged", func(t *testing.T) {
		store := newSkillStore(content.Skill{ID: "s1", Name: "Go"})
		store.deleteErr = errors.New("locked")
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		err := m.Remove(ctx, "s1", func(string) bool { return true })
		var perr *faults.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Len(t, m.Items(), 1)
	})
}

func TestManagerClose(t *testing.T) {
	ctx := context.Background()

	t.Run("results arriving after close are discarded", func(t *testing.T) {
		store := newSkillStore(content.Skill{ID: "s1", Name: "Go"})
		m := newSkillManager(t, store)
		require.NoError(t, m.List(ctx))

		m.Close()
		store.mu.Lock()
		store.rows = nil
		store.mu.Unlock()

		require.NoError(t, m.List(ctx))
		assert.Len(t, m.Items(), 1)

		m.OpenCreate()
		assert.False(t, m.ModalOpen())
	})
}

func TestManagerPatch(t *testing.T) {
	ctx := context.Background()
	store := newSkillStore(content.Skill{ID: "s1", Name: "Go"})
	m := newSkillManager(t, store)
	require.NoError(t, m.List(ctx))

	m.Patch("s1", func(s *content.Skill) { s.Name = "Golang" })
	got, ok := m.Item("s1")
	require.True(t, ok)
	assert.Equal(t, "Golang", got.Name)

	// Unknown id is ignored.
	m.Patch("missing", func(s *content.Skill) { s.Name = "x" })
	assert.Len(t, m.Items(), 1)
}
