package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliostack/foliostack-go/internal/application/services"
	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
)

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

// memStore is an in-memory Store for handler tests. insertGate, when set,
// blocks Insert until the channel is closed.
type memStore[T services.Entity] struct {
	mu         sync.Mutex
	rows       []T
	nextID     int
	withID     func(T, string) T
	listErr    error
	insertGate chan struct{}
}

func (s *memStore[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]T, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *memStore[T]) Insert(ctx context.Context, row T) (T, error) {
	s.mu.Lock()
	gate := s.insertGate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	row = s.withID(row, fmt.Sprintf("id-%d", s.nextID))
	s.rows = append(s.rows, row)
	return row, nil
}

func (s *memStore[T]) Update(ctx context.Context, id string, row T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].EntityID() == id {
			s.rows[i] = s.withID(row, id)
			return s.rows[i], nil
		}
	}
	var zero T
	return zero, errors.New("not found")
}

func (s *memStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].EntityID() == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func newProjectRouter(t *testing.T, rows ...content.Project) (*gin.Engine, *memStore[content.Project]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore[content.Project]{
		rows: rows,
		withID: func(p content.Project, id string) content.Project {
			p.ID = id
			return p
		},
	}

	logger := newTestLogger(t)
	manager := services.NewManager[content.Project, services.ProjectForm](store, services.ProjectCodec{}, "project", logger)
	require.NoError(t, manager.List(context.Background()))

	r := gin.New()
	NewEntityHandlers(manager, "project", logger).Register(r.Group("/projects"))
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestEntityHandlersList(t *testing.T) {
	r, _ := newProjectRouter(t,
		content.Project{ID: "p1", Title: "FolioStack"},
		content.Project{ID: "p2", Title: "Sidecar"},
	)

	w := doJSON(t, r, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])
}

func TestEntityHandlersForms(t *testing.T) {
	t.Run("new form returns defaults", func(t *testing.T) {
		r, _ := newProjectRouter(t)
		w := doJSON(t, r, http.MethodGet, "/projects/new", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["editing"])
	})

	t.Run("edit form hydrates the record", func(t *testing.T) {
		r, _ := newProjectRouter(t, content.Project{ID: "p1", Title: "FolioStack"})
		w := doJSON(t, r, http.MethodGet, "/projects/p1/edit", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["editing"])
		form := body["form"].(map[string]any)
		assert.Equal(t, "FolioStack", form["title"])
	})

	t.Run("edit form for an unknown id is 404", func(t *testing.T) {
		r, _ := newProjectRouter(t)
		w := doJSON(t, r, http.MethodGet, "/projects/missing/edit", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEntityHandlersCreate(t *testing.T) {
	t.Run("valid form creates and returns the refreshed list", func(t *testing.T) {
		r, store := newProjectRouter(t)
		w := doJSON(t, r, http.MethodPost, "/projects", services.ProjectForm{
			Title:        "FolioStack",
			Technologies: "Go, SQLite",
			DisplayOrder: "1",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, store.rows, 1)
		assert.Equal(t, []string{"Go", "SQLite"}, store.rows[0].Technologies)
	})

	t.Run("validation failure is 400 with the offending field", func(t *testing.T) {
		r, store := newProjectRouter(t)
		w := doJSON(t, r, http.MethodPost, "/projects", services.ProjectForm{Title: "  "})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "title", body["field"])
		assert.Empty(t, store.rows)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		r, _ := newProjectRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("a request losing the saving race gets 409, not a false success", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		store := &memStore[content.Project]{
			insertGate: make(chan struct{}),
			withID: func(p content.Project, id string) content.Project {
				p.ID = id
				return p
			},
		}
		logger := newTestLogger(t)
		manager := services.NewManager[content.Project, services.ProjectForm](store, services.ProjectCodec{}, "project", logger)
		require.NoError(t, manager.List(context.Background()))

		r := gin.New()
		NewEntityHandlers(manager, "project", logger).Register(r.Group("/projects"))

		first := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			first <- doJSON(t, r, http.MethodPost, "/projects", services.ProjectForm{Title: "FolioStack"})
		}()
		waitFor(t, manager.Saving)

		w := doJSON(t, r, http.MethodPost, "/projects", services.ProjectForm{Title: "Sidecar"})
		assert.Equal(t, http.StatusConflict, w.Code)

		close(store.insertGate)
		assert.Equal(t, http.StatusCreated, (<-first).Code)
		assert.Len(t, store.rows, 1)
	})
}

func TestEntityHandlersUpdate(t *testing.T) {
	t.Run("updates an existing record", func(t *testing.T) {
		r, store := newProjectRouter(t, content.Project{ID: "p1", Title: "FolioStack"})
		w := doJSON(t, r, http.MethodPut, "/projects/p1", services.ProjectForm{Title: "FolioStack v2"})
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, store.rows, 1)
		assert.Equal(t, "FolioStack v2", store.rows[0].Title)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		r, _ := newProjectRouter(t)
		w := doJSON(t, r, http.MethodPut, "/projects/missing", services.ProjectForm{Title: "X"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEntityHandlersDelete(t *testing.T) {
	t.Run("without confirmation nothing is deleted", func(t *testing.T) {
		r, store := newProjectRouter(t, content.Project{ID: "p1", Title: "FolioStack"})
		w := doJSON(t, r, http.MethodDelete, "/projects/p1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, store.rows, 1)
	})

	t.Run("with confirmation the record is removed", func(t *testing.T) {
		r, store := newProjectRouter(t, content.Project{ID: "p1", Title: "FolioStack"})
		w := doJSON(t, r, http.MethodDelete, "/projects/p1?confirm=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, store.rows)
	})
}
