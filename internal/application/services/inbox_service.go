package services

import (
	"context"
	"sync"

	"github.com/foliostack/foliostack-go/internal/domain/entities/inbox"
	"github.com/foliostack/foliostack-go/internal/domain/faults"
	"github.com/foliostack/foliostack-go/internal/domain/repositories"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
)

// Inbox is the message specialization of the entity manager. It adds a
// selected message and the unread -> read transition: viewing a message
// selects it unconditionally and, only when still unread, issues a single
// targeted write followed by an in-place local patch. The local patch is
// deliberate: a full re-fetch here would discard the open detail view.
type Inbox struct {
	*Manager[inbox.Message, MessageForm]
	repo   repositories.MessageRepository
	logger *logging.ChanneledLogger

	mu       sync.Mutex
	selected *inbox.Message
}

// NewInbox creates the message inbox service.
func NewInbox(repo repositories.MessageRepository, logger *logging.ChanneledLogger) *Inbox {
	return &Inbox{
		Manager: NewManager[inbox.Message, MessageForm](repo, MessageCodec{}, "message", logger),
		repo:    repo,
		logger:  logger,
	}
}

// View selects a message and marks it read on first view. Re-viewing an
// already-read message performs the selection only; no write is issued.
// The current list entry, not the caller's copy, decides whether a write
// is needed, so the transition happens at most once.
func (ib *Inbox) View(ctx context.Context, message inbox.Message) error {
	current, known := ib.Item(message.ID)
	if !known {
		current = message
	}

	ib.mu.Lock()
	selected := current
	ib.selected = &selected
	ib.mu.Unlock()

	if current.IsRead {
		return nil
	}

	if err := ib.repo.MarkRead(ctx, message.ID); err != nil {
		ib.logger.Inbox().Error("Failed to mark message read", "id", message.ID, "error", err.Error())
		return &faults.PersistenceError{Op: "mark message read", Err: err}
	}

	ib.Patch(message.ID, func(m *inbox.Message) { m.IsRead = true })

	ib.mu.Lock()
	if ib.selected != nil && ib.selected.ID == message.ID {
		ib.selected.IsRead = true
	}
	ib.mu.Unlock()
	return nil
}

// Remove deletes a message through the generic manager and clears the
// selection when it pointed at the deleted message.
func (ib *Inbox) Remove(ctx context.Context, id string, confirm ConfirmFunc) error {
	confirmed := false
	wrapped := ConfirmFunc(func(id string) bool {
		confirmed = confirm != nil && confirm(id)
		return confirmed
	})

	if err := ib.Manager.Remove(ctx, id, wrapped); err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	ib.mu.Lock()
	if ib.selected != nil && ib.selected.ID == id {
		ib.selected = nil
	}
	ib.mu.Unlock()
	return nil
}

// Selected returns a copy of the currently selected message, if any.
func (ib *Inbox) Selected() (inbox.Message, bool) {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	if ib.selected == nil {
		return inbox.Message{}, false
	}
	return *ib.selected, true
}

// UnreadCount reports how many local list entries are still unread.
func (ib *Inbox) UnreadCount() int {
	count := 0
	for _, m := range ib.Items() {
		if !m.IsRead {
			count++
		}
	}
	return count
}
