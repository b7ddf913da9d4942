// Package repositories defines the store contracts consumed by the
// application layer. Implementations live in infrastructure/persistence.
package repositories

import (
	"context"

	"github.com/foliostack/foliostack-go/internal/domain/entities/inbox"
)

// Store is the table-scoped CRUD contract every content table exposes.
// List returns rows in the table's canonical order (ascending display_order
// for content tables; ties fall back to store-native insertion order, which
// is not guaranteed stable).
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, row T) (T, error)
	Update(ctx context.Context, id string, row T) (T, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository extends the CRUD contract with the single targeted
// write the inbox performs: flipping is_read without rewriting the row.
// List returns messages newest first (created_at descending).
type MessageRepository interface {
	Store[inbox.Message]
	MarkRead(ctx context.Context, id string) error
}
