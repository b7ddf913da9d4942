// Package inbox defines the contact message entity and its lifecycle.
package inbox

import "time"

// Message is a contact submission from the public site. It is created by a
// visitor, flips unread -> read exactly once on first admin view, and is
// removed only by an explicit admin delete.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

func (m Message) EntityID() string { return m.ID }
