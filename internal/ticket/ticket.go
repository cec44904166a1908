// Package ticket defines the ticket model and the store contract used by the workflow.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup by number matches no ticket.
var ErrNotFound = errors.New("ticket not found")

// Ticket is a read-only copy of a ticket owned by the remote store.
type Ticket struct {
	Number       int      // Unique numeric identifier shown to users, e.g. 1234
	PageID       string   // Opaque store identifier used for updates
	Name         string   // Display name
	State        string   // Current workflow state, e.g. "Daily"
	Assignees    []string // Store identities of the assignees
	CurrentCycle bool     // Whether the ticket belongs to the active cycle
	URL          string   // Link to the ticket in the store UI
}

// Label returns the "<number> - <name>" form used in choice lists.
func (t Ticket) Label() string {
	return fmt.Sprintf("%d - %s", t.Number, t.Name)
}

// Query describes a filtered lookup against the store.
// When Number is non-zero the lookup is an equality match on it and
// the remaining fields are ignored.
type Query struct {
	CurrentCycle bool
	Assignee     string
	States       []string // matched with a logical OR
	Number       int
}

// String renders the query for logs.
func (q Query) String() string {
	if q.Number != 0 {
		return fmt.Sprintf("number=%d", q.Number)
	}
	parts := make([]string, 0, 3)
	if q.CurrentCycle {
		parts = append(parts, "cycle=current")
	}
	if q.Assignee != "" {
		parts = append(parts, "assignee="+q.Assignee)
	}
	if len(q.States) > 0 {
		parts = append(parts, "state in ["+strings.Join(q.States, ", ")+"]")
	}
	return strings.Join(parts, " ")
}

// Store is the remote ticket database.
type Store interface {
	// Query returns the tickets matching q, in store order.
	Query(ctx context.Context, q Query) ([]Ticket, error)

	// UpdateState sets the workflow state of a single ticket.
	UpdateState(ctx context.Context, pageID, state string) error

	// Name returns the name of the backing system (e.g., "Notion").
	Name() string
}
