// Package workflow moves tickets through the branch and merge request flows:
// find the developer's tickets, pick one, create its branch, and later open
// a merge request for it, updating the ticket state along the way.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/drewfead/ntm/internal/config"
	"github.com/drewfead/ntm/internal/logging"
	"github.com/drewfead/ntm/internal/prompt"
	"github.com/drewfead/ntm/internal/ticket"
)

var (
	// ErrNoTickets is returned when no candidate state set yields a ticket.
	ErrNoTickets = errors.New("no tickets available for the current cycle")

	// ErrUnknownChoice is returned when a prompt answer maps to no ticket.
	ErrUnknownChoice = errors.New("selected ticket not found")
)

// InvalidIdentifierError is returned for ticket identifiers that are not positive integers.
type InvalidIdentifierError struct {
	Identifier string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid ticket identifier %q: expected a number", e.Identifier)
}

// Git is the local repository the flows act on.
type Git interface {
	CurrentBranch(ctx context.Context) (string, error)
	CreateBranch(ctx context.Context, name string) error
}

// Browser opens URLs for the user.
type Browser interface {
	Open(ctx context.Context, url string) error
}

// Options wires the engine's collaborators.
type Options struct {
	Store   ticket.Store
	Prompt  prompt.Prompter
	Git     Git
	Browser Browser
	Out     io.Writer // user-facing messages; defaults to io.Discard

	// PreviewDescription renders the merge request description before
	// asking to open the browser.
	PreviewDescription bool
}

// Engine runs ticket workflows against a store.
type Engine struct {
	cfg     config.Config
	store   ticket.Store
	prompt  prompt.Prompter
	git     Git
	browser Browser
	out     io.Writer
	preview bool
}

// New creates an engine. cfg must already be validated.
func New(cfg config.Config, opts Options) *Engine {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		cfg:     cfg,
		store:   opts.Store,
		prompt:  opts.Prompt,
		git:     opts.Git,
		browser: opts.Browser,
		out:     out,
		preview: opts.PreviewDescription,
	}
}

// CandidateStateSets returns the state filters FindAvailableTickets tries,
// in order: the initial states, then the initial states widened with the
// available ones.
func (e *Engine) CandidateStateSets() [][]string {
	initial := slices.Clone(e.cfg.States.Initial)
	sets := [][]string{initial}
	if len(e.cfg.States.Available) > 0 {
		sets = append(sets, append(slices.Clone(initial), e.cfg.States.Available...))
	}
	return sets
}

// FindAvailableTickets returns the assignee's current-cycle tickets from the
// first candidate state set that matches at least one ticket. It returns an
// empty slice when none does. Store errors are returned as-is, without retry.
func (e *Engine) FindAvailableTickets(ctx context.Context) ([]ticket.Ticket, error) {
	for _, states := range e.CandidateStateSets() {
		q := ticket.Query{
			CurrentCycle: true,
			Assignee:     e.cfg.Notion.UserID,
			States:       states,
		}
		tickets, err := e.store.Query(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query %s tickets: %w", e.store.Name(), err)
		}
		logging.Debug("queried tickets", "query", q.String(), "count", len(tickets))
		if len(tickets) > 0 {
			return tickets, nil
		}
	}
	return []ticket.Ticket{}, nil
}

// SelectTicket asks the user to pick one of tickets, listed in order as
// "<number> - <name>". An empty list returns ErrNoTickets without
// prompting, rather than showing a choice with no options.
func (e *Engine) SelectTicket(ctx context.Context, tickets []ticket.Ticket) (ticket.Ticket, error) {
	if len(tickets) == 0 {
		return ticket.Ticket{}, ErrNoTickets
	}

	options := make([]string, len(tickets))
	for i, t := range tickets {
		options[i] = t.Label()
	}

	idx, err := e.prompt.Select(ctx, "Choose a ticket", options)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("select ticket: %w", err)
	}
	if idx < 0 || idx >= len(tickets) {
		return ticket.Ticket{}, fmt.Errorf("%w: choice %d of %d", ErrUnknownChoice, idx, len(tickets))
	}
	return tickets[idx], nil
}

// SetTicketState moves a ticket to state once the user confirms. It reports
// whether the store was updated; a declined confirmation is not an error.
func (e *Engine) SetTicketState(ctx context.Context, pageID, state string) (bool, error) {
	ok, err := e.prompt.Confirm(ctx, fmt.Sprintf("Move the ticket to state %q?", state), true)
	if err != nil {
		return false, fmt.Errorf("confirm state change: %w", err)
	}
	if !ok {
		logging.Info("state change declined", "page", pageID, "state", state)
		return false, nil
	}

	if err := e.store.UpdateState(ctx, pageID, state); err != nil {
		return false, fmt.Errorf("move ticket to %q: %w", state, err)
	}
	logging.Info("ticket state updated", "page", pageID, "state", state)
	return true, nil
}

// GetTicketFromIdentifier looks a ticket up by its numeric identifier.
func (e *Engine) GetTicketFromIdentifier(ctx context.Context, identifier string) (ticket.Ticket, error) {
	number, err := strconv.Atoi(identifier)
	if err != nil || number <= 0 {
		return ticket.Ticket{}, &InvalidIdentifierError{Identifier: identifier}
	}

	tickets, err := e.store.Query(ctx, ticket.Query{Number: number})
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("look up ticket %d: %w", number, err)
	}
	if len(tickets) == 0 {
		return ticket.Ticket{}, fmt.Errorf("ticket %d: %w", number, ticket.ErrNotFound)
	}
	if len(tickets) > 1 {
		logging.Warn("identifier matched several tickets, using the first", "identifier", number, "count", len(tickets))
	}
	return tickets[0], nil
}
