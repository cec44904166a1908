package notion

import (
	"context"
	"fmt"

	"github.com/drewfead/ntm/internal/config"
	"github.com/drewfead/ntm/internal/logging"
	"github.com/drewfead/ntm/internal/ticket"
)

// Schema names the database properties backing each ticket field.
type Schema struct {
	State             string
	Identifier        string
	Name              string
	Assignee          string
	Cycle             string
	CurrentCycleValue string
}

// SchemaFromConfig builds a Schema from the configured property names.
func SchemaFromConfig(cfg config.NotionConfig) Schema {
	return Schema{
		State:             cfg.Properties.State,
		Identifier:        cfg.Properties.Identifier,
		Name:              cfg.Properties.Name,
		Assignee:          cfg.Properties.Assignee,
		Cycle:             cfg.Properties.Cycle,
		CurrentCycleValue: cfg.CurrentCycleValue,
	}
}

// Store implements ticket.Store on top of a Notion database.
type Store struct {
	client     *Client
	databaseID string
	schema     Schema
}

var _ ticket.Store = (*Store)(nil)

// NewStore creates a ticket store for one database.
func NewStore(client *Client, databaseID string, schema Schema) *Store {
	return &Store{client: client, databaseID: databaseID, schema: schema}
}

// Name returns "Notion".
func (s *Store) Name() string {
	return "Notion"
}

// Query returns the tickets matching q. Only the first page of results is
// read; Notion returns up to 100 rows per page.
func (s *Store) Query(ctx context.Context, q ticket.Query) ([]ticket.Ticket, error) {
	filter := s.Filter(q)
	resp, err := s.client.QueryDatabase(ctx, s.databaseID, QueryRequest{Filter: &filter})
	if err != nil {
		return nil, err
	}
	if resp.HasMore {
		logging.Warn("query returned more results than one page, ignoring the rest", "query", q.String())
	}

	tickets := make([]ticket.Ticket, 0, len(resp.Results))
	for _, page := range resp.Results {
		t, err := s.toTicket(page)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// UpdateState moves a page to the named status.
func (s *Store) UpdateState(ctx context.Context, pageID, state string) error {
	req := UpdatePageRequest{
		Properties: map[string]PropertyUpdate{
			s.schema.State: {Status: &Option{Name: state}},
		},
		Parent: &Parent{DatabaseID: s.databaseID},
	}
	if _, err := s.client.UpdatePage(ctx, pageID, req); err != nil {
		return err
	}
	return nil
}

// Filter translates a ticket query into a Notion filter.
func (s *Store) Filter(q ticket.Query) Filter {
	if q.Number != 0 {
		return UniqueIDEquals(s.schema.Identifier, q.Number)
	}

	var clauses []Filter
	if q.CurrentCycle {
		clauses = append(clauses, RollupAnyStatus(s.schema.Cycle, s.schema.CurrentCycleValue))
	}
	if q.Assignee != "" {
		clauses = append(clauses, PeopleContains(s.schema.Assignee, q.Assignee))
	}
	if len(q.States) > 0 {
		states := make([]Filter, 0, len(q.States))
		for _, state := range q.States {
			states = append(states, StatusEquals(s.schema.State, state))
		}
		clauses = append(clauses, Or(states...))
	}
	return And(clauses...)
}

func (s *Store) toTicket(page Page) (ticket.Ticket, error) {
	idProp, ok := page.Properties[s.schema.Identifier]
	if !ok || idProp.UniqueID == nil {
		return ticket.Ticket{}, fmt.Errorf("notion: page %s has no %q unique ID", page.ID, s.schema.Identifier)
	}

	t := ticket.Ticket{
		Number: idProp.UniqueID.Number,
		PageID: page.ID,
		URL:    page.URL,
		Name:   page.Properties[s.schema.Name].PlainText(),
		State:  page.Properties[s.schema.State].OptionName(),
	}
	for _, u := range page.Properties[s.schema.Assignee].People {
		t.Assignees = append(t.Assignees, u.ID)
	}
	if rollup := page.Properties[s.schema.Cycle].Rollup; rollup != nil {
		for _, v := range rollup.Array {
			if v.OptionName() == s.schema.CurrentCycleValue {
				t.CurrentCycle = true
				break
			}
		}
	}
	return t, nil
}
