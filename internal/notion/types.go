package notion

import "strings"

// Filter is a database query filter. Property filters set Property plus
// exactly one condition; compound filters set And or Or.
type Filter struct {
	Property string        `json:"property,omitempty"`
	Status   *StatusFilter `json:"status,omitempty"`
	People   *PeopleFilter `json:"people,omitempty"`
	UniqueID *NumberFilter `json:"unique_id,omitempty"`
	Rollup   *RollupFilter `json:"rollup,omitempty"`
	And      []Filter      `json:"and,omitempty"`
	Or       []Filter      `json:"or,omitempty"`
}

// StatusFilter matches a status property by option name.
type StatusFilter struct {
	Equals string `json:"equals"`
}

// PeopleFilter matches a people property containing a user ID.
type PeopleFilter struct {
	Contains string `json:"contains"`
}

// NumberFilter matches a numeric value exactly.
type NumberFilter struct {
	Equals int `json:"equals"`
}

// RollupFilter matches when any rolled-up value satisfies Any.
type RollupFilter struct {
	Any *Filter `json:"any,omitempty"`
}

// And combines filters with a logical AND.
func And(filters ...Filter) Filter {
	return Filter{And: filters}
}

// Or combines filters with a logical OR.
func Or(filters ...Filter) Filter {
	return Filter{Or: filters}
}

// StatusEquals matches a status property.
func StatusEquals(property, name string) Filter {
	return Filter{Property: property, Status: &StatusFilter{Equals: name}}
}

// PeopleContains matches a people property.
func PeopleContains(property, userID string) Filter {
	return Filter{Property: property, People: &PeopleFilter{Contains: userID}}
}

// UniqueIDEquals matches a unique_id property.
func UniqueIDEquals(property string, number int) Filter {
	return Filter{Property: property, UniqueID: &NumberFilter{Equals: number}}
}

// RollupAnyStatus matches a rollup whose values include the given status.
func RollupAnyStatus(property, name string) Filter {
	return Filter{
		Property: property,
		Rollup:   &RollupFilter{Any: &Filter{Status: &StatusFilter{Equals: name}}},
	}
}

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

// QueryResponse is a page of database query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Page is a database row.
type Page struct {
	Object     string                   `json:"object"`
	ID         string                   `json:"id"`
	URL        string                   `json:"url"`
	Properties map[string]PropertyValue `json:"properties"`
}

// PropertyValue holds the decoded value of a page property. Only the
// fields for the property's Type are populated.
type PropertyValue struct {
	ID       string     `json:"id,omitempty"`
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Status   *Option    `json:"status,omitempty"`
	Select   *Option    `json:"select,omitempty"`
	People   []User     `json:"people,omitempty"`
	UniqueID *UniqueID  `json:"unique_id,omitempty"`
	Rollup   *Rollup    `json:"rollup,omitempty"`
}

// RichText is a run of text.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Option is a status or select option.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// User is a Notion workspace member.
type User struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
}

// UniqueID is an auto-incremented identifier, optionally prefixed.
type UniqueID struct {
	Number int     `json:"number"`
	Prefix *string `json:"prefix"`
}

// Rollup is an aggregated relation value. Array rollups carry one
// PropertyValue per related page.
type Rollup struct {
	Type  string          `json:"type"`
	Array []PropertyValue `json:"array,omitempty"`
}

// PlainText joins the text runs of a title or rich_text property.
func (p PropertyValue) PlainText() string {
	runs := p.Title
	if len(runs) == 0 {
		runs = p.RichText
	}
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

// OptionName returns the status or select option name, or "".
func (p PropertyValue) OptionName() string {
	switch {
	case p.Status != nil:
		return p.Status.Name
	case p.Select != nil:
		return p.Select.Name
	default:
		return ""
	}
}

// UpdatePageRequest is the body of a page update.
type UpdatePageRequest struct {
	Properties map[string]PropertyUpdate `json:"properties"`
	Parent     *Parent                   `json:"parent,omitempty"`
}

// PropertyUpdate sets a single property value.
type PropertyUpdate struct {
	Status *Option `json:"status,omitempty"`
}

// Parent identifies the database a page belongs to.
type Parent struct {
	DatabaseID string `json:"database_id"`
}
