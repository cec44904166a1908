// Package branch maps between tickets, branch names and merge request links.
//
// Branches follow the convention <type-prefix>/<ticket-number>-<free-text>,
// e.g. "feat/1234-login-fix".
package branch

import (
	"fmt"
	"net/url"
	"strings"
)

// InvalidNameError is returned for branch names that do not follow the convention.
type InvalidNameError struct {
	Name   string
	Prefix string
}

func (e *InvalidNameError) Error() string {
	prefix := e.Prefix
	if prefix == "" {
		prefix = "feat"
	}
	return fmt.Sprintf("invalid branch %q: expected the format '%s/<ticket-identifier>-<description>'", e.Name, prefix)
}

// ParseIdentifier returns the ticket identifier embedded in a branch name:
// the text between the first slash and the first hyphen after it.
func ParseIdentifier(name string) (string, error) {
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return "", &InvalidNameError{Name: name}
	}
	id, _, _ := strings.Cut(rest, "-")
	if id == "" {
		return "", &InvalidNameError{Name: name}
	}
	return id, nil
}

// DefaultName returns the suggested branch name for a ticket, to be
// completed by the user: "<prefix>/<number>-".
func DefaultName(prefix string, number int) string {
	return fmt.Sprintf("%s/%d-", prefix, number)
}

// MergeRequest describes a merge request to pre-fill.
type MergeRequest struct {
	ProjectURL   string // e.g. https://gitlab.example.com/group/project
	SourceBranch string
	Title        string
	Description  string
	AssigneeID   string
}

// URL builds the GitLab "new merge request" link. Empty optional fields
// are left out; every value is percent-escaped.
func (mr MergeRequest) URL() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(mr.ProjectURL, "/"))
	b.WriteString("/-/merge_requests/new")

	sep := "?"
	add := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(sep)
		b.WriteString("merge_request[" + key + "]=")
		b.WriteString(escape(value))
		sep = "&"
	}
	add("source_branch", mr.SourceBranch)
	add("title", mr.Title)
	add("description", mr.Description)
	add("assignee_id", mr.AssigneeID)
	return b.String()
}

// escape percent-encodes a query value, spaces included.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
