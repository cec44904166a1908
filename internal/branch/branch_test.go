package branch

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		branch  string
		want    string
		wantErr bool
	}{
		{name: "conventional", branch: "feat/1234-login-fix", want: "1234"},
		{name: "no description", branch: "fix/77", want: "77"},
		{name: "hyphen in prefix", branch: "hot-fix/12-crash", want: "12"},
		{name: "nested slash", branch: "feat/12/sub-x", want: "12/sub"},
		{name: "no slash", branch: "main", wantErr: true},
		{name: "empty identifier", branch: "feat/-oops", wantErr: true},
		{name: "trailing slash", branch: "feat/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentifier(tt.branch)
			if tt.wantErr {
				var invalid *InvalidNameError
				require.True(t, errors.As(err, &invalid), "expected InvalidNameError, got %v", err)
				assert.Equal(t, tt.branch, invalid.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "feat/1234-", DefaultName("feat", 1234))
}

func TestMergeRequestURL(t *testing.T) {
	mr := MergeRequest{
		ProjectURL:   "https://gitlab.example.com/team/app/",
		SourceBranch: "feat/1234-login-fix",
		Title:        "Fix login",
		Description:  "## Summary\n- [ ] tested & reviewed",
	}
	got := mr.URL()

	assert.True(t, strings.HasPrefix(got, "https://gitlab.example.com/team/app/-/merge_requests/new?"), got)
	for _, key := range []string{"source_branch", "title", "description"} {
		assert.Equal(t, 1, strings.Count(got, "merge_request["+key+"]="), "param %s", key)
	}
	assert.NotContains(t, got, "assignee_id")
	assert.NotContains(t, got, " ")
	assert.Contains(t, got, "merge_request[title]=Fix%20login")

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "feat/1234-login-fix", q.Get("merge_request[source_branch]"))
	assert.Equal(t, "Fix login", q.Get("merge_request[title]"))
	assert.Equal(t, mr.Description, q.Get("merge_request[description]"))
}

func TestMergeRequestURLWithAssignee(t *testing.T) {
	mr := MergeRequest{
		ProjectURL:   "https://gitlab.example.com/team/app",
		SourceBranch: "feat/1-x",
		AssigneeID:   "48",
	}
	assert.Equal(t,
		"https://gitlab.example.com/team/app/-/merge_requests/new?merge_request[source_branch]=feat%2F1-x&merge_request[assignee_id]=48",
		mr.URL())
}

func TestInvalidNameErrorMessage(t *testing.T) {
	err := &InvalidNameError{Name: "main", Prefix: "fix"}
	assert.Equal(t, "invalid branch \"main\": expected the format 'fix/<ticket-identifier>-<description>'", err.Error())
}
