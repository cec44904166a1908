package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewfead/ntm/internal/cli"
	"github.com/drewfead/ntm/internal/config"
	"github.com/drewfead/ntm/internal/notion"
	"github.com/drewfead/ntm/internal/prompt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolateEnv clears every setting from the environment and points the
// default config file at a path that does not exist.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NTM_CONFIG", filepath.Join(dir, "missing.yaml"))
	for _, e := range config.Default().Entries() {
		t.Setenv(e.Name, "")
	}
	return dir
}

func TestNoFlagsPrintsUsage(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "--new")
	assert.Contains(t, out, "--mr")
}

func TestNewAndMRAreMutuallyExclusive(t *testing.T) {
	_, err := execute(t, "--new", "--mr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestRejectsPositionalArgs(t *testing.T) {
	_, err := execute(t, "1234")
	assert.Error(t, err)
}

func TestMissingConfigStopsBeforeWork(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("NOTION_TOKEN", "secret")

	_, err := execute(t, "--mr", "--env-file", filepath.Join(dir, "none.env"))
	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"NOTION_BASE_URL", "DATABASE_ID", "NOTION_USER_ID", "GITLAB_PROJECT_URL"}, missing.Names)
}

func TestShowConfigMasksToken(t *testing.T) {
	dir := isolateEnv(t)
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("notion_base_url: https://api.notion.com\nnotion_token: abcd\n"), 0o600))

	out, err := execute(t, "--show-config", "--config", cfgFile, "--env-file", filepath.Join(dir, "none.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "notion_base_url: https://api.notion.com")
	assert.Contains(t, out, "****")
	assert.NotContains(t, out, "abcd")
}

func TestReportError(t *testing.T) {
	cli.ForceColors(false)

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "Cancelled",
			err:  fmt.Errorf("select ticket: %w", prompt.ErrCancelled),
			want: []string{"Operation cancelled."},
		},
		{
			name: "Interrupted",
			err:  fmt.Errorf("query Notion tickets: %w", context.Canceled),
			want: []string{"Operation cancelled."},
		},
		{
			name: "MissingConfig",
			err:  &config.MissingError{Names: []string{"NOTION_TOKEN", "DATABASE_ID"}},
			want: []string{"Missing configuration", "NOTION_TOKEN", "DATABASE_ID"},
		},
		{
			name: "NotionError",
			err:  fmt.Errorf("query Notion tickets: %w", &notion.APIError{StatusCode: 401, Body: "unauthorized"}),
			want: []string{"Notion request failed", "401", "unauthorized"},
		},
		{
			name: "Other",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, 1, reportError(&buf, tt.err))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRunReportsErrorBeforeFlushingLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := isolateEnv(t)
	logFile := filepath.Join(dir, "ntm.log")
	t.Setenv("NOTION_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("DATABASE_ID", "db-1")
	t.Setenv("NOTION_USER_ID", "user-1")
	t.Setenv("NOTION_TOKEN", "secret")
	t.Setenv("GITLAB_PROJECT_URL", "https://gitlab.example.com/team/app")
	t.Setenv("LOG_FILE", logFile)
	// Make the current-branch lookup fail before any Notion call.
	t.Setenv("GIT_DIR", filepath.Join(dir, "not-a-repo"))

	code := run([]string{"--mr", "-v", "--env-file", filepath.Join(dir, "none.env")})
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "engine ready")
	assert.Contains(t, string(data), "captured error")
}
