// Package config handles ntm configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for ntm. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Config struct {
	Notion  NotionConfig
	States  StatesConfig
	GitLab  GitLabConfig
	Git     GitConfig
	Logging LoggingConfig
}

// NotionConfig defines how to reach the ticket database.
type NotionConfig struct {
	BaseURL           string
	DatabaseID        string
	UserID            string
	Token             string
	Version           string
	CurrentCycleValue string
	Properties        PropertiesConfig
}

// PropertiesConfig names the database properties the workflow reads and writes.
type PropertiesConfig struct {
	State      string
	Identifier string
	Name       string
	Assignee   string
	Cycle      string
}

// StatesConfig defines the workflow states the tool filters on or moves tickets to.
type StatesConfig struct {
	Initial    []string // tried first when looking for work
	Available  []string // added when no ticket is in an initial state
	InProgress string
	CodeReview string
}

// GitLabConfig defines merge request settings.
type GitLabConfig struct {
	ProjectURL string
	MRTemplate string
	AssigneeID string
}

// GitConfig defines local branch naming.
type GitConfig struct {
	BranchPrefix string
}

// LoggingConfig defines where diagnostics go.
type LoggingConfig struct {
	SentryDSN string
	File      string
}

// Setting keys. Each key is also the lower-cased name of its environment variable.
const (
	KeyNotionBaseURL      = "notion_base_url"
	KeyDatabaseID         = "database_id"
	KeyNotionUserID       = "notion_user_id"
	KeyNotionToken        = "notion_token"
	KeyGitLabProjectURL   = "gitlab_project_url"
	KeyNotionVersion      = "notion_version"
	KeyStateProperty      = "state_property"
	KeyIdentifierProperty = "identifier_property"
	KeyNameProperty       = "name_property"
	KeyAssigneeProperty   = "assignee_property"
	KeyCycleProperty      = "cycle_property"
	KeyCurrentCycleValue  = "current_cycle_value"
	KeyInitialStates      = "initial_states"
	KeyAvailableStates    = "available_states"
	KeyInProgressState    = "in_progress_state"
	KeyCodeReviewState    = "code_review_state"
	KeyBranchPrefix       = "branch_prefix"
	KeyMRTemplate         = "mr_template"
	KeyGitLabAssigneeID   = "gitlab_assignee_id"
	KeySentryDSN          = "sentry_dsn"
	KeyLogFile            = "log_file"
)

// setting binds a key to a field of Config.
type setting struct {
	key      string
	required bool
	secret   bool
	str      func(*Config) *string
	list     func(*Config) *[]string
}

// settings lists every key in the order it is validated and displayed.
var settings = []setting{
	{key: KeyNotionBaseURL, required: true, str: func(c *Config) *string { return &c.Notion.BaseURL }},
	{key: KeyDatabaseID, required: true, str: func(c *Config) *string { return &c.Notion.DatabaseID }},
	{key: KeyNotionUserID, required: true, str: func(c *Config) *string { return &c.Notion.UserID }},
	{key: KeyNotionToken, required: true, secret: true, str: func(c *Config) *string { return &c.Notion.Token }},
	{key: KeyGitLabProjectURL, required: true, str: func(c *Config) *string { return &c.GitLab.ProjectURL }},
	{key: KeyNotionVersion, required: true, str: func(c *Config) *string { return &c.Notion.Version }},
	{key: KeyStateProperty, required: true, str: func(c *Config) *string { return &c.Notion.Properties.State }},
	{key: KeyIdentifierProperty, required: true, str: func(c *Config) *string { return &c.Notion.Properties.Identifier }},
	{key: KeyNameProperty, required: true, str: func(c *Config) *string { return &c.Notion.Properties.Name }},
	{key: KeyAssigneeProperty, required: true, str: func(c *Config) *string { return &c.Notion.Properties.Assignee }},
	{key: KeyCycleProperty, required: true, str: func(c *Config) *string { return &c.Notion.Properties.Cycle }},
	{key: KeyCurrentCycleValue, required: true, str: func(c *Config) *string { return &c.Notion.CurrentCycleValue }},
	{key: KeyInitialStates, required: true, list: func(c *Config) *[]string { return &c.States.Initial }},
	{key: KeyAvailableStates, list: func(c *Config) *[]string { return &c.States.Available }},
	{key: KeyInProgressState, required: true, str: func(c *Config) *string { return &c.States.InProgress }},
	{key: KeyCodeReviewState, required: true, str: func(c *Config) *string { return &c.States.CodeReview }},
	{key: KeyBranchPrefix, required: true, str: func(c *Config) *string { return &c.Git.BranchPrefix }},
	{key: KeyMRTemplate, str: func(c *Config) *string { return &c.GitLab.MRTemplate }},
	{key: KeyGitLabAssigneeID, str: func(c *Config) *string { return &c.GitLab.AssigneeID }},
	{key: KeySentryDSN, secret: true, str: func(c *Config) *string { return &c.Logging.SentryDSN }},
	{key: KeyLogFile, str: func(c *Config) *string { return &c.Logging.File }},
}

// EnvName returns the environment variable for a setting key.
func EnvName(key string) string {
	return strings.ToUpper(key)
}

// Default returns a config with every optional setting at its default.
// Connection settings are left empty.
func Default() Config {
	return Config{
		Notion: NotionConfig{
			Version:           "2022-06-28",
			CurrentCycleValue: "Actuel",
			Properties: PropertiesConfig{
				State:      "État",
				Identifier: "Identifiant",
				Name:       "Nom de la tâche",
				Assignee:   "Personne assignée",
				Cycle:      "État du Cycle",
			},
		},
		States: StatesConfig{
			Initial:    []string{"Daily"},
			Available:  []string{"Strat tech OK", "Priorisé"},
			InProgress: "En cours",
			CodeReview: "Code review",
		},
		Git: GitConfig{
			BranchPrefix: "feat",
		},
	}
}

// LoadOptions selects the files Load reads. Empty paths fall back to defaults;
// missing files are skipped.
type LoadOptions struct {
	ConfigFile string // YAML file with flat keys, e.g. "notion_token: ..."
	EnvFile    string // dotenv file, e.g. ".env"
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML config file, the dotenv file and the process environment.
// It does not validate; call Validate before using the result.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigPath()
	}
	if fileExists(configFile) {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else if opts.ConfigFile != "" {
		return Config{}, fmt.Errorf("config file not found: %s", opts.ConfigFile)
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if fileExists(envFile) {
		f, err := os.Open(envFile)
		if err != nil {
			return Config{}, fmt.Errorf("open env file: %w", err)
		}
		defer f.Close()

		v.SetConfigType("env")
		if err := v.MergeConfig(f); err != nil {
			return Config{}, fmt.Errorf("read env file %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()

	cfg := Default()
	for _, s := range settings {
		if !v.IsSet(s.key) {
			continue
		}
		if s.list != nil {
			*s.list(&cfg) = splitList(v.Get(s.key))
			continue
		}
		*s.str(&cfg) = strings.TrimSpace(v.GetString(s.key))
	}
	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if p := os.Getenv("NTM_CONFIG"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config/ntm/config.yaml")
}

// MissingError lists every required setting that has no value.
type MissingError struct {
	Names []string // environment variable names
}

func (e *MissingError) Error() string {
	return "missing required settings: " + strings.Join(e.Names, ", ")
}

// Validate reports all missing required settings at once.
func (c Config) Validate() error {
	var missing []string
	for _, s := range settings {
		if !s.required {
			continue
		}
		if s.list != nil {
			if len(nonEmpty(*s.list(&c))) == 0 {
				missing = append(missing, EnvName(s.key))
			}
			continue
		}
		if strings.TrimSpace(*s.str(&c)) == "" {
			missing = append(missing, EnvName(s.key))
		}
	}
	if len(missing) > 0 {
		return &MissingError{Names: missing}
	}
	return nil
}

// Entry is a single displayable setting.
type Entry struct {
	Name  string
	Value string
}

// Entries returns every setting in display order with secrets masked.
func (c Config) Entries() []Entry {
	entries := make([]Entry, 0, len(settings))
	for _, s := range settings {
		var value string
		if s.list != nil {
			value = strings.Join(*s.list(&c), ",")
		} else {
			value = *s.str(&c)
		}
		if s.secret {
			value = mask(value)
		}
		entries = append(entries, Entry{Name: EnvName(s.key), Value: value})
	}
	return entries
}

func mask(s string) string {
	if s == "" {
		return "Not set"
	}
	return strings.Repeat("*", len(s))
}

// splitList accepts either a YAML list or a comma-separated string.
func splitList(raw any) []string {
	switch val := raw.(type) {
	case []string:
		return nonEmpty(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return nonEmpty(out)
	case string:
		return nonEmpty(strings.Split(val, ","))
	case nil:
		return nil
	default:
		return nonEmpty([]string{fmt.Sprint(val)})
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
