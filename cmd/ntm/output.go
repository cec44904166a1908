package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/drewfead/ntm/internal/cli"
	"github.com/drewfead/ntm/internal/config"
	"github.com/drewfead/ntm/internal/executil"
	"github.com/drewfead/ntm/internal/logging"
	"github.com/drewfead/ntm/internal/notion"
	"github.com/drewfead/ntm/internal/prompt"
	"github.com/drewfead/ntm/internal/workflow"
)

func printConfig(w io.Writer, cfg config.Config) error {
	out, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	fmt.Fprintln(w, cli.Muted("# effective configuration ("+config.DefaultConfigPath()+", .env, environment)"))
	_, err = w.Write(out)
	return err
}

// reportError is the single place errors reach the user. It returns the
// process exit code.
func reportError(w io.Writer, err error) int {
	if errors.Is(err, prompt.ErrCancelled) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Operation cancelled.")
		return 1
	}

	var missing *config.MissingError
	var apiErr *notion.APIError
	switch {
	case errors.As(err, &missing):
		cli.Errorf(w, "Missing configuration")
		for _, name := range missing.Names {
			fmt.Fprintf(w, "  %s %s\n", cli.Arrow, name)
		}
		fmt.Fprintln(w, cli.Muted("Set them in the environment, a .env file or "+config.DefaultConfigPath()))
		return 1
	case errors.Is(err, workflow.ErrNoTickets):
		cli.Errorf(w, "%v", err)
		return 1
	case errors.As(err, &apiErr):
		cli.Errorf(w, "Notion request failed: %v", err)
	case errors.Is(err, executil.ErrNotInstalled):
		cli.Errorf(w, "%v", err)
		fmt.Fprintln(w, cli.Muted("Install git and make sure it is in a root-owned PATH directory."))
	default:
		cli.Errorf(w, "Error: %v", err)
	}

	logging.CaptureError(err, "component", "main")
	return 1
}
