// Command ntm links Notion tickets to git branches and GitLab merge requests.
//
//	ntm --new   pick a ticket, create its branch, move it to "in progress"
//	ntm --mr    move the current branch's ticket to "code review" and open a merge request
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drewfead/ntm/internal/logging"
)

// Version is set at build time
var Version = "dev"

type options struct {
	newTicket  bool
	mr         bool
	configFile string
	envFile    string
	showConfig bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (exitCode int) {
	// Registered first so it runs last, after reportError and panic capture.
	defer logging.Flush(flushTimeout)
	defer func() {
		if r := recover(); r != nil {
			logging.CapturePanic(r, "component", "main")
			fmt.Fprintf(os.Stderr, "FATAL: unrecovered panic: %v\n", r)
			exitCode = 2
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return reportError(os.Stderr, err)
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ntm",
		Short: "Move Notion tickets through branches and merge requests",
		Long: `ntm - Notion ticket helper for git and GitLab.

Workflow:
  ntm --new   Choose one of your tickets in the current cycle, create its
              branch and move the ticket to the in-progress state.
  ntm --mr    Find the ticket of the current branch, move it to code review
              and open a pre-filled GitLab merge request.

Branches are named <prefix>/<ticket-number>-<description>, e.g. feat/1234-login-fix.

Configuration is read from, lowest precedence first: built-in defaults,
~/.config/ntm/config.yaml (or $NTM_CONFIG), a .env file and the environment.
Run 'ntm --show-config' to see the effective values.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.showConfig:
				return runShowConfig(cmd.OutOrStdout(), opts)
			case opts.newTicket:
				return runNew(cmd.Context(), cmd.OutOrStdout(), opts)
			case opts.mr:
				return runMR(cmd.Context(), cmd.OutOrStdout(), opts)
			default:
				return cmd.Help()
			}
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.newTicket, "new", false, "Start work on a ticket: create its branch and move it to in progress")
	flags.BoolVar(&opts.mr, "mr", false, "Open a merge request for the current branch and move its ticket to code review")
	flags.StringVar(&opts.configFile, "config", "", "YAML config file (default ~/.config/ntm/config.yaml)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default .env)")
	flags.BoolVar(&opts.showConfig, "show-config", false, "Print the effective configuration and exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging and merge request description preview")
	cmd.MarkFlagsMutuallyExclusive("new", "mr", "show-config")

	return cmd
}
