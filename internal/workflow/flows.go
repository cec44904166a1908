package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/drewfead/ntm/internal/branch"
	"github.com/drewfead/ntm/internal/cli"
	"github.com/drewfead/ntm/internal/logging"
)

const previewWidth = 80

// NewTicket runs the "start work" flow: pick one of the user's available
// tickets, create and check out its branch, then offer to move the ticket
// to the in-progress state.
func (e *Engine) NewTicket(ctx context.Context) error {
	tickets, err := e.FindAvailableTickets(ctx)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		return ErrNoTickets
	}

	t, err := e.SelectTicket(ctx, tickets)
	if err != nil {
		return err
	}
	logging.Info("ticket selected", "number", t.Number, "page", t.PageID)

	name, err := e.prompt.Input(ctx, "Branch name", branch.DefaultName(e.cfg.Git.BranchPrefix, t.Number))
	if err != nil {
		return fmt.Errorf("branch name: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("branch name cannot be empty")
	}
	if id, err := branch.ParseIdentifier(name); err != nil || id != strconv.Itoa(t.Number) {
		logging.Warn("branch name does not carry the ticket number", "branch", name, "number", t.Number)
		fmt.Fprintln(e.out, cli.Muted(fmt.Sprintf("Branch %q does not reference ticket %d; --mr will not find it.", name, t.Number)))
	}

	if err := e.git.CreateBranch(ctx, name); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	cli.Successf(e.out, "Switched to new branch %s", cli.Bolden(name))

	moved, err := e.SetTicketState(ctx, t.PageID, e.cfg.States.InProgress)
	if err != nil {
		return err
	}
	if moved {
		cli.Successf(e.out, "Ticket %d moved to %s", t.Number, cli.Accent(e.cfg.States.InProgress))
	}
	return nil
}

// MergeRequest runs the "ready for review" flow: resolve the ticket from
// the current branch, offer to move it to code review, and build the
// pre-filled merge request link. It returns the link, which is opened in
// the browser when the user agrees.
func (e *Engine) MergeRequest(ctx context.Context) (string, error) {
	current, err := e.git.CurrentBranch(ctx)
	if err != nil {
		return "", fmt.Errorf("read current branch: %w", err)
	}

	id, err := branch.ParseIdentifier(current)
	if err != nil {
		var invalid *branch.InvalidNameError
		if errors.As(err, &invalid) {
			invalid.Prefix = e.cfg.Git.BranchPrefix
		}
		return "", err
	}

	t, err := e.GetTicketFromIdentifier(ctx, id)
	if err != nil {
		return "", err
	}
	logging.Info("ticket resolved from branch", "branch", current, "number", t.Number, "page", t.PageID)

	moved, err := e.SetTicketState(ctx, t.PageID, e.cfg.States.CodeReview)
	if err != nil {
		return "", err
	}
	if moved {
		cli.Successf(e.out, "Ticket %d moved to %s", t.Number, cli.Accent(e.cfg.States.CodeReview))
	}

	mr := branch.MergeRequest{
		ProjectURL:   e.cfg.GitLab.ProjectURL,
		SourceBranch: current,
		Title:        t.Name,
		Description:  e.cfg.GitLab.MRTemplate,
		AssigneeID:   e.cfg.GitLab.AssigneeID,
	}
	link := mr.URL()
	cli.Infof(e.out, "Merge request: %s", link)

	if e.preview && mr.Description != "" {
		fmt.Fprintln(e.out, cli.RenderMarkdown(mr.Description, previewWidth))
	}

	open, err := e.prompt.Confirm(ctx, "Open the merge request in your browser?", true)
	if err != nil {
		return link, fmt.Errorf("confirm browser: %w", err)
	}
	if !open {
		return link, nil
	}
	if err := e.browser.Open(ctx, link); err != nil {
		// The link is already printed, so a missing opener is not fatal.
		logging.Warn("open browser failed", "error", err)
		cli.Errorf(e.out, "Could not open a browser: %v", err)
	}
	return link, nil
}
