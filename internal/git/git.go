// Package git wraps the few git commands the workflow needs.
package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/drewfead/ntm/internal/executil"
	"github.com/drewfead/ntm/internal/logging"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("not on a branch (detached HEAD)")

// Repo runs git commands in a working directory.
type Repo struct {
	Dir string // empty = current directory
}

// New returns a Repo rooted at dir.
func New(dir string) *Repo {
	return &Repo{Dir: dir}
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", ErrDetachedHead
	}
	return out, nil
}

// CreateBranch creates a branch from HEAD and checks it out.
func (r *Repo) CreateBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "checkout", "-b", name)
	return err
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	logging.Debug("running git", "args", args, "dir", r.Dir)
	out, err := executil.Output(ctx, r.Dir, "git", args...)
	if errors.Is(err, executil.ErrNotInstalled) {
		return "", fmt.Errorf("git is not installed or not in PATH: %w", err)
	}
	return out, err
}
