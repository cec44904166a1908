package git

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/drewfead/ntm/internal/executil"
)

// initRepo creates an empty repository with one commit.
func initRepo(t *testing.T) *Repo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q", "-b", "main"},
		{"-c", "user.email=t@example.com", "-c", "user.name=t", "commit", "-q", "--allow-empty", "-m", "init"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("git setup failed: %v\n%s", err, out)
		}
	}
	return New(dir)
}

func TestCreateAndCurrentBranch(t *testing.T) {
	repo := initRepo(t)
	ctx := context.Background()

	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "main" {
		t.Errorf("expected 'main', got %q", branch)
	}

	if err := repo.CreateBranch(ctx, "feat/1234-login-fix"); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}

	branch, err = repo.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "feat/1234-login-fix" {
		t.Errorf("expected 'feat/1234-login-fix', got %q", branch)
	}
}

func TestCreateBranchExisting(t *testing.T) {
	repo := initRepo(t)

	err := repo.CreateBranch(context.Background(), "main")
	var cmdErr *executil.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *executil.CommandError, got %v", err)
	}
	if cmdErr.Stderr == "" {
		t.Error("expected git diagnostic in stderr")
	}
}
