// Package executil runs external tools (git, the platform URL opener) with a
// sanitized PATH and reports failures as typed errors.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotInstalled is returned when an executable cannot be found in the safe PATH.
var ErrNotInstalled = errors.New("executable not found")

var defaultSafeDirs = []string{
	"/usr/local/bin",
	"/usr/bin",
	"/bin",
	"/usr/sbin",
	"/sbin",
	"/opt/homebrew/bin",
}

// CommandError is a command that ran and exited unsuccessfully.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %s", e.Name, strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandContext builds an exec.Cmd with a resolved executable and sanitized PATH.
func CommandContext(ctx context.Context, name string, args ...string) (*exec.Cmd, error) {
	dirs := safePathDirs()
	path, err := findExecutable(name, dirs)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = replaceEnv(os.Environ(), "PATH", strings.Join(dirs, string(os.PathListSeparator)))
	return cmd, nil
}

// Output runs a command in dir and returns its trimmed stdout. A non-zero
// exit is reported as *CommandError carrying stderr.
func Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd, err := CommandContext(ctx, name, args...)
	if err != nil {
		return "", err
	}
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Name: name, Args: args, Stderr: stderr.String(), Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

func safePathDirs() []string {
	return collectPathDirs(defaultSafeDirs, filepath.SplitList(os.Getenv("PATH")))
}

// collectPathDirs keeps the existing, non-writable directories of defaults
// and path. When none survive it falls back to defaults as-is.
func collectPathDirs(defaults, path []string) []string {
	seen := make(map[string]struct{})
	var dirs []string

	add := func(dir string, requireSafe bool) {
		if dir == "" || !filepath.IsAbs(dir) {
			return
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			return
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			if requireSafe {
				return
			}
		} else if requireSafe && !isSafeDir(info) {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	for _, dir := range defaults {
		add(dir, true)
	}
	for _, dir := range path {
		add(dir, true)
	}
	if len(dirs) == 0 {
		for _, dir := range defaults {
			add(dir, false)
		}
	}
	return dirs
}

// isSafeDir rejects group- or world-writable directories.
func isSafeDir(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o022 == 0
}

func findExecutable(name string, dirs []string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		cleaned := filepath.Clean(name)
		if isExecutable(cleaned) {
			return cleaned, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}

	candidates := []string{name}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		candidates = []string{name + ".exe", name + ".cmd", name + ".bat"}
	}
	for _, dir := range dirs {
		for _, candidate := range candidates {
			if path := filepath.Join(dir, candidate); isExecutable(path) {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w in safe PATH: %s", ErrNotInstalled, name)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

func replaceEnv(env []string, key, value string) []string {
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	for _, entry := range env {
		if !strings.HasPrefix(entry, prefix) {
			out = append(out, entry)
		}
	}
	if value != "" {
		out = append(out, prefix+value)
	}
	return out
}
