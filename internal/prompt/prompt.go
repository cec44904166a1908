// Package prompt asks the user to pick, confirm or type values in the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user dismisses a prompt.
var ErrCancelled = errors.New("operation cancelled")

// Prompter is the interactive surface used by the workflow.
type Prompter interface {
	// Select shows options in order and returns the index of the chosen one.
	Select(ctx context.Context, title string, options []string) (int, error)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, title string, defaultYes bool) (bool, error)

	// Input asks for a line of text, pre-filled with def.
	Input(ctx context.Context, title, def string) (string, error)
}

// Terminal prompts on the controlling terminal. When stdin is not a TTY it
// falls back to huh's accessible mode, which reads plain lines.
type Terminal struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal returns a prompter bound to stdin/stderr.
func NewTerminal() *Terminal {
	return &Terminal{
		in:         os.Stdin,
		out:        os.Stderr,
		accessible: !term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Select implements Prompter.
func (t *Terminal) Select(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("nothing to choose from")
	}
	if !t.accessible {
		return runPicker(ctx, title, options, t.in, t.out)
	}

	choice := -1
	opts := make([]huh.Option[int], len(options))
	for i, label := range options {
		opts[i] = huh.NewOption(label, i)
	}
	field := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&choice)
	if err := t.run(ctx, field); err != nil {
		return -1, err
	}
	return choice, nil
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(ctx context.Context, title string, defaultYes bool) (bool, error) {
	answer := defaultYes
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if err := t.run(ctx, field); err != nil {
		return false, err
	}
	return answer, nil
}

// Input implements Prompter.
func (t *Terminal) Input(ctx context.Context, title, def string) (string, error) {
	value := def
	field := huh.NewInput().
		Title(title).
		Value(&value)
	if err := t.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (t *Terminal) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(t.accessible).
		WithInput(t.in).
		WithOutput(t.out).
		WithShowHelp(false)
	return mapErr(form.RunWithContext(ctx))
}

// mapErr turns the ways a prompt can be dismissed into ErrCancelled.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	default:
		return fmt.Errorf("prompt: %w", err)
	}
}
