// Package browser opens URLs with the platform's default handler.
package browser

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// Opener opens URLs in the user's browser.
type Opener struct {
	openURL func(url string) error
}

// New returns an opener backed by the platform handler (open, xdg-open, ...).
// The handler's own output is discarded so it does not mix with ntm's.
func New() *Opener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Opener{openURL: browser.OpenURL}
}

// Open hands url to the platform handler and returns once it has exited.
func (o *Opener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.openURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
