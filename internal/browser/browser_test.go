package browser

import (
	"context"
	"errors"
	"testing"
)

const mrURL = "https://gitlab.example.com/team/app/-/merge_requests/new"

func TestOpenPassesURL(t *testing.T) {
	var got []string
	o := &Opener{openURL: func(url string) error {
		got = append(got, url)
		return nil
	}}

	if err := o.Open(context.Background(), mrURL); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(got) != 1 || got[0] != mrURL {
		t.Errorf("expected %s to be opened once, got %v", mrURL, got)
	}
}

func TestOpenWrapsHandlerError(t *testing.T) {
	handlerErr := errors.New("xdg-open: not found")
	o := &Opener{openURL: func(string) error { return handlerErr }}

	err := o.Open(context.Background(), mrURL)
	if !errors.Is(err, handlerErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestOpenSkipsCancelledContext(t *testing.T) {
	called := false
	o := &Opener{openURL: func(string) error {
		called = true
		return nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := o.Open(ctx, mrURL); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("handler should not run after cancellation")
	}
}

func TestNewUsesPlatformHandler(t *testing.T) {
	if New().openURL == nil {
		t.Fatal("expected a platform handler")
	}
}
