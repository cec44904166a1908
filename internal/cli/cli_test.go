package cli

import (
	"bytes"
	"testing"
)

func TestPlainOutputWithoutColors(t *testing.T) {
	ForceColors(false)
	t.Cleanup(func() { colorsEnabled = nil })

	var buf bytes.Buffer
	Successf(&buf, "Branch %q created", "feat/1-x")
	Errorf(&buf, "failed: %s", "boom")
	Infof(&buf, "%s", "https://example.com")

	want := "✓ Branch \"feat/1-x\" created\n✗ failed: boom\n→ https://example.com\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	if Bolden("x") != "x" || Muted("y") != "y" || Accent("z") != "z" {
		t.Error("styles should be no-ops without colors")
	}
}

func TestRenderMarkdownPlain(t *testing.T) {
	ForceColors(false)
	t.Cleanup(func() { colorsEnabled = nil })

	const md = "## Summary\n- item"
	if got := RenderMarkdown(md, 80); got != md {
		t.Errorf("expected raw markdown, got %q", got)
	}
}

func TestRenderMarkdownStyled(t *testing.T) {
	ForceColors(true)
	t.Cleanup(func() { colorsEnabled = nil })

	got := RenderMarkdown("## Summary\n\nSome **bold** text", 10)
	if !bytes.Contains([]byte(got), []byte("Summary")) {
		t.Errorf("expected rendered output to keep heading text, got %q", got)
	}
}
