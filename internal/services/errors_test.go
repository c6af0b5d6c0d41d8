package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 2")
	err := Wrap(ErrExternalTool, "beets", "import", "command failed", base)

	if !errors.Is(err, ErrExternalTool) {
		t.Fatal("expected external tool marker")
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped base error")
	}
	want := "external tool error: beets: import: command failed: exit status 2"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatal("expected transient marker")
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("error = %q", err.Error())
	}
}
