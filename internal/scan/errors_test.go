package scan

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := fs.ErrPermission
	err := Wrap(ErrUnreadable, "hash", "/tmp/x", cause)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	if !strings.Contains(err.Error(), "hash") || !strings.Contains(err.Error(), "/tmp/x") {
		t.Fatalf("detail missing from %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", nil)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "scan failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}
