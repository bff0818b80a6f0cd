package metadata

import (
	"errors"
	"testing"
	"time"

	"curator/internal/scan"
)

func TestParseField(t *testing.T) {
	for _, name := range []string{"name", "SIZE_BYTES", " mime_type ", "extension", "created_at", "modified_at", "captured_at"} {
		if _, err := ParseField(name); err != nil {
			t.Errorf("ParseField(%q) failed: %v", name, err)
		}
	}
}

func TestParseFieldRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "   ", "owner", "size"} {
		_, err := ParseField(name)
		if !errors.Is(err, scan.ErrInvalidArgument) {
			t.Errorf("ParseField(%q) = %v, want ErrInvalidArgument", name, err)
		}
	}
}

func TestFieldValue(t *testing.T) {
	snap := Snapshot{
		Name:       "song.mp3",
		Extension:  ".mp3",
		SizeBytes:  4096,
		MIMEType:   "audio/mpeg",
		CreatedAt:  time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		ModifiedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	cases := []struct {
		field Field
		want  string
	}{
		{FieldName, "song.mp3"},
		{FieldSizeBytes, "4096"},
		{FieldMIMEType, "audio/mpeg"},
		{FieldExtension, ".mp3"},
		{FieldCreatedAt, "2024-03-09"},
		{FieldModifiedAt, "2025-01-02"},
		{FieldCapturedAt, ""},
	}
	for _, tc := range cases {
		if got := snap.FieldValue(tc.field); got != tc.want {
			t.Errorf("FieldValue(%s) = %q, want %q", tc.field, got, tc.want)
		}
	}
}
