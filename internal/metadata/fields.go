package metadata

import (
	"strconv"
	"strings"
	"time"

	"curator/internal/scan"
)

// Field names a snapshot attribute the organizer can group by.
type Field string

const (
	FieldName       Field = "name"
	FieldSizeBytes  Field = "size_bytes"
	FieldMIMEType   Field = "mime_type"
	FieldExtension  Field = "extension"
	FieldCreatedAt  Field = "created_at"
	FieldModifiedAt Field = "modified_at"
	FieldCapturedAt Field = "captured_at"
)

var fieldSet = map[Field]struct{}{
	FieldName:       {},
	FieldSizeBytes:  {},
	FieldMIMEType:   {},
	FieldExtension:  {},
	FieldCreatedAt:  {},
	FieldModifiedAt: {},
	FieldCapturedAt: {},
}

// dateOnly renders timestamp fields for grouping. Full precision would give
// every file its own folder.
const dateOnly = "2006-01-02"

// ParseField converts a string into a known Field. Empty or unrecognized
// names report scan.ErrInvalidArgument.
func ParseField(value string) (Field, error) {
	normalized := Field(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", scan.Wrap(scan.ErrInvalidArgument, "parse field", "empty grouping field", nil)
	}
	if _, ok := fieldSet[normalized]; !ok {
		return "", scan.Wrap(scan.ErrInvalidArgument, "parse field", string(normalized), nil)
	}
	return normalized, nil
}

// Fields lists every groupable field name in display order.
func Fields() []Field {
	return []Field{
		FieldName,
		FieldSizeBytes,
		FieldMIMEType,
		FieldExtension,
		FieldCreatedAt,
		FieldModifiedAt,
		FieldCapturedAt,
	}
}

// FieldValue renders the named attribute of s as the string the organizer
// groups on. Absent values render empty so callers can substitute their
// unknown marker.
func (s Snapshot) FieldValue(field Field) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldSizeBytes:
		return strconv.FormatInt(s.SizeBytes, 10)
	case FieldMIMEType:
		return s.MIMEType
	case FieldExtension:
		return s.Extension
	case FieldCreatedAt:
		return formatDate(s.CreatedAt)
	case FieldModifiedAt:
		return formatDate(s.ModifiedAt)
	case FieldCapturedAt:
		return formatDate(s.CapturedAt)
	default:
		return ""
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateOnly)
}
