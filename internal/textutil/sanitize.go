package textutil

import "strings"

// groupKeyReplacer maps spaces to underscores and path separators to dashes so
// a metadata value can name a subdirectory without escaping it.
var groupKeyReplacer = strings.NewReplacer(
	" ", "_",
	"/", "-",
	"\\", "-",
)

// UnknownGroup names the folder for files whose grouping field is absent or
// empty.
const UnknownGroup = "Unknown"

// GroupKey converts a metadata value into a single safe path segment. Spaces
// become underscores, path separators become dashes, and case is preserved.
// Empty input maps to UnknownGroup.
func GroupKey(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return UnknownGroup
	}
	key := groupKeyReplacer.Replace(value)
	key = strings.Trim(key, ".")
	if key == "" {
		return UnknownGroup
	}
	return key
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
