package scan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNotDirectory    = errors.New("not a directory")
	ErrUnreadable      = errors.New("unreadable file")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, detail string, err error) error {
	msg := buildDetail(operation, detail)
	if marker == nil {
		marker = ErrUnreadable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, msg, err)
	}
	return fmt.Errorf("%w: %s", marker, msg)
}

func buildDetail(operation, detail string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		parts = append(parts, detail)
	}
	if len(parts) == 0 {
		return "scan failure"
	}
	return strings.Join(parts, ": ")
}
