package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const (
	checkLabelWidth = 22
	checkIndent     = "  "
)

// renderCheckLine formats one preflight result as an aligned, optionally
// colorized status line.
func renderCheckLine(name string, passed bool, detail string, colorize bool) string {
	status := "OK"
	color := ansiGreen
	if !passed {
		status = "FAIL"
		color = ansiRed
	}
	statusText := fmt.Sprintf("[%s]", status)
	if detail != "" {
		statusText = fmt.Sprintf("[%s] %s", status, detail)
	}
	line := fmt.Sprintf("%s%-*s %s", checkIndent, checkLabelWidth, name+":", statusText)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
