package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"playlisttool/internal/media"
)

// statusKind grades a console line for list, distribute, check and cache.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
	clockLayout      = "2006-01-02 15:04:05"
)

var statusStyles = map[statusKind]struct {
	tag   string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// renderStatusLine formats "label: [TAG] message", e.g. "Bad files: [WARN] 2 kept".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	text := "[" + style.tag + "]"
	if message != "" {
		text += " " + message
	}
	return paint(fieldPrefix(label)+" "+text, style.color, colorize)
}

// renderField formats a plain "label: value" line aligned with status lines.
func renderField(label string, value any) string {
	return fmt.Sprintf("%s %v", fieldPrefix(label), value)
}

// renderLengthField shows a millisecond value next to its HH:MM:SS form.
func renderLengthField(label string, ms int64) string {
	clock := media.FormatLength(ms)
	if clock == "" {
		clock = "00:00:00"
	}
	return renderField(label, fmt.Sprintf("%d ms (%s)", ms, clock))
}

// renderBadFiles reports entries whose media file is missing, one path per line.
func renderBadFiles(bad []*media.File, removed bool, colorize bool) []string {
	if len(bad) == 0 {
		return []string{renderStatusLine("Bad files", statusOK, "none", colorize)}
	}
	action := "kept"
	if removed {
		action = "removed"
	}
	lines := make([]string, 0, len(bad)+1)
	lines = append(lines, renderStatusLine("Bad files", statusWarn, fmt.Sprintf("%d %s", len(bad), action), colorize))
	for _, f := range bad {
		lines = append(lines, statusIndent+statusIndent+"- "+f.Path)
	}
	return lines
}

// renderRunTimes closes a distribute run with its wall-clock span.
func renderRunTimes(started, finished time.Time) []string {
	return []string{
		renderField("Started", started.Format(clockLayout)),
		renderField("Finished", finished.Format(clockLayout)),
		renderField("Elapsed", finished.Sub(started).Round(time.Millisecond)),
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	return []string{paint(line, ansiBlue, colorize), paint(rule, ansiBlue, colorize)}
}

func fieldPrefix(label string) string {
	return fmt.Sprintf("%s%-*s", statusIndent, statusLabelWidth, label+":")
}

func paint(text, color string, colorize bool) string {
	if !colorize || color == "" {
		return text
	}
	return color + text + ansiReset
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func writeLines(out io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
