package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// FormatStep renders one replayed call as a single line:
//
//	✓ LMSSetValue("cmi.core.lesson_status", "passed") = "true" [0]
func FormatStep(ok bool, call string, args []string, result, code, reason string) string {
	p := termenv.ColorProfile()

	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}

	mark := termenv.String("✓").Foreground(p.Color("#22c55e"))
	if !ok {
		mark = termenv.String("✗").Foreground(p.Color("#ef4444"))
	}
	codeText := termenv.String("[" + code + "]")
	if code != "0" {
		codeText = codeText.Foreground(p.Color("#f59e0b"))
	} else {
		codeText = codeText.Faint()
	}

	line := fmt.Sprintf("%s %s(%s) = %s %s",
		mark,
		termenv.String(call).Bold(),
		strings.Join(quoted, ", "),
		strconv.Quote(result),
		codeText,
	)
	if reason != "" {
		line += " " + termenv.String(reason).Foreground(p.Color("#ef4444")).String()
	}
	return line
}

// FormatSummary renders the totals line.
func FormatSummary(total, failed int) string {
	p := termenv.ColorProfile()
	if failed == 0 {
		return termenv.String(fmt.Sprintf("%d steps passed", total)).Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String(fmt.Sprintf("%d of %d steps failed", failed, total)).Foreground(p.Color("#ef4444")).String()
}
