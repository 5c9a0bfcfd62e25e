package roj

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sambeau/roj/pkg/roj/errors"
)

const (
	colorRed   = "\x1b[1;31m"
	colorReset = "\x1b[0m"
)

// Report writes err the way the command line shows it: a header naming the
// error class, the message and hints, then the offending source line with a
// caret under the column. A halt is reported as its message alone.
func Report(w io.Writer, err error, source string, color bool) {
	re, ok := errors.As(err)
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	if re.Class == errors.ClassHalt {
		fmt.Fprintln(w, re.Message)
		return
	}

	text := re.PrettyString()
	if color {
		header := re.Header()
		text = colorRed + header + colorReset + strings.TrimPrefix(text, header)
	}
	fmt.Fprintln(w, text)

	if re.Line > 0 {
		writeSourceContext(w, strings.Split(source, "\n"), re.Line, re.Column)
	}
}

// writeSourceContext prints the source line with its indentation removed and
// a caret below column. Tabs count as 8 cells; wide runes as 2.
func writeSourceContext(w io.Writer, lines []string, line, column int) {
	if line > len(lines) {
		return
	}
	src := strings.TrimRight(lines[line-1], "\r")
	trimmed := strings.TrimLeft(src, " \t")
	indent := visualWidth([]rune(src[:len(src)-len(trimmed)]))

	fmt.Fprintf(w, "    %s\n", trimmed)

	if column <= 0 {
		return
	}
	runes := []rune(src)
	before := runes[:min(column-1, len(runes))]
	offset := max(visualWidth(before)-indent, 0)
	fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", offset))
}

func visualWidth(runes []rune) int {
	width := 0
	for _, r := range runes {
		if r == '\t' {
			width += 8
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}
