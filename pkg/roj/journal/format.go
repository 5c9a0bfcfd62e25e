package journal

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// WriteList prints entries one per line, newest first, with times relative
// to now.
func WriteList(w io.Writer, entries []Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(no runs recorded)")
		return
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%5d  %-14s  %-6s  %-7s  %s\n",
			e.ID, humanize.RelTime(e.Timestamp, now, "ago", "from now"), e.Mode, e.Status, describe(e))
	}
}

func describe(e Entry) string {
	var detail string
	switch e.Status {
	case StatusError:
		detail = fmt.Sprintf("%s %s", e.ErrorCode, e.Message)
	case StatusHalted:
		detail = "halted with " + e.Result
	default:
		detail = "=> " + e.Result
		if e.Result == "" {
			detail = "=> Null"
		}
	}

	return printer.Sprintf("%s: %s (%d lines, %s)", e.Source, detail, e.Lines, e.Duration.Round(time.Microsecond).String())
}

// WriteSummary prints the entry count and on-disk size of a journal.
func WriteSummary(w io.Writer, j *Journal) error {
	count, err := j.Count()
	if err != nil {
		return err
	}
	size, err := j.Size()
	if err != nil {
		return err
	}
	printer.Fprintf(w, "%d runs in %s (%s)\n", count, j.Path(), humanize.Bytes(uint64(size)))
	return nil
}
