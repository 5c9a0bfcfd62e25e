package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T, cfg Config) *Journal {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "nested", "journal.db")
	}
	j, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected an error without a path")
	}
}

func TestRecordAndEntries(t *testing.T) {
	j := openTestJournal(t, Config{})

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []Entry{
		{Source: "a.roj", Mode: "file", Status: StatusOK, Result: "3", Lines: 2, Duration: 5 * time.Millisecond, Timestamp: at},
		{Source: "<inline>", Mode: "inline", Status: StatusHalted, Result: "99", Timestamp: at.Add(time.Second)},
		{Source: "<repl>", Mode: "repl", Status: StatusError, ErrorCode: "NAME-0001", Message: "undefined variable 'y'"},
	}
	for _, e := range runs {
		if err := j.Record(e); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	count, err := j.Count()
	if err != nil || count != 3 {
		t.Fatalf("Count() = %d, %v; want 3", count, err)
	}

	entries, err := j.Entries(0)
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	newest := entries[0]
	if newest.Status != StatusError || newest.ErrorCode != "NAME-0001" || newest.Message != "undefined variable 'y'" {
		t.Errorf("newest entry = %+v", newest)
	}
	if newest.Timestamp.IsZero() {
		t.Error("a zero timestamp should be recorded as now")
	}

	oldest := entries[2]
	if oldest.Source != "a.roj" || oldest.Mode != "file" || oldest.Result != "3" || oldest.Lines != 2 {
		t.Errorf("oldest entry = %+v", oldest)
	}
	if oldest.Duration != 5*time.Millisecond {
		t.Errorf("Duration = %s", oldest.Duration)
	}
	if !oldest.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %s, want %s", oldest.Timestamp, at)
	}

	limited, err := j.Entries(2)
	if err != nil || len(limited) != 2 || limited[1].Status != StatusHalted {
		t.Errorf("Entries(2) = %+v, %v", limited, err)
	}
}

func TestClear(t *testing.T) {
	j := openTestJournal(t, Config{})
	for i := 0; i < 3; i++ {
		if err := j.Record(Entry{Source: "x.roj", Mode: "file", Status: StatusOK}); err != nil {
			t.Fatal(err)
		}
	}

	if err := j.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if count, _ := j.Count(); count != 0 {
		t.Errorf("Count() after Clear = %d", count)
	}
}

func TestTruncation(t *testing.T) {
	// Any database is over a one byte limit, so every record first drops
	// the older entries.
	j := openTestJournal(t, Config{MaxSize: 1, TruncatePct: 100})

	for _, src := range []string{"1.roj", "2.roj", "3.roj", "4.roj"} {
		if err := j.Record(Entry{Source: src, Mode: "file", Status: StatusOK}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := j.Entries(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Source != "4.roj" {
		t.Errorf("entries after truncation = %+v", entries)
	}
}

func TestNoLimit(t *testing.T) {
	j := openTestJournal(t, Config{MaxSize: 0})
	for i := 0; i < 5; i++ {
		if err := j.Record(Entry{Source: "x.roj", Mode: "file", Status: StatusOK}); err != nil {
			t.Fatal(err)
		}
	}
	if count, _ := j.Count(); count != 5 {
		t.Errorf("Count() = %d, want 5", count)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(Entry{Source: "kept.roj", Mode: "file", Status: StatusOK}); err != nil {
		t.Fatal(err)
	}
	if j.Path() != path {
		t.Errorf("Path() = %q", j.Path())
	}
	j.Close()

	j = openTestJournal(t, Config{Path: path})
	entries, err := j.Entries(1)
	if err != nil || len(entries) != 1 || entries[0].Source != "kept.roj" {
		t.Errorf("entries after reopen = %+v, %v", entries, err)
	}
	if size, err := j.Size(); err != nil || size == 0 {
		t.Errorf("Size() = %d, %v", size, err)
	}
}
