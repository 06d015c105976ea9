package ical

import (
	"strings"
	"testing"

	"ejournal/internal/db"
	"ejournal/internal/journal"
)

func newTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	d, err := db.NewMemory()
	if err != nil {
		t.Fatalf("new memory db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return journal.New(d)
}

func TestMonthEmpty(t *testing.T) {
	j := newTestJournal(t)
	out := Month(j, 2024, 3)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Fatalf("not a calendar document:\n%s", out)
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatal("empty month should produce no events")
	}
}

func TestMonthEvents(t *testing.T) {
	j := newTestJournal(t)
	j.CreateNote("2024-3-15", "Gym", "l01", "")
	j.CreateTodo("2024-3-16", "Buy milk", "")
	j.CreateTodo("2024-4-1", "other month", "")

	out := Month(j, 2024, 3)

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected 2 events, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "SUMMARY:Gym") || !strings.Contains(out, "SUMMARY:Buy milk") {
		t.Fatalf("missing summaries:\n%s", out)
	}
	if !strings.Contains(out, "CATEGORIES:Work") {
		t.Fatalf("tagged note should expose its tag name:\n%s", out)
	}
	if !strings.Contains(out, "STATUS:CONFIRMED") {
		t.Fatalf("open todo should be confirmed:\n%s", out)
	}
	if strings.Contains(out, "other month") {
		t.Fatal("events must not leak across months")
	}
}
