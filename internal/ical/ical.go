// Package ical serializes a month of journal entries as an iCalendar
// document, so notes and todos can be pulled into external calendar apps.
package ical

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"ejournal/internal/calendar"
	"ejournal/internal/journal"
	"ejournal/internal/models"
)

// Month renders every note recorded in (year, month) as an all-day VEVENT.
// Todos carry their completion as the event status; tagged notes expose the
// tag name as a category.
func Month(j *journal.Journal, year, month int) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//ejournal//calendar//EN")

	total := calendar.DaysInMonth(year, month)
	for day := 1; day <= total; day++ {
		key := calendar.Key(year, month, day)
		start := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

		for _, note := range j.NotesForDay(key) {
			event := cal.AddEvent(note.ID + "@ejournal")
			event.SetCreatedTime(note.CreatedAt)
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(start.AddDate(0, 0, 1))
			event.SetSummary(note.Name)

			switch note.Type {
			case models.KindTodo:
				if note.Completed {
					event.SetStatus(ical.ObjectStatusCompleted)
				} else {
					event.SetStatus(ical.ObjectStatusConfirmed)
				}
			case models.KindNote:
				if note.Tag != nil {
					event.SetProperty(ical.ComponentPropertyCategories, note.Tag.Name)
				}
			}
		}
	}

	return cal.Serialize()
}
