// Package views builds the derived read models the presentation layer
// consumes: the annotated month grid and the currently applied theme.
package views

import (
	"sync"

	"ejournal/internal/calendar"
	"ejournal/internal/journal"
	"ejournal/internal/models"
)

// DayView is one grid cell annotated with what the journal knows about it.
// Day is 0 for padding cells.
type DayView struct {
	Day       int    `json:"day"`
	Key       string `json:"key,omitempty"`
	NoteCount int    `json:"note_count"`
	TodosOpen int    `json:"todos_open"`
	TodosDone int    `json:"todos_done"`
	IsToday   bool   `json:"is_today"`
}

// MonthView is the full presentation model for one calendar month.
type MonthView struct {
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	MonthName string        `json:"month_name"`
	DayNames  []string      `json:"day_names"`
	Weeks     [][]DayView   `json:"weeks"`
	Today     calendar.Date `json:"today"`
}

type Views struct {
	journal *journal.Journal

	mu      sync.RWMutex
	applied models.Theme
}

func New(j *journal.Journal) *Views {
	return &Views{journal: j}
}

// Month assembles the view for (year, month), marking today relative to the
// given reference date and annotating each day with its note summary.
func (v *Views) Month(year, month int, today calendar.Date) MonthView {
	view := calendar.Date{Year: year, Month: month, Day: 1}
	grid := calendar.MonthGrid(year, month)

	weeks := make([][]DayView, 0, len(grid)/7)
	for start := 0; start < len(grid); start += 7 {
		week := make([]DayView, 7)
		for i, cell := range grid[start : start+7] {
			if cell.IsBlank() {
				continue
			}
			day := DayView{
				Day:     int(cell),
				Key:     calendar.Key(year, month, int(cell)),
				IsToday: calendar.SameDay(cell, view, today),
			}
			for _, note := range v.journal.NotesForDay(day.Key) {
				day.NoteCount++
				if note.Type == models.KindTodo {
					if note.Completed {
						day.TodosDone++
					} else {
						day.TodosOpen++
					}
				}
			}
			week[i] = day
		}
		weeks = append(weeks, week)
	}

	return MonthView{
		Year:      year,
		Month:     month,
		MonthName: calendar.MonthName(month),
		DayNames:  calendar.DayNames,
		Weeks:     weeks,
		Today:     today,
	}
}

// ApplyTheme satisfies journal.Applier: it records the triple the
// presentation layer currently shows.
func (v *Views) ApplyTheme(theme models.Theme) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applied = theme
}

// AppliedTheme returns the last applied color triple.
func (v *Views) AppliedTheme() models.Theme {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.applied
}
