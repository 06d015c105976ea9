// Package calendar holds the pure date math behind the month view: grid
// generation, month navigation and the date keys used to index the journal.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Blank is the value of a padding cell in a month grid (before day 1 or
// after the last day of the month).
const Blank DayCell = 0

// DayCell is one slot in a month grid: Blank, or a day number 1..31.
type DayCell int

func (c DayCell) IsBlank() bool { return c == Blank }

// Date is a calendar day. Month is 1-indexed.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var DayNames = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// MonthName returns the display name for a 1-indexed month, or "" when out
// of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return MonthNames[month-1]
}

// Today resolves the current calendar day using wall-clock time in loc, so
// every user sees the same "today" regardless of where they are.
func Today(loc *time.Location) Date {
	now := time.Now().In(loc)
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

// DaysInMonth returns the number of days in (year, month) via the "day 0 of
// the next month" normalization.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid lays out (year, month) as a sequence of day cells: leading
// blanks so the 1st lands on its weekday (Sunday first), then 1..N, then
// trailing blanks to complete the final week. The result length is always a
// multiple of 7.
func MonthGrid(year, month int) []DayCell {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())
	total := DaysInMonth(year, month)

	grid := make([]DayCell, 0, 42)
	for i := 0; i < lead; i++ {
		grid = append(grid, Blank)
	}
	for d := 1; d <= total; d++ {
		grid = append(grid, DayCell(d))
	}
	for len(grid)%7 != 0 {
		grid = append(grid, Blank)
	}
	return grid
}

// Advance moves d by delta months, rolling the year across December and
// January. Navigation is month-granularity, so the day is normalized to 1.
func Advance(d Date, delta int) Date {
	m := d.Month - 1 + delta
	y := d.Year + m/12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	return Date{Year: y, Month: m + 1, Day: 1}
}

// SameDay reports whether a grid cell in the month view anchored at view
// refers to the same calendar day as ref. Blank cells never match.
func SameDay(cell DayCell, view Date, ref Date) bool {
	if cell.IsBlank() {
		return false
	}
	return int(cell) == ref.Day && view.Month == ref.Month && view.Year == ref.Year
}

// Key builds the date key "Y-M-D" used as the journal index. Month is
// 1-indexed and components are not zero-padded; both the read and write
// paths must go through here.
func Key(year, month, day int) string {
	return fmt.Sprintf("%d-%d-%d", year, month, day)
}

func (d Date) Key() string { return Key(d.Year, d.Month, d.Day) }

// ParseKey parses a "Y-M-D" date key back into a Date.
func ParseKey(key string) (Date, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date key %q", key)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("invalid date key %q", key)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return Date{}, fmt.Errorf("date key %q out of range", key)
	}
	return d, nil
}
