package models

import "time"

// Note kinds. A note carries a tag snapshot; a todo carries a fixed color
// and a completion flag.
const (
	KindNote = "note"
	KindTodo = "todo"
)

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Mood struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Note is the union of the two journal entry variants, discriminated by Type.
// Tag is stored by value at creation time so later registry changes do not
// rewrite existing entries.
type Note struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Tag       *Tag      `json:"tag,omitempty"`
	Color     string    `json:"color,omitempty"`
	MoodID    string    `json:"emotion,omitempty"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Theme is the three-color triple applied to the presentation layer and
// persisted as a unit.
type Theme struct {
	C1 string `json:"c1"`
	C2 string `json:"c2"`
	C3 string `json:"c3"`
}

type Birthday struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profile_image"`
	Birthday     Birthday  `json:"birthday"`
	CreatedAt    time.Time `json:"created_at"`
}
