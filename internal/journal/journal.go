// Package journal owns the mutable application state behind the calendar
// view: the date-keyed note store, the tag and mood registries and the
// three-color theme. Every mutation persists the affected snapshot; a
// failed write is logged and swallowed so the in-memory state stays usable
// for the rest of the session.
package journal

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"ejournal/internal/db"
	"ejournal/internal/models"
)

// Storage record keys, one per persisted snapshot.
const (
	ThemeRecord = "ejournal-theme"
	TagsRecord  = "ejournal-tags"
	NotesRecord = "ejournal-notes"
)

// Todos always render in black.
const todoColor = "#000000"

// DefaultTagColor is used when a new tag is created without a color.
const DefaultTagColor = "#FF6B6B"

func defaultTags() []models.Tag {
	return []models.Tag{
		{ID: "l01", Name: "Work", Color: "#4ECDC4"},
		{ID: "l02", Name: "Goals", Color: "#F38181"},
		{ID: "l03", Name: "Ideas", Color: "#ffe27a"},
	}
}

func defaultMoods() []models.Mood {
	return []models.Mood{
		{ID: "m01", Emoji: "😠", Label: "Angry"},
		{ID: "m02", Emoji: "😢", Label: "Sad"},
		{ID: "m03", Emoji: "😌", Label: "Calm"},
		{ID: "m04", Emoji: "😊", Label: "Happy"},
		{ID: "m05", Emoji: "🤩", Label: "Excited"},
	}
}

func defaultTheme() models.Theme {
	return models.Theme{C1: "#f3f0ea", C2: "#4c3734", C3: "#6e5a5a"}
}

// Applier receives the full color triple whenever any slot changes. The
// presentation layer registers one so a single slot update still applies
// all three colors as a batch.
type Applier interface {
	ApplyTheme(models.Theme)
}

// Journal is the single owned state tree for the calendar view.
type Journal struct {
	mu      sync.Mutex
	db      *db.DB
	notes   map[string][]models.Note
	tags    []models.Tag
	moods   []models.Mood
	theme   models.Theme
	applier Applier
}

// New builds a journal rehydrated from persisted records, falling back to
// built-in defaults when a record is absent or malformed.
func New(database *db.DB) *Journal {
	j := &Journal{
		db:    database,
		notes: make(map[string][]models.Note),
		tags:  defaultTags(),
		moods: defaultMoods(),
		theme: defaultTheme(),
	}
	if value, ok := j.record(NotesRecord); ok {
		var notes map[string][]models.Note
		if err := json.Unmarshal([]byte(value), &notes); err == nil && notes != nil {
			j.notes = notes
		} else if err != nil {
			log.Printf("journal: discarding malformed %s record: %v", NotesRecord, err)
		}
	}
	if value, ok := j.record(TagsRecord); ok {
		var tags []models.Tag
		if err := json.Unmarshal([]byte(value), &tags); err == nil && tags != nil {
			j.tags = tags
		} else if err != nil {
			log.Printf("journal: discarding malformed %s record: %v", TagsRecord, err)
		}
	}
	if value, ok := j.record(ThemeRecord); ok {
		var theme models.Theme
		err := json.Unmarshal([]byte(value), &theme)
		if err == nil && theme.C1 != "" && theme.C2 != "" && theme.C3 != "" {
			j.theme = theme
		} else if err != nil {
			log.Printf("journal: discarding malformed %s record: %v", ThemeRecord, err)
		}
	}
	return j
}

func (j *Journal) record(key string) (string, bool) {
	value, ok, err := j.db.GetRecord(key)
	if err != nil {
		log.Printf("journal: load %s: %v", key, err)
		return "", false
	}
	return value, ok
}

// SetApplier registers the presentation collaborator and applies the
// current theme once, before first paint.
func (j *Journal) SetApplier(a Applier) {
	j.mu.Lock()
	j.applier = a
	theme := j.theme
	j.mu.Unlock()
	if a != nil {
		a.ApplyTheme(theme)
	}
}

// freshID returns a high-resolution timestamp id, unique enough for
// interface keys.
func freshID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// Notes

// CreateNote appends a tagged note for dateKey. It is a no-op when the name
// trims to empty or the tag id does not resolve; a note is never stored
// without its tag snapshot.
func (j *Journal) CreateNote(dateKey, name, tagID, moodID string) (*models.Note, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tag := j.findTag(tagID)
	if tag == nil {
		return nil, false
	}
	snapshot := *tag

	note := models.Note{
		ID:        freshID(),
		Type:      models.KindNote,
		Name:      name,
		Tag:       &snapshot,
		MoodID:    moodID,
		Date:      dateKey,
		CreatedAt: time.Now(),
	}
	j.notes[dateKey] = append(j.notes[dateKey], note)
	j.persist(NotesRecord, j.notes)
	return &note, true
}

// CreateTodo appends a to-do item for dateKey. It is a no-op when the name
// trims to empty.
func (j *Journal) CreateTodo(dateKey, name, moodID string) (*models.Note, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	note := models.Note{
		ID:        freshID(),
		Type:      models.KindTodo,
		Name:      name,
		Color:     todoColor,
		MoodID:    moodID,
		Date:      dateKey,
		Completed: false,
		CreatedAt: time.Now(),
	}
	j.notes[dateKey] = append(j.notes[dateKey], note)
	j.persist(NotesRecord, j.notes)
	return &note, true
}

// NotesForDay returns the notes recorded for dateKey in insertion order.
func (j *Journal) NotesForDay(dateKey string) []models.Note {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.Note(nil), j.notes[dateKey]...)
}

// CanSave mirrors the validation the save control enforces: a todo needs a
// non-empty trimmed name, a note additionally needs a resolved tag.
func (j *Journal) CanSave(kind, name, tagID string) bool {
	trimmed := strings.TrimSpace(name)
	switch kind {
	case models.KindTodo:
		return trimmed != ""
	case models.KindNote:
		if trimmed == "" {
			return false
		}
		j.mu.Lock()
		defer j.mu.Unlock()
		return j.findTag(tagID) != nil
	}
	return false
}

// Tags

// Tags returns the registry in insertion order, defaults first.
func (j *Journal) Tags() []models.Tag {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.Tag(nil), j.tags...)
}

// CreateTag appends a user-defined tag. The name must trim non-empty; an
// empty color falls back to DefaultTagColor.
func (j *Journal) CreateTag(name, color string) (*models.Tag, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}
	if color == "" {
		color = DefaultTagColor
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tag := models.Tag{ID: freshID(), Name: name, Color: color}
	j.tags = append(j.tags, tag)
	j.persist(TagsRecord, j.tags)
	return &tag, true
}

// ReplaceTags swaps the whole registry for the feed's result. The feed is
// authoritative: local additions are not merged.
func (j *Journal) ReplaceTags(tags []models.Tag) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tags = append([]models.Tag(nil), tags...)
	j.persist(TagsRecord, j.tags)
}

func (j *Journal) findTag(id string) *models.Tag {
	for i := range j.tags {
		if j.tags[i].ID == id {
			return &j.tags[i]
		}
	}
	return nil
}

// Moods

func (j *Journal) Moods() []models.Mood {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.Mood(nil), j.moods...)
}

// ReplaceMoods swaps the whole mood registry for the feed's result. Moods
// are session state and are not persisted locally.
func (j *Journal) ReplaceMoods(moods []models.Mood) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.moods = append([]models.Mood(nil), moods...)
}

// Theme

func (j *Journal) Theme() models.Theme {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.theme
}

// SetColor updates one theme slot (1..3), applies the full triple through
// the registered applier and persists it as a unit.
func (j *Journal) SetColor(slot int, value string) bool {
	j.mu.Lock()

	switch slot {
	case 1:
		j.theme.C1 = value
	case 2:
		j.theme.C2 = value
	case 3:
		j.theme.C3 = value
	default:
		j.mu.Unlock()
		return false
	}
	j.persist(ThemeRecord, j.theme)
	applier := j.applier
	theme := j.theme
	j.mu.Unlock()

	if applier != nil {
		applier.ApplyTheme(theme)
	}
	return true
}

// persist writes one snapshot record. Failures degrade to in-memory-only
// state for the session; they never propagate to the caller.
func (j *Journal) persist(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("journal: marshal %s: %v", key, err)
		return
	}
	if err := j.db.PutRecord(key, string(data)); err != nil {
		log.Printf("journal: persist %s: %v", key, err)
	}
}
