// Package feed implements the optional reference-data sync: a scheduled
// poll of remote label and mood definitions that, on success, replaces the
// local registries wholesale. The journal works from local state alone
// whenever the feed is unconfigured or failing.
package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"ejournal/internal/models"
)

// Subscriber receives full-collection replacement events. Each call must be
// applied atomically; partial merges are never delivered.
type Subscriber interface {
	ReplaceTags([]models.Tag)
	ReplaceMoods([]models.Mood)
}

// Document is one loosely-typed feed record. Field names vary between
// sources, so values are resolved through priority-ordered field lists.
type Document map[string]any

// Resolution order for the logical fields. First present non-empty string
// wins.
var (
	labelNameFields = []string{"name", "labID"}
	moodNameFields  = []string{"moodName", "mood", "name"}
)

// Fallback color when a label document carries none.
const defaultLabelColor = "#999"

// moodEmoji maps known mood names to their glyph. Unrecognized names get an
// empty glyph. "Exited" is a known misspelling in existing data.
var moodEmoji = map[string]string{
	"Angry":   "😠",
	"Sad":     "😢",
	"Calm":    "😌",
	"Happy":   "😊",
	"Excited": "🤩",
	"Exited":  "🤩",
}

func stringField(doc Document, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// NormalizeLabel maps a loose label document onto a Tag.
func NormalizeLabel(doc Document) models.Tag {
	color := stringField(doc, "color")
	if color == "" {
		color = defaultLabelColor
	}
	return models.Tag{
		ID:    stringField(doc, "id"),
		Name:  stringField(doc, labelNameFields...),
		Color: color,
	}
}

// NormalizeMood maps a loose mood document onto a Mood.
func NormalizeMood(doc Document) models.Mood {
	name := stringField(doc, moodNameFields...)
	return models.Mood{
		ID:    stringField(doc, "id"),
		Label: name,
		Emoji: moodEmoji[name],
	}
}

// Feed polls the two reference collections on a cron schedule.
type Feed struct {
	baseURL string
	client  *http.Client
	sub     Subscriber
	cron    *cron.Cron
}

// New builds a feed against baseURL, expected to serve /labels and /moods
// as JSON arrays of documents. An empty baseURL yields a disabled feed.
func New(baseURL string, sub Subscriber) *Feed {
	return &Feed{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		sub:     sub,
	}
}

// Enabled reports whether a remote source is configured at all.
func (f *Feed) Enabled() bool {
	return f != nil && f.baseURL != ""
}

// Start runs one refresh immediately and schedules periodic refreshes using
// the given cron spec (e.g. "*/15 * * * *"). A disabled feed starts as a
// no-op.
func (f *Feed) Start(spec string) error {
	if !f.Enabled() {
		return nil
	}
	f.cron = cron.New()
	if _, err := f.cron.AddFunc(spec, f.Refresh); err != nil {
		return fmt.Errorf("schedule feed refresh: %w", err)
	}
	f.cron.Start()
	go f.Refresh()
	return nil
}

// Stop cancels the schedule. Best-effort: safe to call on a feed that never
// started.
func (f *Feed) Stop() {
	if f != nil && f.cron != nil {
		f.cron.Stop()
	}
}

// Refresh fetches both collections and delivers each as a wholesale
// replacement. A failed collection is logged and the registry keeps its
// last-known values.
func (f *Feed) Refresh() {
	if !f.Enabled() {
		return
	}

	if docs, err := f.fetch("/labels"); err != nil {
		log.Printf("feed: label refresh failed: %v", err)
	} else {
		tags := make([]models.Tag, 0, len(docs))
		for _, doc := range docs {
			tags = append(tags, NormalizeLabel(doc))
		}
		f.sub.ReplaceTags(tags)
	}

	if docs, err := f.fetch("/moods"); err != nil {
		log.Printf("feed: mood refresh failed: %v", err)
	} else {
		moods := make([]models.Mood, 0, len(docs))
		for _, doc := range docs {
			moods = append(moods, NormalizeMood(doc))
		}
		f.sub.ReplaceMoods(moods)
	}
}

func (f *Feed) fetch(path string) ([]Document, error) {
	resp, err := f.client.Get(f.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	var docs []Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return docs, nil
}
