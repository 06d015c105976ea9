package feed

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ejournal/internal/models"
)

type fakeSubscriber struct {
	mu    sync.Mutex
	tags  [][]models.Tag
	moods [][]models.Mood
}

func (s *fakeSubscriber) ReplaceTags(tags []models.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tags)
}

func (s *fakeSubscriber) ReplaceMoods(moods []models.Mood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moods = append(s.moods, moods)
}

func TestNormalizeLabelFieldPriority(t *testing.T) {
	cases := []struct {
		doc  Document
		want models.Tag
	}{
		{
			Document{"id": "L1", "name": "Work", "color": "#4ECDC4"},
			models.Tag{ID: "L1", Name: "Work", Color: "#4ECDC4"},
		},
		{
			// labID only used when name is absent.
			Document{"id": "L2", "labID": "GOALS"},
			models.Tag{ID: "L2", Name: "GOALS", Color: "#999"},
		},
		{
			// name wins over labID.
			Document{"id": "L3", "name": "Ideas", "labID": "IDEAS"},
			models.Tag{ID: "L3", Name: "Ideas", Color: "#999"},
		},
		{
			// Non-string values are skipped, empty name allowed.
			Document{"id": "L4", "name": 42},
			models.Tag{ID: "L4", Name: "", Color: "#999"},
		},
	}
	for i, c := range cases {
		if got := NormalizeLabel(c.doc); got != c.want {
			t.Errorf("case %d: got %+v, want %+v", i, got, c.want)
		}
	}
}

func TestNormalizeMoodFieldPriority(t *testing.T) {
	cases := []struct {
		doc  Document
		want models.Mood
	}{
		{Document{"id": "M1", "moodName": "Happy"}, models.Mood{ID: "M1", Label: "Happy", Emoji: "😊"}},
		{Document{"id": "M2", "mood": "Sad"}, models.Mood{ID: "M2", Label: "Sad", Emoji: "😢"}},
		{Document{"id": "M3", "name": "Calm"}, models.Mood{ID: "M3", Label: "Calm", Emoji: "😌"}},
		// moodName wins over the others.
		{Document{"id": "M4", "moodName": "Angry", "mood": "Happy", "name": "Sad"}, models.Mood{ID: "M4", Label: "Angry", Emoji: "😠"}},
		// Known misspelling still maps to the excited glyph.
		{Document{"id": "M5", "moodName": "Exited"}, models.Mood{ID: "M5", Label: "Exited", Emoji: "🤩"}},
		// Unrecognized names get an empty glyph.
		{Document{"id": "M6", "moodName": "Confused"}, models.Mood{ID: "M6", Label: "Confused", Emoji: ""}},
	}
	for i, c := range cases {
		if got := NormalizeMood(c.doc); got != c.want {
			t.Errorf("case %d: got %+v, want %+v", i, got, c.want)
		}
	}
}

func TestRefreshReplacesBothCollections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/labels":
			w.Write([]byte(`[{"id":"L1","labID":"WORK","color":"#111"},{"id":"L2","name":"Goals"}]`))
		case "/moods":
			w.Write([]byte(`[{"id":"M1","moodName":"Happy"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sub := &fakeSubscriber{}
	f := New(srv.URL, sub)
	if !f.Enabled() {
		t.Fatal("feed with a base URL should be enabled")
	}
	f.Refresh()

	if len(sub.tags) != 1 {
		t.Fatalf("expected one tag replacement, got %d", len(sub.tags))
	}
	tags := sub.tags[0]
	if len(tags) != 2 || tags[0].Name != "WORK" || tags[1].Color != "#999" {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	if len(sub.moods) != 1 {
		t.Fatalf("expected one mood replacement, got %d", len(sub.moods))
	}
	moods := sub.moods[0]
	if len(moods) != 1 || moods[0].Emoji != "😊" {
		t.Fatalf("unexpected moods: %+v", moods)
	}
}

func TestRefreshFailureKeepsLastKnown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sub := &fakeSubscriber{}
	f := New(srv.URL, sub)
	f.Refresh()

	if len(sub.tags) != 0 || len(sub.moods) != 0 {
		t.Fatal("failed fetches must not deliver replacements")
	}
}

func TestRefreshMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	sub := &fakeSubscriber{}
	f := New(srv.URL, sub)
	f.Refresh()

	if len(sub.tags) != 0 || len(sub.moods) != 0 {
		t.Fatal("malformed responses must not deliver replacements")
	}
}

func TestDisabledFeed(t *testing.T) {
	sub := &fakeSubscriber{}
	f := New("", sub)
	if f.Enabled() {
		t.Fatal("empty base URL should disable the feed")
	}
	if err := f.Start("*/15 * * * *"); err != nil {
		t.Fatalf("disabled start should be a no-op: %v", err)
	}
	f.Refresh()
	f.Stop()
	if len(sub.tags) != 0 || len(sub.moods) != 0 {
		t.Fatal("disabled feed must never deliver")
	}
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := New(srv.URL, &fakeSubscriber{})
	if err := f.Start("not a cron spec"); err == nil {
		t.Fatal("invalid cron spec should be rejected")
	}
}

func TestStopWithoutStart(t *testing.T) {
	f := New("http://example.invalid", &fakeSubscriber{})
	f.Stop() // must not panic
}
