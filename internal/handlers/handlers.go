package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ejournal/internal/auth"
	"ejournal/internal/cache"
	"ejournal/internal/calendar"
	"ejournal/internal/ical"
	"ejournal/internal/journal"
	"ejournal/internal/models"
	"ejournal/internal/views"
)

type Handlers struct {
	journal *journal.Journal
	cache   *cache.Cache
	auth    *auth.Auth
	views   *views.Views
	loc     *time.Location
}

func New(j *journal.Journal, c *cache.Cache, a *auth.Auth, v *views.Views, loc *time.Location) *Handlers {
	return &Handlers{
		journal: j,
		cache:   c,
		auth:    a,
		views:   v,
		loc:     loc,
	}
}

func (h *Handlers) respond(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *Handlers) error(w http.ResponseWriter, message string, status int) {
	h.respond(w, map[string]string{"error": message}, status)
}

// monthParams reads the year/month query, defaulting to the canonical
// current month.
func (h *Handlers) monthParams(r *http.Request) (int, int, bool) {
	today := calendar.Today(h.loc)
	year, month := today.Year, today.Month

	if s := r.URL.Query().Get("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, false
		}
		year = n
	}
	if s := r.URL.Query().Get("month"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, false
		}
		month = n
	}
	return year, month, true
}

// Calendar

func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.monthParams(r)
	if !ok {
		h.error(w, "Invalid year or month", http.StatusBadRequest)
		return
	}
	h.respond(w, h.views.Month(year, month, calendar.Today(h.loc)), http.StatusOK)
}

// Notes

func (h *Handlers) GetNotes(w http.ResponseWriter, r *http.Request) {
	dateKey := r.URL.Query().Get("date")
	if dateKey == "" {
		h.error(w, "date is required", http.StatusBadRequest)
		return
	}
	if _, err := calendar.ParseKey(dateKey); err != nil {
		h.error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	if notes, ok := h.cache.Get(dateKey); ok {
		h.respond(w, notes, http.StatusOK)
		return
	}

	notes := h.journal.NotesForDay(dateKey)
	if notes == nil {
		notes = []models.Note{}
	}
	h.cache.Set(dateKey, notes)
	h.respond(w, notes, http.StatusOK)
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string `json:"date"`
		Type   string `json:"type"`
		Name   string `json:"name"`
		TagID  string `json:"tag_id"`
		MoodID string `json:"mood_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := calendar.ParseKey(req.Date); err != nil {
		h.error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	var note *models.Note
	var ok bool
	switch req.Type {
	case models.KindTodo:
		note, ok = h.journal.CreateTodo(req.Date, req.Name, req.MoodID)
	case models.KindNote:
		note, ok = h.journal.CreateNote(req.Date, req.Name, req.TagID, req.MoodID)
	default:
		h.error(w, "type must be note or todo", http.StatusBadRequest)
		return
	}
	if !ok {
		h.error(w, "Name is required, and notes need a tag", http.StatusBadRequest)
		return
	}

	h.cache.Invalidate(req.Date)
	h.respond(w, note, http.StatusCreated)
}

// Tags

func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.journal.Tags(), http.StatusOK)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tag, ok := h.journal.CreateTag(req.Name, req.Color)
	if !ok {
		h.error(w, "Name is required", http.StatusBadRequest)
		return
	}
	h.respond(w, tag, http.StatusCreated)
}

// Moods

func (h *Handlers) GetMoods(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.journal.Moods(), http.StatusOK)
}

// Theme

func (h *Handlers) GetTheme(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.journal.Theme(), http.StatusOK)
}

func (h *Handlers) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot  int    `json:"slot"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Value == "" {
		h.error(w, "value is required", http.StatusBadRequest)
		return
	}

	if !h.journal.SetColor(req.Slot, req.Value) {
		h.error(w, "slot must be 1, 2 or 3", http.StatusBadRequest)
		return
	}
	h.respond(w, h.journal.Theme(), http.StatusOK)
}

// Export

func (h *Handlers) ExportICS(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.monthParams(r)
	if !ok {
		h.error(w, "Invalid year or month", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=ejournal.ics")
	w.Write([]byte(ical.Month(h.journal, year, month)))
}

// Auth

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string          `json:"email"`
		Password string          `json:"password"`
		Username string          `json:"username"`
		Birthday models.Birthday `json:"birthday"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Signup(req.Email, req.Password, req.Username, req.Birthday)
	if err != nil {
		h.error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, user, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		h.error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   90 * 24 * 60 * 60, // 3 months
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	h.respond(w, map[string]interface{}{"token": token, "user": user}, http.StatusOK)
}

func (h *Handlers) CheckAuth(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]bool{"authenticated": auth.UserID(r) != ""}, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.respond(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Health

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]string{"status": "ok"}, http.StatusOK)
}
