package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"ejournal/internal/auth"
	"ejournal/internal/cache"
	"ejournal/internal/config"
	"ejournal/internal/db"
	"ejournal/internal/feed"
	"ejournal/internal/handlers"
	"ejournal/internal/journal"
	"ejournal/internal/views"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "Path to config file")
	listen := flag.String("listen", "", "HTTP listen address (overrides config if set)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "ejournal.db")
	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = os.Getenv("JWT_SECRET")
	}
	if jwtSecret == "" {
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(secretBytes)
		log.Printf("Generated JWT secret (set jwt_secret in config or JWT_SECRET env var to persist sessions)")
	}

	jr := journal.New(database)
	v := views.New(jr)
	jr.SetApplier(v)

	c := cache.New()
	a := auth.New(database, jwtSecret)
	h := handlers.New(jr, c, a, v, loc)

	// Reference-data sync: optional, runs only when a source is configured.
	f := feed.New(cfg.Feed.BaseURL, jr)
	if f.Enabled() {
		if err := f.Start(cfg.Feed.Refresh); err != nil {
			log.Fatalf("Failed to start reference-data feed: %v", err)
		}
		defer f.Stop()
		log.Printf("Reference-data feed enabled: %s (%s)", cfg.Feed.BaseURL, cfg.Feed.Refresh)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/calendar", a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.GetCalendar(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}, false))

	mux.HandleFunc("/api/notes", a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetNotes(w, r)
		case http.MethodPost:
			h.CreateNote(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}, false))

	mux.HandleFunc("/api/tags", a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetTags(w, r)
		case http.MethodPost:
			h.CreateTag(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}, false))

	mux.HandleFunc("/api/moods", a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.GetMoods(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}, false))

	mux.HandleFunc("/api/theme", a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetTheme(w, r)
		case http.MethodPut:
			h.UpdateTheme(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}, false))

	mux.HandleFunc("/api/export.ics", a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.ExportICS(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}, false))

	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Signup(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Login(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/auth/check", a.Middleware(h.CheckAuth, false))
	mux.HandleFunc("/api/auth/logout", h.Logout)

	mux.HandleFunc("/health", h.Health)

	log.Printf("Starting ejournal server on %s (timezone %s)", cfg.Listen, cfg.Timezone)
	if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
