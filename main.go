package main

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"psp.com/trivia-quiz/backend/internal/config"
	"psp.com/trivia-quiz/backend/internal/opentdb"
	"psp.com/trivia-quiz/backend/internal/questioncache"
	"psp.com/trivia-quiz/backend/internal/quiz"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.FromEnv()

	client := opentdb.NewClient(cfg.OpenTDBBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, cfg.CategoryTTL)
	fetcher := quiz.NewFetcher(client, questioncache.New(questioncache.NewMemoryStore()))
	srv := &server{
		sessions: newSessionRegistry(fetcher, cfg.SessionTTL),
		cats:     client,
		origins:  cfg.AllowedOrigins,
	}
	r := newRouter(srv, cfg)

	addr := ":" + cfg.Port
	if cfg.TLS() {
		log.Println("backend listening on " + addr + " (HTTPS)")
		log.Fatal(http.ListenAndServeTLS(addr, cfg.TLSCert, cfg.TLSKey, r))
	} else {
		log.Println("backend listening on " + addr + " (HTTP)")
		log.Fatal(http.ListenAndServe(addr, r))
	}
}

func newRouter(srv *server, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(securityHeaders)
	r.Use(rateLimit(cfg.RateLimitPerMin))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })

	r.Get("/api/categories", srv.handleCategories)
	r.Post("/api/sessions", srv.handleCreateSession)
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/", srv.handleGetSession)
		r.Post("/start", srv.handleStart)
		r.Post("/answers", srv.handleSelect)
		r.Post("/submit", srv.handleSubmit)
		r.Post("/reset", srv.handleReset)
		r.Get("/score", srv.handleScore)
		r.Get("/report", srv.handleReport)
		r.Get("/watch", srv.handleWatch)
	})
	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// rateLimit allows perMinute requests per client IP in a sliding one-minute window.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	var mu sync.Mutex
	seen := make(map[string][]time.Time)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}
			clientIP := r.RemoteAddr
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				clientIP = strings.TrimSpace(strings.Split(xff, ",")[0])
			}

			now := time.Now()
			mu.Lock()
			var recent []time.Time
			for _, t := range seen[clientIP] {
				if now.Sub(t) < time.Minute {
					recent = append(recent, t)
				}
			}
			if len(recent) >= perMinute {
				seen[clientIP] = recent
				mu.Unlock()
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			seen[clientIP] = append(recent, now)
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
