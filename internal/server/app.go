// Package server exposes the triage engine over a small JSON API.
package server

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"wilt/internal/httpmw"
	"wilt/internal/prioritize"
	"wilt/internal/schedule"
	"wilt/internal/store"
)

type App struct {
	Tasks  store.Repo
	Scorer prioritize.Scorer
	Clock  Clock
	Policy schedule.Policy
	Logger *log.Logger
}

type Options struct {
	Tasks          store.Repo
	Scorer         prioritize.Scorer
	Clock          Clock
	Policy         schedule.Policy
	Logger         *log.Logger
	AllowedOrigins []string
}

// NewHandler wires routes, middleware and CORS into one http.Handler.
func NewHandler(opts Options) http.Handler {
	app := &App{
		Tasks:  opts.Tasks,
		Scorer: opts.Scorer,
		Clock:  opts.Clock,
		Policy: opts.Policy,
		Logger: opts.Logger,
	}
	if app.Clock == nil {
		app.Clock = SystemClock{}
	}
	if app.Policy == (schedule.Policy{}) {
		app.Policy = schedule.Default()
	}
	if app.Logger == nil {
		app.Logger = log.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/tasks", app.listTasks)
	mux.HandleFunc("POST /api/tasks", app.createTask)
	mux.HandleFunc("GET /api/tasks/{id}", app.getTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", app.patchTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", app.deleteTask)

	mux.HandleFunc("GET /api/decay", app.decayReport)
	mux.HandleFunc("GET /api/schedule", app.daySchedule)
	mux.HandleFunc("GET /api/insights", app.insightsReport)
	mux.HandleFunc("GET /api/microtasks", app.microtaskSuggestions)
	mux.HandleFunc("GET /api/stats", app.statsReport)
	mux.HandleFunc("POST /api/challenges/progress", app.challengeProgress)
	mux.HandleFunc("POST /api/prioritize", app.prioritizeTasks)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
	})

	return httpmw.Chain(c.Handler(mux),
		httpmw.WithRequestID,
		httpmw.WithRecover(app.Logger),
		httpmw.WithAccessLog(app.Logger),
	)
}
