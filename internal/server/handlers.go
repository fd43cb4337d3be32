package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wilt/internal/challenge"
	"wilt/internal/decay"
	"wilt/internal/insight"
	"wilt/internal/microtask"
	"wilt/internal/prioritize"
	"wilt/internal/schedule"
	"wilt/internal/stats"
	"wilt/internal/store"
	"wilt/internal/task"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// statusFor maps domain errors onto HTTP codes: validation failures are
// the client's fault, a missing task is 404, the rest is on us.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrBadDeadline),
		errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrBadEstimate),
		errors.Is(err, task.ErrBadPriority),
		errors.Is(err, task.ErrUnknownStatus),
		errors.Is(err, task.ErrMissingCreated),
		errors.Is(err, schedule.ErrBadEstimate),
		errors.Is(err, decay.ErrMissingCreated),
		errors.Is(err, decay.ErrClockSkew),
		errors.Is(err, decay.ErrBadDeadline):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ---- tasks ----

type createTaskRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Deadline         string   `json:"deadline"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	Category         string   `json:"category"`
	PriorityScore    *float64 `json:"priority_score"`
}

func (a *App) createTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskRequest
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Title == "" {
		writeErr(w, http.StatusBadRequest, "title is required")
		return
	}

	t := task.New(body.Title, body.Description, a.Clock.Now())
	if body.Category != "" {
		t.Category = task.Category(body.Category)
	}
	if body.EstimatedMinutes != 0 {
		t.EstimatedMinutes = body.EstimatedMinutes
	}
	if body.PriorityScore != nil {
		// pointer so an explicit zero survives; absent keeps the default
		t.PriorityScore = *body.PriorityScore
	}
	if body.Deadline != "" {
		dl, err := time.Parse(time.RFC3339, body.Deadline)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "deadline is not a valid RFC 3339 timestamp")
			return
		}
		t.Deadline = &dl
	}

	created, err := a.Tasks.Create(t)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *App) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *App) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := a.Tasks.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *App) patchTask(w http.ResponseWriter, r *http.Request) {
	var p store.Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := a.Tasks.Update(r.PathValue("id"), p)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *App) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := a.Tasks.Delete(r.PathValue("id")); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// ---- triage ----

type decayEntry struct {
	Task  task.Task  `json:"task"`
	Decay decay.Info `json:"decay"`
}

func (a *App) decayReport(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	now := a.Clock.Now()
	entries := make([]decayEntry, 0, len(tasks))
	for _, t := range tasks {
		info, err := decay.Classify(t, now)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		entries = append(entries, decayEntry{Task: t, Decay: info})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *App) daySchedule(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	pending := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted() {
			pending = append(pending, t)
		}
	}

	slots, err := a.Policy.Generate(pending, a.Clock.Now())
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slots":    slots,
		"overflow": a.Policy.Overflow(len(pending)),
	})
}

func (a *App) insightsReport(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insight.Synthesize(tasks, a.Clock.Now()))
}

type statsResponse struct {
	stats.Summary
	DailyCompletions []stats.DayCount      `json:"daily_completions"`
	Categories       []stats.CategoryCount `json:"category_distribution"`
}

func (a *App) statsReport(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Summary:          stats.Summarize(tasks),
		DailyCompletions: stats.DailyCompletions(tasks, a.Clock.Now()),
		Categories:       stats.CategoryDistribution(tasks),
	})
}

func (a *App) microtaskSuggestions(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	avoided := microtask.Avoided(tasks, a.Clock.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"avoided_count": len(avoided),
		"suggestions":   microtask.Suggest(avoided),
	})
}

func (a *App) challengeProgress(w http.ResponseWriter, r *http.Request) {
	var challenges []challenge.Challenge
	if err := decodeJSON(r, &challenges); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, challenge.ProgressAll(challenges, tasks, a.Clock.Now()))
}

// prioritizeTasks asks the scorer to re-rank everything still open. On
// any scoring failure the stored scores stay untouched and the caller
// gets the error; stale priorities beat corrupted ones.
func (a *App) prioritizeTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.Tasks.List()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	open := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted() {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"applied": false, "reason": "no open tasks"})
		return
	}

	scores, err := a.Scorer.Score(r.Context(), open)
	if err != nil {
		a.Logger.Printf("prioritize failed, keeping existing scores: %v", err)
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	if err := prioritize.ValidateScores(open, scores); err != nil {
		a.Logger.Printf("prioritize rejected, keeping existing scores: %v", err)
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	if err := a.Tasks.SetPriorities(scores); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": true, "scores": scores})
}
