// Package microtask breaks procrastination: it spots the tasks a user
// keeps putting off and derives tiny starter tasks for them, small
// enough that beginning costs almost nothing.
package microtask

import (
	"fmt"
	"sort"
	"time"

	"wilt/internal/task"
)

const (
	// avoidedAgeDays is the whole-day age floor for "being avoided".
	// Deliberately lower than the avoidance insight's threshold: a
	// starter task helps before a pattern is worth calling out.
	avoidedAgeDays = 2

	maxAvoided = 3
)

// Suggestion is a derived starter task. Creating it goes through the
// normal task store; this package only proposes.
type Suggestion struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	Category         task.Category `json:"category"`
	ParentTaskID     string        `json:"parent_task_id"`
	ParentTaskTitle  string        `json:"parent_task_title"`
}

type template struct {
	prefix  string
	minutes int
}

var templates = []template{
	{"Outline", 5},
	{"Research", 10},
	{"List 3 steps for", 5},
	{"Set up workspace for", 3},
	{"Define goal for", 5},
}

// Avoided returns the up-to-three oldest pending tasks at least two
// whole days old, oldest first. Tasks already started don't count.
func Avoided(tasks []task.Task, now time.Time) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if t.Status != task.StatusPending {
			continue
		}
		if daysOld(t, now) >= avoidedAgeDays {
			out = append(out, t)
		}
	}

	// whole-day precision, so same-day ties keep input order
	sort.SliceStable(out, func(i, j int) bool {
		return daysOld(out[i], now) > daysOld(out[j], now)
	})
	if len(out) > maxAvoided {
		out = out[:maxAvoided]
	}
	return out
}

// Suggest derives one starter task per avoided task. Templates rotate
// by position so repeated calls stay deterministic.
func Suggest(avoided []task.Task) []Suggestion {
	out := make([]Suggestion, 0, len(avoided))
	for i, t := range avoided {
		tpl := templates[i%len(templates)]
		out = append(out, Suggestion{
			Title:            fmt.Sprintf("%s: %s", tpl.prefix, t.Title),
			Description:      "Quick start task to break the barrier for: " + t.Title,
			EstimatedMinutes: tpl.minutes,
			Category:         task.CategoryOther,
			ParentTaskID:     t.ID,
			ParentTaskTitle:  t.Title,
		})
	}
	return out
}

func daysOld(t task.Task, now time.Time) int {
	return int(now.Sub(t.CreatedAt).Hours() / 24)
}
