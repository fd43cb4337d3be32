// Package stats computes the dashboard roll-up for a task set.
package stats

import (
	"math"
	"time"

	"wilt/internal/task"
)

// highPriorityScore is the score floor for the "urgent" counter.
const highPriorityScore = 0.7

type Summary struct {
	TotalTasks      int `json:"total_tasks"`
	CompletedTasks  int `json:"completed_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
	PendingTasks    int `json:"pending_tasks"`

	// CompletionRate is a whole percentage of tasks completed.
	CompletionRate int `json:"completion_rate"`

	// HoursRemaining is the estimated open work, rounded to one decimal.
	HoursRemaining float64 `json:"hours_remaining"`

	HighPriorityCount int `json:"high_priority_count"`
}

func Summarize(tasks []task.Task) Summary {
	s := Summary{TotalTasks: len(tasks)}

	minutesRemaining := 0
	for _, t := range tasks {
		switch t.Status {
		case task.StatusCompleted:
			s.CompletedTasks++
		case task.StatusInProgress:
			s.InProgressTasks++
		case task.StatusPending:
			s.PendingTasks++
		}
		if !t.IsCompleted() {
			minutesRemaining += t.EstimatedMinutes
			if t.PriorityScore >= highPriorityScore {
				s.HighPriorityCount++
			}
		}
	}

	if s.TotalTasks > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedTasks) / float64(s.TotalTasks) * 100))
	}
	s.HoursRemaining = math.Round(float64(minutesRemaining)/60*10) / 10
	return s
}

// DayCount is one bucket of the trailing completion series.
type DayCount struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

// DailyCompletions buckets completions per local calendar day over the
// trailing week, oldest day first and ending on now's day.
func DailyCompletions(tasks []task.Task, now time.Time) []DayCount {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	out := make([]DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		n := 0
		for _, t := range tasks {
			if t.CompletedAt == nil {
				continue
			}
			if !t.CompletedAt.Before(dayStart) && t.CompletedAt.Before(dayEnd) {
				n++
			}
		}
		out = append(out, DayCount{Day: dayStart.Format("Mon"), Completed: n})
	}
	return out
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category task.Category `json:"category"`
	Count    int           `json:"count"`
}

// CategoryDistribution counts every task per category, in the order
// categories are first encountered.
func CategoryDistribution(tasks []task.Task) []CategoryCount {
	index := map[task.Category]int{}
	var out []CategoryCount
	for _, t := range tasks {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryCount{Category: t.Category})
		}
		out[i].Count++
	}
	return out
}
