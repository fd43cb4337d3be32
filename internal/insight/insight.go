// Package insight derives short behavioral observations from the task
// history: peak productive hour, morning habits, duration predictions,
// avoidance and weekly momentum.
package insight

import (
	"fmt"
	"math"
	"time"

	"wilt/internal/task"
)

type Kind string

const (
	KindSuggestion Kind = "suggestion"
	KindPattern    Kind = "pattern"
	KindPrediction Kind = "prediction"
)

type Insight struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// MaxInsights caps one synthesis run. Candidates are generated in a fixed
// order, so truncation always drops the lower-value kinds first.
const MaxInsights = 4

const (
	morningStartHour = 6
	morningEndHour   = 12
	avoidanceAgeDays = 3
	momentumMinAvg   = 3.0
)

// Synthesize inspects the full task set at one instant and returns up to
// MaxInsights observations. Each candidate is independent; any whose
// precondition is unmet is simply skipped.
func Synthesize(tasks []task.Task, now time.Time) []Insight {
	var completed, pending []task.Task
	for _, t := range tasks {
		if t.IsCompleted() {
			if t.CompletedAt != nil {
				completed = append(completed, t)
			}
			continue
		}
		pending = append(pending, t)
	}

	out := make([]Insight, 0, MaxInsights)
	add := func(in *Insight) {
		if in != nil && len(out) < MaxInsights {
			out = append(out, *in)
		}
	}

	add(peakHours(completed, now))
	add(morningPattern(completed, pending, now))
	add(durationPrediction(completed, pending))
	add(avoidance(pending, now))
	add(momentum(completed, now))
	return out
}

// peakHours needs at least three completions. Ties between hour buckets
// keep the first hour encountered while scanning the completions.
func peakHours(completed []task.Task, now time.Time) *Insight {
	if len(completed) < 3 {
		return nil
	}

	counts := map[int]int{}
	var seen []int
	for _, t := range completed {
		h := t.CompletedAt.Hour()
		if _, ok := counts[h]; !ok {
			seen = append(seen, h)
		}
		counts[h]++
	}

	peak := seen[0]
	for _, h := range seen[1:] {
		if counts[h] > counts[peak] {
			peak = h
		}
	}

	msg := fmt.Sprintf("You're most productive around %s", clockLabel(peak))
	if diff := now.Hour() - peak; diff >= -1 && diff <= 1 {
		msg = fmt.Sprintf("It's your peak time! You complete most tasks around %s", clockLabel(peak))
	}
	return &Insight{ID: "peak-hours", Kind: KindPattern, Title: "Peak Productivity", Message: msg}
}

// morningPattern fires only during the morning window, and only when at
// least two tasks were completed in that window historically.
func morningPattern(completed, pending []task.Task, now time.Time) *Insight {
	if now.Hour() < morningStartHour || now.Hour() >= morningEndHour {
		return nil
	}

	var morning []task.Task
	for _, t := range completed {
		h := t.CompletedAt.Hour()
		if h >= morningStartHour && h < morningEndHour {
			morning = append(morning, t)
		}
	}
	if len(morning) < 2 {
		return nil
	}

	top := topCategory(morning)
	waiting := 0
	for _, t := range pending {
		if t.Category == top {
			waiting++
		}
	}
	return &Insight{
		ID:    "morning-pattern",
		Kind:  KindSuggestion,
		Title: "Morning Pattern",
		Message: fmt.Sprintf("You usually tackle %s tasks in the morning. %d waiting!",
			top, waiting),
	}
}

// durationPrediction averages the estimates of completed tasks sharing
// the first pending task's category; estimates default to 30 when unset.
func durationPrediction(completed, pending []task.Task) *Insight {
	if len(pending) == 0 || len(completed) < 2 {
		return nil
	}

	cat := pending[0].Category
	sum, n := 0, 0
	for _, t := range completed {
		if t.Category != cat {
			continue
		}
		est := t.EstimatedMinutes
		if est == 0 {
			est = task.DefaultEstimatedMinutes
		}
		sum += est
		n++
	}
	if n < 2 {
		return nil
	}

	avg := int(math.Round(float64(sum) / float64(n)))
	return &Insight{
		ID:    "duration-prediction",
		Kind:  KindPrediction,
		Title: "Time Prediction",
		Message: fmt.Sprintf("Similar %s tasks took you ~%d minutes on average",
			cat, avg),
	}
}

// avoidance looks at pending tasks stuck for three or more fractional
// days. An incumbent category is only displaced when strictly exceeded.
func avoidance(pending []task.Task, now time.Time) *Insight {
	var old []task.Task
	for _, t := range pending {
		if t.Status != task.StatusPending {
			continue
		}
		if now.Sub(t.CreatedAt).Minutes()/(60*24) >= avoidanceAgeDays {
			old = append(old, t)
		}
	}
	if len(old) < 2 {
		return nil
	}

	avoided := topCategory(old)
	return &Insight{
		ID:    "procrastination",
		Kind:  KindSuggestion,
		Title: "Avoidance Pattern",
		Message: fmt.Sprintf("You might be avoiding %s tasks. Try a 5-min micro-task to break the barrier!",
			avoided),
	}
}

// momentum reports the weekly completion rate once it clears three per
// day. The week starts on Sunday; the divisor is the weekday index.
func momentum(completed []task.Task, now time.Time) *Insight {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)

	count := 0
	for _, t := range completed {
		at := *t.CompletedAt
		if !at.Before(weekStart) && at.Before(weekEnd) {
			count++
		}
	}
	if count == 0 {
		return nil
	}

	days := int(now.Weekday())
	if days < 1 {
		days = 1
	}
	avg := float64(count) / float64(days)
	if avg < momentumMinAvg {
		return nil
	}
	return &Insight{
		ID:    "momentum",
		Kind:  KindPattern,
		Title: "Great Momentum!",
		Message: fmt.Sprintf("You're averaging %.1f tasks/day this week. Keep it up!",
			avg),
	}
}

// topCategory counts occurrences per category; ties keep the category
// discovered first.
func topCategory(tasks []task.Task) task.Category {
	counts := map[task.Category]int{}
	var seen []task.Category
	for _, t := range tasks {
		if _, ok := counts[t.Category]; !ok {
			seen = append(seen, t.Category)
		}
		counts[t.Category]++
	}

	top := seen[0]
	for _, c := range seen[1:] {
		if counts[c] > counts[top] {
			top = c
		}
	}
	return top
}

// clockLabel renders an hour-of-day like "9 AM".
func clockLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3 PM")
}
