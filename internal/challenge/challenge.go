// Package challenge keeps score for daily focus challenges. Progress is
// recomputed from the task set; nothing is persisted here.
package challenge

import (
	"time"

	"wilt/internal/task"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

type Challenge struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	TargetCount  int        `json:"target_count"`
	CurrentCount int        `json:"current_count"`
	Status       Status     `json:"status"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CompletedToday counts tasks whose completion instant falls on now's
// local calendar day.
func CompletedToday(tasks []task.Task, now time.Time) int {
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	n := 0
	for _, t := range tasks {
		if t.IsCompleted() && t.CompletedAt != nil && !t.CompletedAt.Before(dayStart) {
			n++
		}
	}
	return n
}

// Progress re-scores one challenge against today's completions. The count
// clamps at the target; reaching the target completes the challenge and
// stamps CompletedAt. Completed and expired challenges are left alone.
func Progress(ch Challenge, tasks []task.Task, now time.Time) Challenge {
	if ch.Status != StatusActive {
		return ch
	}
	if ch.ExpiresAt != nil && ch.ExpiresAt.Before(now) {
		ch.Status = StatusExpired
		return ch
	}

	done := CompletedToday(tasks, now)
	if done > ch.TargetCount {
		done = ch.TargetCount
	}
	ch.CurrentCount = done
	if ch.CurrentCount >= ch.TargetCount && ch.TargetCount > 0 {
		ch.Status = StatusCompleted
		at := now
		ch.CompletedAt = &at
	}
	return ch
}

// ProgressAll maps Progress over a challenge list, preserving order.
func ProgressAll(challenges []Challenge, tasks []task.Task, now time.Time) []Challenge {
	out := make([]Challenge, len(challenges))
	for i, ch := range challenges {
		out[i] = Progress(ch, tasks, now)
	}
	return out
}
