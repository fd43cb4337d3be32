// Package store is the persistence collaborator. It is the sole writer
// of PriorityScore, Status and CompletedAt; the triage packages only ever
// see the snapshots it hands out.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"wilt/internal/task"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrBadDeadline = errors.New("deadline is not a valid RFC 3339 timestamp")
)

// Patch is a partial update.
// nil pointer => "no change"
// empty string for Deadline => clear (set to nil)
type Patch struct {
	Title            *string        `json:"title,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Category         *task.Category `json:"category,omitempty"`
	Status           *task.Status   `json:"status,omitempty"`
	Deadline         *string        `json:"deadline,omitempty"`
	EstimatedMinutes *int           `json:"estimated_minutes,omitempty"`
	PriorityScore    *float64       `json:"priority_score,omitempty"`
}

type Repo interface {
	Create(t task.Task) (task.Task, error)
	Get(id string) (task.Task, error)
	Update(id string, p Patch) (task.Task, error)
	Delete(id string) error

	// List returns snapshots sorted by priority score descending; ties
	// keep creation order, so the result feeds schedule.Generate as-is.
	List() ([]task.Task, error)

	// SetPriorities applies a validated score map in one pass. IDs not
	// present in the store are ignored; scores are not range-checked
	// here (see prioritize.ValidateScores).
	SetPriorities(scores map[string]float64) error
}

func applyPatch(t *task.Task, p Patch, now time.Time) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}

	if p.Deadline != nil {
		if *p.Deadline == "" {
			t.Deadline = nil
		} else {
			dl, err := time.Parse(time.RFC3339, *p.Deadline)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrBadDeadline, *p.Deadline)
			}
			t.Deadline = &dl
		}
	}

	if p.EstimatedMinutes != nil {
		if *p.EstimatedMinutes <= 0 {
			return task.ErrBadEstimate
		}
		t.EstimatedMinutes = *p.EstimatedMinutes
	}
	if p.PriorityScore != nil {
		if *p.PriorityScore < 0 || *p.PriorityScore > 1 {
			return task.ErrBadPriority
		}
		t.PriorityScore = *p.PriorityScore
	}

	if p.Status != nil {
		if !p.Status.Valid() {
			return fmt.Errorf("%w: %q", task.ErrUnknownStatus, *p.Status)
		}
		switch {
		case *p.Status == task.StatusCompleted:
			t.Complete(now)
		case *p.Status == task.StatusPending && t.Status == task.StatusCompleted:
			t.Reopen()
		default:
			t.Status = *p.Status
		}
	}

	return nil
}

// byPriority sorts snapshots for List: priority score descending, then
// creation time, then ID so equal rows stay deterministic.
func byPriority(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].PriorityScore != tasks[j].PriorityScore {
			return tasks[i].PriorityScore > tasks[j].PriorityScore
		}
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
