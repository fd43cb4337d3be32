package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Category is an open string set; these are the well-known values.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

const (
	DefaultEstimatedMinutes = 30
	DefaultPriorityScore    = 0.5
)

var (
	ErrEmptyTitle     = errors.New("title is required")
	ErrBadEstimate    = errors.New("estimated_minutes must be positive")
	ErrBadPriority    = errors.New("priority_score must be within [0,1]")
	ErrMissingCreated = errors.New("created_at is not set")
	ErrUnknownStatus  = errors.New("unknown status")
)

// Task is a read-only snapshot of one todo item. The store is the sole
// writer of PriorityScore, Status and CompletedAt; the triage packages
// (decay, schedule, insight) never mutate a snapshot.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Category         Category   `json:"category"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	PriorityScore    float64    `json:"priority_score"`
}

func New(title, description string, now time.Time) Task {
	return Task{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      description,
		Category:         CategoryWork,
		Status:           StatusPending,
		CreatedAt:        now,
		EstimatedMinutes: DefaultEstimatedMinutes,
		PriorityScore:    DefaultPriorityScore,
	}
}

func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Complete marks the task done. CompletedAt is written exactly once per
// completion; completing an already completed task is a no-op.
func (t *Task) Complete(now time.Time) {
	if t.Status == StatusCompleted {
		return
	}
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// Reopen reverts a completed task to pending and clears CompletedAt.
func (t *Task) Reopen() {
	t.Status = StatusPending
	t.CompletedAt = nil
}

func (t Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, t.Status)
	}
	if t.CreatedAt.IsZero() {
		return ErrMissingCreated
	}
	if t.EstimatedMinutes <= 0 {
		return ErrBadEstimate
	}
	if t.PriorityScore < 0 || t.PriorityScore > 1 {
		return ErrBadPriority
	}
	return nil
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityFromScore buckets a [0,1] score into the three display tiers.
func PriorityFromScore(score float64) Priority {
	switch {
	case score >= 0.7:
		return PriorityHigh
	case score >= 0.4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High Priority"
	case PriorityMedium:
		return "Medium Priority"
	default:
		return "Low Priority"
	}
}
