// Package decay classifies how urgent an unfinished task has become.
// Tasks visually "age", creating pressure without reminders. The level is
// a derived view recomputed on every call; it is never stored.
package decay

import (
	"errors"
	"fmt"
	"time"

	"wilt/internal/task"
)

type Level int

const (
	Fresh Level = iota
	Aging
	Stale
	Critical
	Emergency
)

func (l Level) String() string {
	switch l {
	case Fresh:
		return "fresh"
	case Aging:
		return "aging"
	case Stale:
		return "stale"
	case Critical:
		return "critical"
	case Emergency:
		return "emergency"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Info describes the decay state of a single task at one instant.
// Style is a presentation hint carried through to the UI untouched.
type Info struct {
	Level        Level   `json:"level"`
	HoursOld     int     `json:"hours_old"`
	DaysOld      int     `json:"days_old"`
	UrgencyScore float64 `json:"urgency_score"`
	Message      string  `json:"message"`
	Style        string  `json:"style"`
}

var (
	ErrMissingCreated = errors.New("task has no created_at")
	ErrClockSkew      = errors.New("task created_at is after now")
	ErrBadDeadline    = errors.New("task deadline is invalid")
)

// Classify is deterministic given the task and now. Rules fire in strict
// order: completed wins, then the deadline ladder, then the age ladder.
func Classify(t task.Task, now time.Time) (Info, error) {
	if t.CreatedAt.IsZero() {
		return Info{}, fmt.Errorf("task %s: %w", t.ID, ErrMissingCreated)
	}
	if t.CreatedAt.After(now) {
		return Info{}, fmt.Errorf("task %s: %w", t.ID, ErrClockSkew)
	}
	if t.Deadline != nil && t.Deadline.IsZero() {
		return Info{}, fmt.Errorf("task %s: %w", t.ID, ErrBadDeadline)
	}

	hoursOld := int(now.Sub(t.CreatedAt).Hours())
	daysOld := hoursOld / 24

	if t.IsCompleted() {
		return Info{
			Level:        Fresh,
			HoursOld:     hoursOld,
			DaysOld:      daysOld,
			UrgencyScore: 0,
			Message:      "Completed!",
			Style:        "opacity-60",
		}, nil
	}

	if t.Deadline != nil {
		until := t.Deadline.Sub(now)
		switch {
		case until < 0:
			return info(Emergency, hoursOld, daysOld, 1.0,
				"Overdue! This task needs immediate attention"), nil
		case until <= 2*time.Hour:
			return info(Emergency, hoursOld, daysOld, 0.95,
				"Due very soon! Focus on this now"), nil
		case until <= 6*time.Hour:
			return info(Critical, hoursOld, daysOld, 0.8,
				"Due in a few hours"), nil
		case until <= 24*time.Hour:
			return info(Stale, hoursOld, daysOld, 0.6,
				"Due today"), nil
		}
		// deadline more than a day out: fall through to age rules
	}

	switch {
	case daysOld >= 7:
		return info(Emergency, hoursOld, daysOld, 0.9,
			fmt.Sprintf("%d days old - this task is withering away!", daysOld)), nil
	case daysOld >= 4:
		return info(Critical, hoursOld, daysOld, 0.7,
			fmt.Sprintf("%d days old - losing freshness", daysOld)), nil
	case daysOld >= 2:
		return info(Stale, hoursOld, daysOld, 0.5,
			fmt.Sprintf("%d days old - starting to age", daysOld)), nil
	case hoursOld >= 24:
		return info(Aging, hoursOld, daysOld, 0.3, "Created yesterday"), nil
	}
	return info(Fresh, hoursOld, daysOld, 0.1, "Fresh task"), nil
}

func info(level Level, hoursOld, daysOld int, urgency float64, msg string) Info {
	return Info{
		Level:        level,
		HoursOld:     hoursOld,
		DaysOld:      daysOld,
		UrgencyScore: urgency,
		Message:      msg,
		Style:        styleFor(level),
	}
}

func styleFor(l Level) string {
	return "decay-" + l.String()
}
