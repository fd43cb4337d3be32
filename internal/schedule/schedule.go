// Package schedule turns a priority-ordered task list into a same-day
// sequence of time blocks with breaks between long tasks.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"wilt/internal/task"
)

// Policy holds the scheduling constants. These are tunable policy, not
// derived values; Default matches the stock workday.
type Policy struct {
	DayStartHour    int `json:"day_start_hour" yaml:"day_start_hour"`
	DayEndHour      int `json:"day_end_hour" yaml:"day_end_hour"`
	BreakMinutes    int `json:"break_minutes" yaml:"break_minutes"`
	BufferMinutes   int `json:"buffer_minutes" yaml:"buffer_minutes"`
	LongTaskMinutes int `json:"long_task_minutes" yaml:"long_task_minutes"`
	MaxSlots        int `json:"max_slots" yaml:"max_slots"`
}

func Default() Policy {
	return Policy{
		DayStartHour:    9,
		DayEndHour:      18,
		BreakMinutes:    15,
		BufferMinutes:   5,
		LongTaskMinutes: 60,
		MaxSlots:        6,
	}
}

// Slot is one contiguous block of the simulated workday, assigned either
// to a task or to a break.
type Slot struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Task      *task.Task `json:"task,omitempty"`
	IsBreak   bool       `json:"is_break"`
}

var (
	ErrBadEstimate = errors.New("estimated_minutes must be positive")
	ErrBadPolicy   = errors.New("invalid schedule policy")
)

// Generate builds the day plan with the default policy.
func Generate(tasks []task.Task, now time.Time) ([]Slot, error) {
	return Default().Generate(tasks, now)
}

// Generate walks the task list once, greedily packing the window from
// DayStartHour to DayEndHour of now's local day. The caller supplies only
// non-completed tasks, already sorted by priority descending; ties keep
// input order and the generator never re-sorts. A task crossing the day
// boundary is clipped, not dropped. At most MaxSlots slots are returned.
func (p Policy) Generate(tasks []task.Task, now time.Time) ([]Slot, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	y, m, d := now.Date()
	cursor := time.Date(y, m, d, p.DayStartHour, 0, 0, 0, now.Location())
	dayEnd := time.Date(y, m, d, p.DayEndHour, 0, 0, 0, now.Location())

	slots := make([]Slot, 0, p.MaxSlots)
	for i := range tasks {
		t := tasks[i]
		if t.EstimatedMinutes <= 0 {
			return nil, fmt.Errorf("task %s: %w", t.ID, ErrBadEstimate)
		}
		if !cursor.Before(dayEnd) {
			break
		}

		taskEnd := cursor.Add(time.Duration(t.EstimatedMinutes) * time.Minute)
		end := taskEnd
		if end.After(dayEnd) {
			end = dayEnd
		}
		slots = append(slots, Slot{StartTime: cursor, EndTime: end, Task: &tasks[i]})
		cursor = taskEnd

		if t.EstimatedMinutes >= p.LongTaskMinutes && taskEnd.Before(dayEnd) {
			breakEnd := taskEnd.Add(time.Duration(p.BreakMinutes) * time.Minute)
			slots = append(slots, Slot{StartTime: taskEnd, EndTime: breakEnd, IsBreak: true})
			cursor = breakEnd
		}

		cursor = cursor.Add(time.Duration(p.BufferMinutes) * time.Minute)
	}

	if len(slots) > p.MaxSlots {
		slots = slots[:p.MaxSlots]
	}
	return slots, nil
}

// Overflow approximates how many tasks did not fit on the board, for the
// caller's "+N more" affordance. It is not an exact count of unscheduled
// tasks since returned slots include breaks.
func (p Policy) Overflow(nTasks int) int {
	if nTasks <= p.MaxSlots {
		return 0
	}
	return nTasks - p.MaxSlots
}

func (p Policy) validate() error {
	if p.DayStartHour < 0 || p.DayEndHour > 24 || p.DayStartHour >= p.DayEndHour {
		return fmt.Errorf("%w: day window %d..%d", ErrBadPolicy, p.DayStartHour, p.DayEndHour)
	}
	if p.BreakMinutes < 0 || p.BufferMinutes < 0 || p.LongTaskMinutes <= 0 || p.MaxSlots <= 0 {
		return ErrBadPolicy
	}
	return nil
}
