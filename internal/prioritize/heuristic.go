package prioritize

import (
	"context"
	"time"

	"wilt/internal/task"
)

// Heuristic is the offline scorer. It mirrors the weighting the remote
// service is prompted with: deadline urgency 40%, category importance
// 30%, estimated effort 20%, status 10%.
type Heuristic struct {
	// Now is injected for determinism; defaults to time.Now.
	Now func() time.Time
}

const (
	weightDeadline = 0.4
	weightCategory = 0.3
	weightEffort   = 0.2
	weightStatus   = 0.1
)

// categoryRank orders the well-known categories work > study > health >
// personal > other. Unknown categories score like "other".
var categoryRank = map[task.Category]float64{
	task.CategoryWork:     1.0,
	task.CategoryStudy:    0.8,
	task.CategoryHealth:   0.6,
	task.CategoryPersonal: 0.4,
	task.CategoryOther:    0.2,
}

func (h Heuristic) Score(ctx context.Context, tasks []task.Task) (map[string]float64, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	scores := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		s := weightDeadline*deadlineUrgency(t, now) +
			weightCategory*categoryImportance(t.Category) +
			weightEffort*effortBalance(t.EstimatedMinutes) +
			weightStatus*statusBoost(t.Status)
		if s > 1 {
			s = 1
		}
		scores[t.ID] = s
	}
	return scores, nil
}

// deadlineUrgency is 1 for overdue work and falls off over a week; tasks
// without a deadline sit in the middle.
func deadlineUrgency(t task.Task, now time.Time) float64 {
	if t.Deadline == nil {
		return 0.5
	}
	until := t.Deadline.Sub(now)
	if until <= 0 {
		return 1
	}
	const horizon = 7 * 24 * time.Hour
	if until >= horizon {
		return 0
	}
	return 1 - float64(until)/float64(horizon)
}

func categoryImportance(c task.Category) float64 {
	if rank, ok := categoryRank[c]; ok {
		return rank
	}
	return categoryRank[task.CategoryOther]
}

// effortBalance favors short tasks so the board keeps moving; a quarter
// hour scores near 1, a four-hour block near 0.
func effortBalance(estimatedMinutes int) float64 {
	if estimatedMinutes <= 0 {
		estimatedMinutes = task.DefaultEstimatedMinutes
	}
	const ceiling = 240.0
	v := 1 - float64(estimatedMinutes)/ceiling
	if v < 0 {
		return 0
	}
	return v
}

func statusBoost(s task.Status) float64 {
	if s == task.StatusInProgress {
		return 1
	}
	return 0.5
}
