package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilt/internal/task"
)

func statusTask(st task.Status, minutes int, score float64) task.Task {
	t := task.Task{
		ID:               "t-" + string(st),
		Title:            "x",
		Category:         task.CategoryWork,
		Status:           st,
		CreatedAt:        time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EstimatedMinutes: minutes,
		PriorityScore:    score,
	}
	if st == task.StatusCompleted {
		done := t.CreatedAt.Add(time.Hour)
		t.CompletedAt = &done
	}
	return t
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestSummarize(t *testing.T) {
	tasks := []task.Task{
		statusTask(task.StatusCompleted, 60, 0.9),
		statusTask(task.StatusCompleted, 30, 0.2),
		statusTask(task.StatusInProgress, 45, 0.7),
		statusTask(task.StatusPending, 30, 0.8),
		statusTask(task.StatusPending, 20, 0.3),
	}

	s := Summarize(tasks)
	assert.Equal(t, 5, s.TotalTasks)
	assert.Equal(t, 2, s.CompletedTasks)
	assert.Equal(t, 1, s.InProgressTasks)
	assert.Equal(t, 2, s.PendingTasks)
	assert.Equal(t, 40, s.CompletionRate)
	// 45+30+20 open minutes; completed estimates don't count
	assert.Equal(t, 1.6, s.HoursRemaining)
	// 0.7 and 0.8 qualify; the completed 0.9 does not
	assert.Equal(t, 2, s.HighPriorityCount)
}

func TestSummarize_RoundsCompletionRate(t *testing.T) {
	tasks := []task.Task{
		statusTask(task.StatusCompleted, 30, 0.5),
		statusTask(task.StatusPending, 30, 0.5),
		statusTask(task.StatusPending, 30, 0.5),
	}
	// 1/3 rounds to 33
	assert.Equal(t, 33, Summarize(tasks).CompletionRate)

	tasks = append(tasks, statusTask(task.StatusCompleted, 30, 0.5))
	// 2/4 is exactly 50
	assert.Equal(t, 50, Summarize(tasks).CompletionRate)
}

func TestSummarize_HighPriorityBoundary(t *testing.T) {
	tasks := []task.Task{
		statusTask(task.StatusPending, 30, 0.7),
		statusTask(task.StatusPending, 30, 0.69),
	}
	assert.Equal(t, 1, Summarize(tasks).HighPriorityCount)
}

func TestDailyCompletions(t *testing.T) {
	// Tuesday noon; the window runs Wed..Tue
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	doneAt := func(at time.Time) task.Task {
		t := statusTask(task.StatusCompleted, 30, 0.5)
		t.CompletedAt = &at
		return t
	}
	tasks := []task.Task{
		doneAt(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),   // today
		doneAt(time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)),  // today
		doneAt(time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)),    // oldest bucket
		doneAt(time.Date(2026, 3, 3, 23, 59, 0, 0, time.UTC)),  // before the window
		doneAt(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)),   // after the window
		statusTask(task.StatusPending, 30, 0.5),                // no completion stamp
	}

	got := DailyCompletions(tasks, now)
	require.Len(t, got, 7)

	assert.Equal(t, DayCount{Day: "Wed", Completed: 1}, got[0])
	assert.Equal(t, DayCount{Day: "Tue", Completed: 2}, got[6])

	total := 0
	for _, d := range got {
		total += d.Completed
	}
	assert.Equal(t, 3, total, "out-of-window completions are excluded")
}

func TestCategoryDistribution(t *testing.T) {
	mk := func(cat task.Category) task.Task {
		t := statusTask(task.StatusPending, 30, 0.5)
		t.Category = cat
		return t
	}
	tasks := []task.Task{
		mk(task.CategoryStudy),
		mk(task.CategoryWork),
		mk(task.CategoryStudy),
		mk(task.CategoryHealth),
	}

	got := CategoryDistribution(tasks)
	assert.Equal(t, []CategoryCount{
		{Category: task.CategoryStudy, Count: 2},
		{Category: task.CategoryWork, Count: 1},
		{Category: task.CategoryHealth, Count: 1},
	}, got, "categories keep discovery order")

	assert.Empty(t, CategoryDistribution(nil))
}
