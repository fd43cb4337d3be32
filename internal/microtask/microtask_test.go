package microtask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilt/internal/task"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func pendingAged(id string, age time.Duration) task.Task {
	return task.Task{
		ID:               id,
		Title:            "task " + id,
		Category:         task.CategoryWork,
		Status:           task.StatusPending,
		CreatedAt:        now.Add(-age),
		EstimatedMinutes: 30,
		PriorityScore:    0.5,
	}
}

func avoidedIDs(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestAvoided_Empty(t *testing.T) {
	assert.Empty(t, Avoided(nil, now))
}

func TestAvoided_WholeDayThreshold(t *testing.T) {
	tasks := []task.Task{
		pendingAged("young", 47*time.Hour),
		pendingAged("old", 48*time.Hour),
	}
	assert.Equal(t, []string{"old"}, avoidedIDs(Avoided(tasks, now)))
}

func TestAvoided_OnlyPending(t *testing.T) {
	started := pendingAged("started", 5*24*time.Hour)
	started.Status = task.StatusInProgress
	done := pendingAged("done", 5*24*time.Hour)
	done.Status = task.StatusCompleted
	doneAt := now.Add(-time.Hour)
	done.CompletedAt = &doneAt

	got := Avoided([]task.Task{started, done, pendingAged("stuck", 5*24*time.Hour)}, now)
	assert.Equal(t, []string{"stuck"}, avoidedIDs(got))
}

func TestAvoided_OldestFirstCappedAtThree(t *testing.T) {
	tasks := []task.Task{
		pendingAged("d2", 2*24*time.Hour),
		pendingAged("d6", 6*24*time.Hour),
		pendingAged("d3", 3*24*time.Hour),
		pendingAged("d9", 9*24*time.Hour),
	}

	got := Avoided(tasks, now)
	assert.Equal(t, []string{"d9", "d6", "d3"}, avoidedIDs(got))
}

func TestAvoided_SameDayTiesKeepInputOrder(t *testing.T) {
	// 50h and 60h are both 2 whole days old
	tasks := []task.Task{
		pendingAged("first", 50*time.Hour),
		pendingAged("second", 60*time.Hour),
	}
	assert.Equal(t, []string{"first", "second"}, avoidedIDs(Avoided(tasks, now)))
}

func TestSuggest(t *testing.T) {
	avoided := Avoided([]task.Task{
		pendingAged("a", 9*24*time.Hour),
		pendingAged("b", 6*24*time.Hour),
		pendingAged("c", 3*24*time.Hour),
	}, now)

	got := Suggest(avoided)
	require.Len(t, got, 3)

	assert.Equal(t, "Outline: task a", got[0].Title)
	assert.Equal(t, 5, got[0].EstimatedMinutes)
	assert.Equal(t, "Research: task b", got[1].Title)
	assert.Equal(t, 10, got[1].EstimatedMinutes)
	assert.Equal(t, "List 3 steps for: task c", got[2].Title)
	assert.Equal(t, 5, got[2].EstimatedMinutes)

	for _, s := range got {
		assert.Equal(t, task.CategoryOther, s.Category)
		assert.Contains(t, s.Description, "break the barrier for: "+s.ParentTaskTitle)
		assert.NotEmpty(t, s.ParentTaskID)
	}
}

func TestSuggest_Empty(t *testing.T) {
	assert.Empty(t, Suggest(nil))
}

func TestSuggest_Deterministic(t *testing.T) {
	avoided := Avoided([]task.Task{pendingAged("a", 4*24*time.Hour)}, now)
	assert.Equal(t, Suggest(avoided), Suggest(avoided))
}
