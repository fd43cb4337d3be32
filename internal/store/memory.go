package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"wilt/internal/task"
)

// MemoryRepo keeps tasks in memory (dev/test use).
type MemoryRepo struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks: map[string]task.Task{},
		now:   time.Now,
	}
}

func (r *MemoryRepo) Create(t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.now()
	}
	normalize(&t)
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}

	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Get(id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Update(id string, p Patch) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, ErrNotFound
	}
	if err := applyPatch(&t, p, r.now()); err != nil {
		return task.Task{}, err
	}

	r.tasks[id] = t
	return t, nil
}

func (r *MemoryRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepo) List() ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	byPriority(out)
	return out, nil
}

func (r *MemoryRepo) SetPriorities(scores map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, score := range scores {
		t, ok := r.tasks[id]
		if !ok {
			continue
		}
		t.PriorityScore = score
		r.tasks[id] = t
	}
	return nil
}

// normalize fills creation defaults on fields the caller left zero.
// PriorityScore is left alone: zero is a legal score, and the 0.5
// default already comes from task.New.
func normalize(t *task.Task) {
	if t.Category == "" {
		t.Category = task.CategoryWork
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.EstimatedMinutes == 0 {
		t.EstimatedMinutes = task.DefaultEstimatedMinutes
	}
}
