package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"wilt/internal/task"
)

type fileState struct {
	Tasks map[string]task.Task `json:"tasks"`
}

// FileRepo is the persistent task repository: one JSON state file under
// the data directory, rewritten after every mutation.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
	now  func() time.Time
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "tasks.json"),
		s:    fileState{Tasks: map[string]task.Task{}},
		now:  time.Now,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Tasks == nil {
		loaded.Tasks = map[string]task.Task{}
	}
	r.s = loaded
	return nil
}

// save writes to a sibling temp file first so a crash mid-write cannot
// truncate the state.
func (r *FileRepo) save() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *FileRepo) Create(t task.Task) (task.Task, error) {
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

	r.s.Tasks[t.ID] = t
	if err := r.save(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (r *FileRepo) Get(id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.s.Tasks[id]
	if !ok {
		return task.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *FileRepo) Update(id string, p Patch) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.s.Tasks[id]
	if !ok {
		return task.Task{}, ErrNotFound
	}
	if err := applyPatch(&t, p, r.now()); err != nil {
		return task.Task{}, err
	}

	r.s.Tasks[id] = t
	if err := r.save(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (r *FileRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.Tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.Tasks, id)
	return r.save()
}

func (r *FileRepo) List() ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.s.Tasks))
	for _, t := range r.s.Tasks {
		out = append(out, t)
	}
	byPriority(out)
	return out, nil
}

func (r *FileRepo) SetPriorities(scores map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for id, score := range scores {
		t, ok := r.s.Tasks[id]
		if !ok {
			continue
		}
		t.PriorityScore = score
		r.s.Tasks[id] = t
		changed = true
	}
	if !changed {
		return nil
	}
	return r.save()
}
