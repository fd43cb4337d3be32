// Package prioritize re-ranks tasks. Scores come either from a remote
// OpenAI-compatible service or from the local heuristic fallback; callers
// keep their existing priority_score values whenever scoring fails.
package prioritize

import (
	"context"
	"errors"
	"fmt"

	"wilt/internal/task"
)

// Scorer maps a task batch to priority scores in [0,1], keyed by task ID.
type Scorer interface {
	Score(ctx context.Context, tasks []task.Task) (map[string]float64, error)
}

var (
	ErrNoScores     = errors.New("scorer returned no scores")
	ErrUnknownTask  = errors.New("score for unknown task id")
	ErrScoreRange   = errors.New("score outside [0,1]")
	ErrEmptyBatch   = errors.New("no tasks to score")
	ErrBadAIPayload = errors.New("malformed scoring response")
)

// ValidateScores rejects responses referencing unknown tasks or carrying
// out-of-range values. It never clamps; a bad batch is discarded whole.
func ValidateScores(tasks []task.Task, scores map[string]float64) error {
	if len(scores) == 0 {
		return ErrNoScores
	}
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	for id, score := range scores {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownTask, id)
		}
		if score < 0 || score > 1 {
			return fmt.Errorf("%w: %s=%v", ErrScoreRange, id, score)
		}
	}
	return nil
}
