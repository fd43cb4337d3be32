package prioritize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilt/internal/task"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func batchTask(id string, cat task.Category, minutes int) task.Task {
	return task.Task{
		ID:               id,
		Title:            "task " + id,
		Category:         cat,
		Status:           task.StatusPending,
		CreatedAt:        now.Add(-time.Hour),
		EstimatedMinutes: minutes,
		PriorityScore:    0.5,
	}
}

func TestValidateScores(t *testing.T) {
	tasks := []task.Task{batchTask("a", task.CategoryWork, 30)}

	assert.ErrorIs(t, ValidateScores(tasks, nil), ErrNoScores)
	assert.ErrorIs(t, ValidateScores(tasks, map[string]float64{}), ErrNoScores)
	assert.ErrorIs(t, ValidateScores(tasks, map[string]float64{"ghost": 0.5}), ErrUnknownTask)
	assert.ErrorIs(t, ValidateScores(tasks, map[string]float64{"a": 1.2}), ErrScoreRange)
	assert.ErrorIs(t, ValidateScores(tasks, map[string]float64{"a": -0.1}), ErrScoreRange)
	assert.NoError(t, ValidateScores(tasks, map[string]float64{"a": 0}))
	assert.NoError(t, ValidateScores(tasks, map[string]float64{"a": 1}))
}

func TestHeuristic_EmptyBatch(t *testing.T) {
	h := Heuristic{Now: func() time.Time { return now }}
	_, err := h.Score(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestHeuristic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := Heuristic{Now: func() time.Time { return now }}
	_, err := h.Score(ctx, []task.Task{batchTask("a", task.CategoryWork, 30)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeuristic_Weights(t *testing.T) {
	h := Heuristic{Now: func() time.Time { return now }}

	// No deadline (0.5), work (1.0), 30 min (0.875), pending (0.5):
	// 0.4*0.5 + 0.3*1.0 + 0.2*0.875 + 0.1*0.5 = 0.725
	plain := batchTask("plain", task.CategoryWork, 30)

	overdue := batchTask("overdue", task.CategoryWork, 15)
	dl := now.Add(-time.Hour)
	overdue.Deadline = &dl
	overdue.Status = task.StatusInProgress

	scores, err := h.Score(context.Background(), []task.Task{plain, overdue})
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.InDelta(t, 0.725, scores["plain"], 1e-9)
	// 0.4*1 + 0.3*1 + 0.2*0.9375 + 0.1*1 = 0.9875
	assert.InDelta(t, 0.9875, scores["overdue"], 1e-9)
}

func TestHeuristic_DeadlineFalloff(t *testing.T) {
	h := Heuristic{Now: func() time.Time { return now }}

	near := batchTask("near", task.CategoryOther, 30)
	far := batchTask("far", task.CategoryOther, 30)
	none := batchTask("none", task.CategoryOther, 30)
	nearDL := now.Add(24 * time.Hour)
	farDL := now.Add(14 * 24 * time.Hour)
	near.Deadline = &nearDL
	far.Deadline = &farDL

	scores, err := h.Score(context.Background(), []task.Task{near, far, none})
	require.NoError(t, err)
	assert.Greater(t, scores["near"], scores["none"])
	assert.Greater(t, scores["none"], scores["far"], "a far-out deadline ranks below no deadline")
}

func TestHeuristic_UnknownCategoryScoresLikeOther(t *testing.T) {
	h := Heuristic{Now: func() time.Time { return now }}

	odd := batchTask("odd", task.Category("gardening"), 30)
	other := batchTask("other", task.CategoryOther, 30)

	scores, err := h.Score(context.Background(), []task.Task{odd, other})
	require.NoError(t, err)
	assert.Equal(t, scores["other"], scores["odd"])
}

func TestHeuristic_ScoresStayInRange(t *testing.T) {
	h := Heuristic{Now: func() time.Time { return now }}

	var tasks []task.Task
	cats := []task.Category{task.CategoryWork, task.CategoryStudy,
		task.CategoryHealth, task.CategoryPersonal, task.CategoryOther}
	for i, cat := range cats {
		tk := batchTask(fmt.Sprintf("t%d", i), cat, 15+i*120)
		if i%2 == 0 {
			dl := now.Add(time.Duration(i-2) * 24 * time.Hour)
			tk.Deadline = &dl
		}
		tasks = append(tasks, tk)
	}

	scores, err := h.Score(context.Background(), tasks)
	require.NoError(t, err)
	for id, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0, id)
		assert.LessOrEqual(t, s, 1.0, id)
	}
}

func toolCallReply(t *testing.T, priorities map[string]float64) string {
	t.Helper()
	args, err := json.Marshal(map[string]any{"priorities": priorities})
	require.NoError(t, err)
	reply := map[string]any{
		"choices": []map[string]any{{
			"message": map[string]any{
				"tool_calls": []map[string]any{{
					"function": map[string]any{
						"name":      "set_task_priorities",
						"arguments": string(args),
					},
				}},
			},
		}},
	}
	out, err := json.Marshal(reply)
	require.NoError(t, err)
	return string(out)
}

func TestClient_Score(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, toolCallReply(t, map[string]float64{"a": 0.9, "b": 0.2}))
	}))
	defer srv.Close()

	c := &Client{
		BaseURL: srv.URL,
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		Now:     func() time.Time { return now },
	}
	tasks := []task.Task{
		batchTask("a", task.CategoryWork, 30),
		batchTask("b", task.CategoryOther, 30),
	}

	scores, err := c.Score(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.9, "b": 0.2}, scores)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "gpt-4o-mini", gotReq["model"])
	assert.NotNil(t, gotReq["tool_choice"], "the tool call must be forced")
}

func TestClient_EmptyBatch(t *testing.T) {
	c := &Client{BaseURL: "http://unused", APIKey: "x", Model: "m"}
	_, err := c.Score(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "x", Model: "m"}
	_, err := c.Score(context.Background(), []task.Task{batchTask("a", task.CategoryWork, 30)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_MalformedReplies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "oops"},
		{"no choices", `{"choices":[]}`},
		{"no tool call", `{"choices":[{"message":{"tool_calls":[]}}]}`},
		{"bad arguments", `{"choices":[{"message":{"tool_calls":[{"function":{"name":"set_task_priorities","arguments":"{"}}]}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			c := &Client{BaseURL: srv.URL, APIKey: "x", Model: "m"}
			_, err := c.Score(context.Background(), []task.Task{batchTask("a", task.CategoryWork, 30)})
			assert.ErrorIs(t, err, ErrBadAIPayload)
		})
	}
}

func TestClient_RejectsBadScores(t *testing.T) {
	cases := []struct {
		name       string
		priorities map[string]float64
		want       error
	}{
		{"unknown id", map[string]float64{"ghost": 0.5}, ErrUnknownTask},
		{"out of range", map[string]float64{"a": 1.5}, ErrScoreRange},
		{"empty map", map[string]float64{}, ErrNoScores},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, toolCallReply(t, tc.priorities))
			}))
			defer srv.Close()

			c := &Client{BaseURL: srv.URL, APIKey: "x", Model: "m"}
			_, err := c.Score(context.Background(), []task.Task{batchTask("a", task.CategoryWork, 30)})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
