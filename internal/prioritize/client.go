package prioritize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wilt/internal/task"
)

// Client scores tasks through an OpenAI-compatible chat completions
// endpoint, forcing a tool call so the reply is machine-parseable.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	// HTTPClient is optional; the default has a request timeout.
	HTTPClient *http.Client

	// Now is injected for deterministic prompts in tests.
	Now func() time.Time
}

const systemPrompt = `You are an AI productivity assistant that helps prioritize tasks.
Analyze tasks based on:
1. Deadline urgency (40% weight) - closer deadlines = higher priority
2. Task importance based on category (30% weight) - work > study > health > personal > other
3. Estimated effort (20% weight) - balance workload
4. Current status (10% weight) - in_progress tasks get slight boost

Return a JSON object with task IDs mapped to priority scores (0.0 to 1.0).
Only return valid JSON, no explanations.`

// taskSummary is the trimmed view sent to the remote service.
type taskSummary struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (c *Client) Score(ctx context.Context, tasks []task.Task) (map[string]float64, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyBatch
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	summaries := make([]taskSummary, 0, len(tasks))
	for _, t := range tasks {
		summaries = append(summaries, taskSummary{
			ID:               t.ID,
			Title:            t.Title,
			Description:      t.Description,
			Deadline:         t.Deadline,
			EstimatedMinutes: t.EstimatedMinutes,
			Category:         string(t.Category),
			Status:           string(t.Status),
			CreatedAt:        t.CreatedAt,
		})
	}
	batch, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": fmt.Sprintf(
				"Analyze and prioritize these tasks:\n%s\n\nCurrent time: %s\n\nReturn format: {\"task_id\": priority_score, ...}",
				batch, now.UTC().Format(time.RFC3339))},
		},
		"tools": []map[string]any{{
			"type": "function",
			"function": map[string]any{
				"name":        "set_task_priorities",
				"description": "Set priority scores for tasks",
				"parameters": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"priorities": map[string]any{
							"type": "object",
							"additionalProperties": map[string]any{
								"type":    "number",
								"minimum": 0,
								"maximum": 1,
							},
							"description": "Object mapping task IDs to priority scores (0.0 to 1.0)",
						},
					},
					"required":             []string{"priorities"},
					"additionalProperties": false,
				},
			},
		}},
		"tool_choice": map[string]any{
			"type":     "function",
			"function": map[string]string{"name": "set_task_priorities"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring service returned %d: %s", res.StatusCode, truncate(body, 200))
	}

	scores, err := parseToolCall(body)
	if err != nil {
		return nil, err
	}
	if err := ValidateScores(tasks, scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func parseToolCall(body []byte) (map[string]float64, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				ToolCalls []struct {
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAIPayload, err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: no tool call in reply", ErrBadAIPayload)
	}

	var args struct {
		Priorities map[string]float64 `json:"priorities"`
	}
	raw := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAIPayload, err)
	}
	return args.Priorities, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
