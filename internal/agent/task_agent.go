package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// TaskAgent translates natural-language-derived parameters into calls
// against the task REST API. Failures are never returned as errors: they
// are folded into a Result so the agent runtime can relay them verbatim.
type TaskAgent struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewTaskAgent builds an agent for the given tasks collection URL
// (".../{user_id}/tasks") and bearer token.
func NewTaskAgent(baseURL, token string) *TaskAgent {
	return &TaskAgent{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Result is the structured outcome handed back to the agent runtime.
type Result struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Task    *TaskView  `json:"task,omitempty"`
	Tasks   []TaskView `json:"tasks,omitempty"`
}

// TaskView is the subset of the task payload the agent reasons about.
type TaskView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	Completed   bool   `json:"completed"`
}

func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

func (a *TaskAgent) do(ctx context.Context, method, url string, body interface{}) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, respBody, nil
}

// AddTask creates a new task. Empty optional fields are omitted from the
// request so the API applies its own defaults.
func (a *TaskAgent) AddTask(ctx context.Context, title, description, priority, dueDate string) Result {
	payload := map[string]interface{}{"title": title}
	if description != "" {
		payload["description"] = description
	}
	if priority != "" {
		payload["priority"] = priority
	}
	if dueDate != "" {
		payload["due_date"] = dueDate
	}

	resp, body, err := a.do(ctx, http.MethodPost, a.baseURL, payload)
	if err != nil {
		return failure("Error adding task: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return failure("Failed to add task: %s", string(body))
	}

	var task TaskView
	if err := json.Unmarshal(body, &task); err != nil {
		return failure("Error adding task: %v", err)
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Task %q has been added successfully!", title),
		Task:    &task,
	}
}

// ListTasks lists the user's tasks, optionally filtered by completion
// status ("completed"/"pending") and priority. "all" or "" disables a filter.
func (a *TaskAgent) ListTasks(ctx context.Context, status, priority string) Result {
	resp, body, err := a.do(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return failure("Error listing tasks: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return failure("Failed to list tasks: %s", string(body))
	}

	var tasks []TaskView
	if err := json.Unmarshal(body, &tasks); err != nil {
		return failure("Error listing tasks: %v", err)
	}

	filtered := tasks[:0]
	for _, task := range tasks {
		if status == "completed" && !task.Completed {
			continue
		}
		if status == "pending" && task.Completed {
			continue
		}
		if priority != "" && priority != "all" && task.Priority != priority {
			continue
		}
		filtered = append(filtered, task)
	}

	if len(filtered) == 0 {
		return Result{Success: true, Message: "You don't have any tasks at the moment.", Tasks: []TaskView{}}
	}

	lines := make([]string, 0, len(filtered))
	for _, task := range filtered {
		state := "pending"
		if task.Completed {
			state = "completed"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s (ID: %s)", state, task.Title, task.ID))
	}

	message := fmt.Sprintf("You have %d task(s):", len(filtered))
	for _, line := range lines {
		message += "\n" + line
	}
	return Result{Success: true, Message: message, Tasks: filtered}
}

// UpdateTask applies the supplied non-empty fields to an existing task.
func (a *TaskAgent) UpdateTask(ctx context.Context, taskID, title, description, priority, dueDate string) Result {
	payload := map[string]interface{}{}
	if title != "" {
		payload["title"] = title
	}
	if description != "" {
		payload["description"] = description
	}
	if priority != "" {
		payload["priority"] = priority
	}
	if dueDate != "" {
		payload["due_date"] = dueDate
	}
	if len(payload) == 0 {
		return failure("Nothing to update: no fields were provided.")
	}

	resp, body, err := a.do(ctx, http.MethodPut, a.baseURL+"/"+taskID, payload)
	if err != nil {
		return failure("Error updating task: %v", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return failure("Task with ID %s not found.", taskID)
	}
	if resp.StatusCode != http.StatusOK {
		return failure("Failed to update task: %s", string(body))
	}

	var task TaskView
	if err := json.Unmarshal(body, &task); err != nil {
		return failure("Error updating task: %v", err)
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Task %q has been updated successfully!", task.Title),
		Task:    &task,
	}
}

// CompleteTask marks a task as completed.
func (a *TaskAgent) CompleteTask(ctx context.Context, taskID string) Result {
	payload := map[string]interface{}{"completed": true}

	resp, body, err := a.do(ctx, http.MethodPatch, a.baseURL+"/"+taskID+"/complete", payload)
	if err != nil {
		return failure("Error completing task: %v", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return failure("Task with ID %s not found.", taskID)
	}
	if resp.StatusCode != http.StatusOK {
		return failure("Failed to complete task: %s", string(body))
	}

	return Result{Success: true, Message: "Task has been completed successfully!"}
}

// DeleteTask removes a task, fetching its title first for the confirmation
// message.
func (a *TaskAgent) DeleteTask(ctx context.Context, taskID string) Result {
	resp, body, err := a.do(ctx, http.MethodGet, a.baseURL+"/"+taskID, nil)
	if err != nil {
		return failure("Error deleting task: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return failure("Task with ID %s not found.", taskID)
	}

	var task TaskView
	if err := json.Unmarshal(body, &task); err != nil {
		return failure("Error deleting task: %v", err)
	}

	resp, body, err = a.do(ctx, http.MethodDelete, a.baseURL+"/"+taskID, nil)
	if err != nil {
		return failure("Error deleting task: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return failure("Failed to delete task: %s", string(body))
	}

	return Result{Success: true, Message: fmt.Sprintf("Task %q has been deleted successfully!", task.Title)}
}
