package agent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapi/internal/agent"

	"github.com/stretchr/testify/assert"
)

// fakeTaskAPI serves a minimal in-memory rendition of the task endpoints.
func fakeTaskAPI(t *testing.T) (*httptest.Server, map[string]agent.TaskView) {
	tasks := map[string]agent.TaskView{}

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPost:
			var payload map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			title, _ := payload["title"].(string)
			if title == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "validation failed: title is required"}`))
				return
			}
			task := agent.TaskView{ID: "task-1", Title: title, Priority: "medium"}
			if p, ok := payload["priority"].(string); ok {
				task.Priority = p
			}
			tasks[task.ID] = task
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(task)
		case http.MethodGet:
			list := make([]agent.TaskView, 0, len(tasks))
			for _, task := range tasks {
				list = append(list, task)
			}
			json.NewEncoder(w).Encode(list)
		}
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/tasks/"):]
		if id == "task-1/complete" {
			task, ok := tasks["task-1"]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			task.Completed = true
			tasks["task-1"] = task
			json.NewEncoder(w).Encode(map[string]bool{"completed": true})
			return
		}

		task, ok := tasks[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Task not found"}`))
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(task)
		case http.MethodPut:
			var payload map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			if title, ok := payload["title"].(string); ok {
				task.Title = title
			}
			tasks[id] = task
			json.NewEncoder(w).Encode(task)
		case http.MethodDelete:
			delete(tasks, id)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	return httptest.NewServer(mux), tasks
}

func TestTaskAgent_AddTask(t *testing.T) {
	server, tasks := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")

	result := a.AddTask(context.Background(), "Buy milk", "", "high", "")

	assert.True(t, result.Success)
	assert.Contains(t, result.Message, `"Buy milk" has been added successfully`)
	assert.NotNil(t, result.Task)
	assert.Equal(t, "high", result.Task.Priority)
	assert.Len(t, tasks, 1)
}

func TestTaskAgent_AddTask_ValidationFailure(t *testing.T) {
	server, _ := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")

	result := a.AddTask(context.Background(), "", "", "", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Failed to add task")
}

func TestTaskAgent_ListTasks_Empty(t *testing.T) {
	server, _ := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")

	result := a.ListTasks(context.Background(), "all", "all")

	assert.True(t, result.Success)
	assert.Equal(t, "You don't have any tasks at the moment.", result.Message)
}

func TestTaskAgent_ListTasks_StatusFilter(t *testing.T) {
	server, _ := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")
	a.AddTask(context.Background(), "Buy milk", "", "", "")

	result := a.ListTasks(context.Background(), "pending", "all")
	assert.True(t, result.Success)
	assert.Len(t, result.Tasks, 1)
	assert.Contains(t, result.Message, "You have 1 task(s):")
	assert.Contains(t, result.Message, "- [pending] Buy milk (ID: task-1)")

	result = a.ListTasks(context.Background(), "completed", "all")
	assert.True(t, result.Success)
	assert.Empty(t, result.Tasks)
}

func TestTaskAgent_UpdateTask(t *testing.T) {
	server, tasks := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")
	a.AddTask(context.Background(), "Buy milk", "", "", "")

	result := a.UpdateTask(context.Background(), "task-1", "Buy oat milk", "", "", "")

	assert.True(t, result.Success)
	assert.Contains(t, result.Message, `"Buy oat milk" has been updated successfully`)
	assert.Equal(t, "Buy oat milk", tasks["task-1"].Title)
}

func TestTaskAgent_UpdateTask_NoFields(t *testing.T) {
	server, _ := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")

	result := a.UpdateTask(context.Background(), "task-1", "", "", "", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Nothing to update")
}

func TestTaskAgent_CompleteTask(t *testing.T) {
	server, tasks := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")
	a.AddTask(context.Background(), "Buy milk", "", "", "")

	result := a.CompleteTask(context.Background(), "task-1")

	assert.True(t, result.Success)
	assert.True(t, tasks["task-1"].Completed)
}

func TestTaskAgent_DeleteTask(t *testing.T) {
	server, tasks := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")
	a.AddTask(context.Background(), "Buy milk", "", "", "")

	result := a.DeleteTask(context.Background(), "task-1")

	assert.True(t, result.Success)
	assert.Contains(t, result.Message, `"Buy milk" has been deleted successfully`)
	assert.Empty(t, tasks)
}

func TestTaskAgent_DeleteTask_Missing(t *testing.T) {
	server, _ := fakeTaskAPI(t)
	defer server.Close()

	a := agent.NewTaskAgent(server.URL+"/tasks", "test-token")

	result := a.DeleteTask(context.Background(), "missing")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not found")
}

func TestTaskAgent_UpstreamUnreachable(t *testing.T) {
	// Point at a closed server: transport failures fold into the result
	server, _ := fakeTaskAPI(t)
	url := server.URL
	server.Close()

	a := agent.NewTaskAgent(url+"/tasks", "test-token")

	result := a.ListTasks(context.Background(), "all", "all")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Error listing tasks")
}
