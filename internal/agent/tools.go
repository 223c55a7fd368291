package agent

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// InitTaskTools exposes the TaskAgent operations as invokable tools for the
// agent runtime. Each tool is a thin shim over the same method the direct
// callers use, so behavior cannot drift between the two paths.
func InitTaskTools(a *TaskAgent) []tool.BaseTool {
	return []tool.BaseTool{
		newAddTaskTool(a),
		newListTasksTool(a),
		newUpdateTaskTool(a),
		newCompleteTaskTool(a),
		newDeleteTaskTool(a),
	}
}

func resultJSON(r Result) (string, error) {
	out, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type addTaskParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

func newAddTaskTool(a *TaskAgent) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "add_task",
		Desc: "Create a new task from the user's request.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"title": {
				Desc:     "Task title",
				Type:     schema.String,
				Required: true,
			},
			"description": {
				Desc: "Optional task description",
				Type: schema.String,
			},
			"priority": {
				Desc: "Task priority: high, medium or low",
				Type: schema.String,
				Enum: []string{"high", "medium", "low"},
			},
			"due_date": {
				Desc: "Optional due date in RFC 3339 format, must be in the future",
				Type: schema.String,
			},
		}),
	}

	return utils.NewTool(info, func(ctx context.Context, params *addTaskParams) (string, error) {
		return resultJSON(a.AddTask(ctx, params.Title, params.Description, params.Priority, params.DueDate))
	})
}

type listTasksParams struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

func newListTasksTool(a *TaskAgent) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "list_tasks",
		Desc: "List the user's tasks, optionally filtered by status or priority.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"status": {
				Desc: "Filter by completion status: all, pending or completed",
				Type: schema.String,
				Enum: []string{"all", "pending", "completed"},
			},
			"priority": {
				Desc: "Filter by priority: all, high, medium or low",
				Type: schema.String,
				Enum: []string{"all", "high", "medium", "low"},
			},
		}),
	}

	return utils.NewTool(info, func(ctx context.Context, params *listTasksParams) (string, error) {
		return resultJSON(a.ListTasks(ctx, params.Status, params.Priority))
	})
}

type updateTaskParams struct {
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

func newUpdateTaskTool(a *TaskAgent) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "update_task",
		Desc: "Update fields of an existing task. Only provided fields change.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"task_id": {
				Desc:     "ID of the task to update",
				Type:     schema.String,
				Required: true,
			},
			"title": {
				Desc: "New title",
				Type: schema.String,
			},
			"description": {
				Desc: "New description",
				Type: schema.String,
			},
			"priority": {
				Desc: "New priority: high, medium or low",
				Type: schema.String,
				Enum: []string{"high", "medium", "low"},
			},
			"due_date": {
				Desc: "New due date in RFC 3339 format",
				Type: schema.String,
			},
		}),
	}

	return utils.NewTool(info, func(ctx context.Context, params *updateTaskParams) (string, error) {
		return resultJSON(a.UpdateTask(ctx, params.TaskID, params.Title, params.Description, params.Priority, params.DueDate))
	})
}

type completeTaskParams struct {
	TaskID string `json:"task_id"`
}

func newCompleteTaskTool(a *TaskAgent) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "complete_task",
		Desc: "Mark a task as completed.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"task_id": {
				Desc:     "ID of the task to complete",
				Type:     schema.String,
				Required: true,
			},
		}),
	}

	return utils.NewTool(info, func(ctx context.Context, params *completeTaskParams) (string, error) {
		return resultJSON(a.CompleteTask(ctx, params.TaskID))
	})
}

type deleteTaskParams struct {
	TaskID string `json:"task_id"`
}

func newDeleteTaskTool(a *TaskAgent) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: "delete_task",
		Desc: "Delete a task permanently.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"task_id": {
				Desc:     "ID of the task to delete",
				Type:     schema.String,
				Required: true,
			},
		}),
	}

	return utils.NewTool(info, func(ctx context.Context, params *deleteTaskParams) (string, error) {
		return resultJSON(a.DeleteTask(ctx, params.TaskID))
	})
}
