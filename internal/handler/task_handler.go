package handler

import (
	"errors"
	"net/http"
	"time"

	"todoapi/internal/middleware"
	"todoapi/internal/model"
	"todoapi/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepository
}

func NewTaskHandler(taskRepo *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

type TaskRequest struct {
	Title                  string          `json:"title" binding:"required"`
	Description            string          `json:"description"`
	Priority               *model.Priority `json:"priority"`
	Tags                   string          `json:"tags"`
	DueDate                *time.Time      `json:"due_date"`
	NotificationTimeBefore *int            `json:"notification_time_before"`
}

type TaskCompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type TaskResponse struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id"`
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	Priority               string     `json:"priority"`
	Tags                   string     `json:"tags,omitempty"`
	DueDate                *time.Time `json:"due_date,omitempty"`
	Completed              bool       `json:"completed"`
	CompletedAt            *time.Time `json:"completed_at"`
	NotificationTimeBefore *int       `json:"notification_time_before,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:                     task.ID.String(),
		UserID:                 task.UserID.String(),
		Title:                  task.Title,
		Description:            task.Description,
		Priority:               string(task.Priority),
		Tags:                   task.Tags,
		DueDate:                task.DueDate,
		Completed:              task.Completed,
		CompletedAt:            task.CompletedAt,
		NotificationTimeBefore: task.NotificationTimeBefore,
		CreatedAt:              task.CreatedAt,
		UpdatedAt:              task.UpdatedAt,
	}
}

// currentUserID reads the authenticated user from the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

// verifyUserAccess checks that the user_id path segment matches the token
// subject. A mismatch is forbidden, not a silent 404: the caller is probing
// another user's namespace on purpose.
func verifyUserAccess(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, false
	}
	if c.Param("user_id") != userID.String() {
		c.JSON(http.StatusForbidden, gin.H{"error": "User ID in URL does not match authenticated user"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := verifyUserAccess(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task := &model.Task{
		UserID:                 userID,
		Title:                  req.Title,
		Description:            req.Description,
		Tags:                   req.Tags,
		DueDate:                req.DueDate,
		NotificationTimeBefore: req.NotificationTimeBefore,
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		if errors.Is(err, repository.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) GetAll(c *gin.Context) {
	userID, ok := verifyUserAccess(c)
	if !ok {
		return
	}

	tasks, err := h.taskRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := verifyUserAccess(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByIDAndOwner(c.Request.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := verifyUserAccess(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var upd repository.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.taskRepo.Update(c.Request.Context(), taskID, userID, &upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := verifyUserAccess(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID, userID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) UpdateCompletion(c *gin.Context) {
	userID, ok := verifyUserAccess(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req TaskCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.taskRepo.SetCompletion(c.Request.Context(), taskID, userID, *req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": task.Completed})
}
