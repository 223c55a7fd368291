package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todoapi/internal/model"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 1000
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskUpdate carries a partial update. Absent fields are left untouched;
// nullable fields sent as explicit JSON null clear the stored value.
type TaskUpdate struct {
	Title                  *string         `json:"title"`
	Description            *string         `json:"description"`
	Priority               *model.Priority `json:"priority"`
	Tags                   *string         `json:"tags"`
	DueDate                *time.Time      `json:"due_date"`
	Completed              *bool           `json:"completed"`
	NotificationTimeBefore *int            `json:"notification_time_before"`

	present map[string]bool
}

// UnmarshalJSON records which keys appeared in the payload so that an
// explicit null can be told apart from an absent field.
func (u *TaskUpdate) UnmarshalJSON(data []byte) error {
	type plain TaskUpdate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*u = TaskUpdate(p)
	u.present = make(map[string]bool, len(keys))
	for k := range keys {
		u.present[k] = true
	}
	return nil
}

// has reports whether a field was supplied. For updates built in code
// rather than decoded from JSON, a non-nil pointer counts as supplied.
func (u *TaskUpdate) has(field string) bool {
	if u.present != nil {
		return u.present[field]
	}
	switch field {
	case "title":
		return u.Title != nil
	case "description":
		return u.Description != nil
	case "priority":
		return u.Priority != nil
	case "tags":
		return u.Tags != nil
	case "due_date":
		return u.DueDate != nil
	case "completed":
		return u.Completed != nil
	case "notification_time_before":
		return u.NotificationTimeBefore != nil
	}
	return false
}

func deref(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

func validateTitle(title string) error {
	if len(title) == 0 {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be %d characters or less", ErrValidation, maxTitleLen)
	}
	return nil
}

func validateTask(task *model.Task) error {
	if err := validateTitle(task.Title); err != nil {
		return err
	}
	if len(task.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be %d characters or less", ErrValidation, maxDescriptionLen)
	}
	if task.Priority != "" && !task.Priority.Valid() {
		return fmt.Errorf("%w: priority must be high, medium or low", ErrValidation)
	}
	if task.DueDate != nil && task.DueDate.Before(time.Now()) {
		return fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}
	if task.NotificationTimeBefore != nil && *task.NotificationTimeBefore < 0 {
		return fmt.Errorf("%w: notification time before must be non-negative", ErrValidation)
	}
	return nil
}

// validate checks only the fields present in the update. Title, priority
// and completed are not nullable: an explicit null on them is rejected.
func (u *TaskUpdate) validate() error {
	if u.has("title") {
		if u.Title == nil {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		if err := validateTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Description != nil && len(*u.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be %d characters or less", ErrValidation, maxDescriptionLen)
	}
	if u.has("priority") && (u.Priority == nil || !u.Priority.Valid()) {
		return fmt.Errorf("%w: priority must be high, medium or low", ErrValidation)
	}
	if u.has("completed") && u.Completed == nil {
		return fmt.Errorf("%w: completed must be true or false", ErrValidation)
	}
	if u.DueDate != nil && u.DueDate.Before(time.Now()) {
		return fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}
	if u.NotificationTimeBefore != nil && *u.NotificationTimeBefore < 0 {
		return fmt.Errorf("%w: notification time before must be non-negative", ErrValidation)
	}
	return nil
}

// Create validates and inserts a task owned by task.UserID.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := validateTask(task); err != nil {
		return err
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByUserID retrieves all tasks owned by a user.
func (r *TaskRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetByIDAndOwner retrieves a task only when it is owned by userID.
// An ownership mismatch is reported as ErrTaskNotFound.
func (r *TaskRepository) GetByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	if task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

// Update applies only the fields present in upd and refreshes UpdatedAt.
// A nullable field supplied as null is cleared. When the completed flag is
// among the changes, CompletedAt moves in lockstep.
func (r *TaskRepository) Update(ctx context.Context, id, userID uuid.UUID, upd *TaskUpdate) (*model.Task, error) {
	if err := upd.validate(); err != nil {
		return nil, err
	}

	task, err := r.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	changes := map[string]interface{}{"updated_at": now}
	if upd.has("title") {
		changes["title"] = *upd.Title
	}
	if upd.has("description") {
		changes["description"] = deref(upd.Description, "")
	}
	if upd.has("priority") {
		changes["priority"] = *upd.Priority
	}
	if upd.has("tags") {
		changes["tags"] = deref(upd.Tags, "")
	}
	if upd.has("due_date") {
		if upd.DueDate != nil {
			changes["due_date"] = *upd.DueDate
		} else {
			changes["due_date"] = nil
		}
	}
	if upd.has("notification_time_before") {
		if upd.NotificationTimeBefore != nil {
			changes["notification_time_before"] = *upd.NotificationTimeBefore
		} else {
			changes["notification_time_before"] = nil
		}
	}
	if upd.has("completed") && *upd.Completed != task.Completed {
		changes["completed"] = *upd.Completed
		if *upd.Completed {
			changes["completed_at"] = now
		} else {
			changes["completed_at"] = nil
		}
	}

	if err := r.db.WithContext(ctx).Model(task).Updates(changes).Error; err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, userID)
}

// Delete removes a task owned by userID.
func (r *TaskRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SetCompletion flips the completed flag and keeps CompletedAt in lockstep:
// set when the flag becomes true, cleared when it becomes false.
func (r *TaskRepository) SetCompletion(ctx context.Context, id, userID uuid.UUID, completed bool) (*model.Task, error) {
	task, err := r.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	changes := map[string]interface{}{
		"completed":  completed,
		"updated_at": now,
	}
	if completed {
		changes["completed_at"] = now
	} else {
		changes["completed_at"] = nil
	}

	if err := r.db.WithContext(ctx).Model(task).Updates(changes).Error; err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, userID)
}
