package repository_test

import (
	"fmt"
	"testing"

	"todoapi/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory sqlite database with the full
// schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	assert.NoError(t, err)

	err = db.AutoMigrate(&model.User{}, &model.Task{}, &model.Conversation{}, &model.Message{})
	assert.NoError(t, err)

	return db
}

// createTestUser inserts a user row for foreign keys to point at.
func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	user := &model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: "hashed_password",
		Name:           "Test User",
		IsActive:       true,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}
