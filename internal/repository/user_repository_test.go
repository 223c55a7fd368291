package repository_test

import (
	"context"
	"testing"
	"time"

	"todoapi/internal/model"
	"todoapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	email := "test@example.com"
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}).
			AddRow(userID.String(), email, "hashed_password", "Test User", true, now, now))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "Test User", user.Name)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), "nonexistent@example.com")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}))

	// Act
	user, err := userRepo.GetByID(context.Background(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: "hashed_password",
		Name:           "Test User",
		IsActive:       true,
	}

	// Act
	err := userRepo.Create(context.Background(), user)

	// Assert
	assert.NoError(t, err)

	found, err := userRepo.FindByEmail(context.Background(), "test@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	first := &model.User{ID: uuid.New(), Email: "dup@example.com", HashedPassword: "h", Name: "First"}
	second := &model.User{ID: uuid.New(), Email: "dup@example.com", HashedPassword: "h", Name: "Second"}

	// Act
	assert.NoError(t, userRepo.Create(context.Background(), first))
	err := userRepo.Create(context.Background(), second)

	// Assert: the unique index backs the handler's pre-check
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}
