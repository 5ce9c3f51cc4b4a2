package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteUserRepository(t *testing.T) *PostgresUserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewPostgresUserRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func TestPostgresUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteUserRepository(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	alice := models.NewUser("uid-a", "alice@example.com", "Alice", "https://img/a.png", now)
	alice.PasswordHash = "hash"
	alice.Skills = []string{"go", "sql"}
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, models.NewUser("uid-b", "bob@example.com", "Bob", "", now)))

	err := repo.CreateUser(ctx, models.NewUser("uid-a", "other@example.com", "Dup", "", now))
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetUserByUID(ctx, "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	assert.True(t, got.CreatedAt.Equal(now))

	byEmail, err := repo.GetUserByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-b", byEmail.UID)

	either, err := repo.FindByUIDOrEmail(ctx, "missing", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-a", either.UID)

	users, err := repo.GetUsersByUIDs(ctx, []string{"uid-b", "uid-a", "ghost"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []string{"uid-b", "uid-a"}, []string{users[0].UID, users[1].UID})

	got.Bio = "physics student"
	got.Touch(now.Add(time.Hour))
	require.NoError(t, repo.UpdateUser(ctx, got))
	updated, err := repo.GetUserByUID(ctx, "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "physics student", updated.Bio)
	assert.Equal(t, 50, updated.ProfileCompletionPercentage)

	assert.ErrorIs(t, repo.UpdateUser(ctx, &models.User{UID: "ghost", Email: "g@example.com"}), ErrNotFound)
	_, err = repo.GetUserByUID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := repo.GetUsersByUIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
