// Package repotest opens migrated in-memory stores for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/model"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/pkg/database"
)

func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewFactory(t testing.TB) (unitofwork.RepositoryFactory, *gorm.DB) {
	t.Helper()
	db := NewDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}

func SeedChallenge(t testing.TB, f unitofwork.RepositoryFactory, c *entity.Challenge) *entity.Challenge {
	t.Helper()
	require.NoError(t, f.NewUnitOfWork(context.Background()).ChallengeRepository().Create(context.Background(), c))
	return c
}

func SeedUser(t testing.TB, f unitofwork.RepositoryFactory, u *entity.User) *entity.User {
	t.Helper()
	require.NoError(t, f.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func SeedEvent(t testing.TB, f unitofwork.RepositoryFactory, e *entity.WeeklyEvent) *entity.WeeklyEvent {
	t.Helper()
	require.NoError(t, f.NewUnitOfWork(context.Background()).WeeklyEventRepository().Create(context.Background(), e))
	return e
}

func Ptr[T any](v T) *T {
	return &v
}
