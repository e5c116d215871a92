package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"studysmarter/internal/config"
	"studysmarter/internal/database"
	"studysmarter/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:               "test",
		DBDriver:          "sqlite",
		SQLitePath:        filepath.Join(t.TempDir(), "test.db"),
		RevocationBackend: "memory",
	}
}

func TestInitRuntime_SQLiteMemoryStore(t *testing.T) {
	cfg := sqliteConfig(t)

	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(rt.DB) })

	assert.Nil(t, rt.Redis)
	assert.Equal(t, "memory", rt.Revocations.Backend())
	assert.True(t, rt.DB.Migrator().HasTable(&models.StudyRoom{}))

	var count int64
	require.NoError(t, rt.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "seeding must be explicit")
}

func TestInitRuntime_SeedsDemoUsersWhenAsked(t *testing.T) {
	cfg := sqliteConfig(t)

	rt, err := InitRuntime(context.Background(), cfg, Options{SeedDemoUsers: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(rt.DB) })

	var count int64
	require.NoError(t, rt.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSelectRevocationStore(t *testing.T) {
	ctx := context.Background()

	t.Run("redis backend", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb, store := selectRevocationStore(ctx, &config.Config{RedisURL: mr.Addr(), RevocationBackend: "redis"})
		require.NotNil(t, rdb)
		t.Cleanup(func() { _ = rdb.Close() })
		assert.Equal(t, "redis", store.Backend())
	})

	t.Run("redis unreachable falls back to memory", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		rdb, store := selectRevocationStore(ctx, &config.Config{RedisURL: addr, RevocationBackend: "redis"})
		assert.Nil(t, rdb)
		assert.Equal(t, "memory", store.Backend())
	})

	t.Run("memory backend keeps redis for rate limiting", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb, store := selectRevocationStore(ctx, &config.Config{RedisURL: mr.Addr(), RevocationBackend: "memory"})
		require.NotNil(t, rdb)
		t.Cleanup(func() { _ = rdb.Close() })
		assert.Equal(t, "memory", store.Backend())
	})
}
