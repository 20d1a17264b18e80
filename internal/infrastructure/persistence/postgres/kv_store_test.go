package postgres

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/repository"
)

func TestCreateTableSQL_QuotesIdentifier(t *testing.T) {
	sql := createTableSQL(`kv"; DROP TABLE users; --`)
	assert.Contains(t, sql, `CREATE TABLE IF NOT EXISTS "kv""; DROP TABLE users; --"`)
	assert.Contains(t, sql, "key        TEXT PRIMARY KEY")
}

// 需要真实数据库：设置 VEO_TEST_POSTGRES_HOST 后运行
func TestKVStore_Integration(t *testing.T) {
	host := os.Getenv("VEO_TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("VEO_TEST_POSTGRES_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("VEO_TEST_POSTGRES_PORT"))
	if port == 0 {
		port = 5432
	}

	client, err := NewClient(&config.PostgresConfig{
		Host:     host,
		Port:     port,
		User:     os.Getenv("VEO_TEST_POSTGRES_USER"),
		Password: os.Getenv("VEO_TEST_POSTGRES_PASSWORD"),
		Database: os.Getenv("VEO_TEST_POSTGRES_DB"),
		SSLMode:  "disable",
	})
	require.NoError(t, err)

	ctx := context.Background()
	store, err := NewKVStore(ctx, client, "veo_kv_store_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		client.DB().Exec(`DROP TABLE IF EXISTS veo_kv_store_test`)
		_ = store.Close()
	})

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "veo_theme", []byte(`"dark"`)))
	require.NoError(t, store.Set(ctx, "veo_theme", []byte(`"light"`)))
	got, err := store.Get(ctx, "veo_theme")
	require.NoError(t, err)
	assert.Equal(t, `"light"`, string(got))

	require.NoError(t, store.Delete(ctx, "veo_theme", "missing"))
	_, err = store.Get(ctx, "veo_theme")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	assert.NoError(t, store.HealthCheck(ctx))
}
