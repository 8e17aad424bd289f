package persistence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventhub-dev/eventhub/internal/config"
	"github.com/eventhub-dev/eventhub/migrations"
)

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{URL: "http://localhost:6379"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewPostgresRejectsBadPoolSettings(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{
		URL: "postgres://localhost:5432/eventhub?pool_max_conns=many",
	}, zap.NewNop())
	assert.Error(t, err)
}

func TestPingWithoutClient(t *testing.T) {
	ctx := context.Background()
	var (
		pg    *Postgres
		rd    *Redis
		mongo *Mongo
	)
	assert.Error(t, pg.Ping(ctx))
	assert.Error(t, rd.Ping(ctx))
	assert.Error(t, mongo.Ping(ctx))
	assert.Nil(t, pg.PoolHandle())
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, migrations.FS(), zap.NewNop()))
}

type recordingExecer struct {
	applied []string
	failOn  string
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	r.applied = append(r.applied, sql)
	return pgconn.CommandTag{}, nil
}

func TestApplyMigrationsRunsSQLFilesInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":    {Data: []byte("B")},
		"001_a.sql":    {Data: []byte("A")},
		"README.md":    {Data: []byte("ignored")},
		"nested/x.sql": {Data: []byte("ignored")},
	}
	db := &recordingExecer{}

	require.NoError(t, applyMigrations(context.Background(), db, fsys, zap.NewNop()))
	assert.Equal(t, []string{"A", "B"}, db.applied)
}

func TestApplyMigrationsStopsOnFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("A")},
		"002_b.sql": {Data: []byte("BROKEN")},
		"003_c.sql": {Data: []byte("C")},
	}
	db := &recordingExecer{failOn: "BROKEN"}

	err := applyMigrations(context.Background(), db, fsys, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_b.sql")
	assert.Equal(t, []string{"A"}, db.applied)
}

func TestBundledMigrationsAreReadable(t *testing.T) {
	db := &recordingExecer{}
	require.NoError(t, applyMigrations(context.Background(), db, migrations.FS(), zap.NewNop()))
	require.Len(t, db.applied, 2)
	assert.Contains(t, db.applied[0], "users")
}
