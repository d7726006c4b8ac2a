package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	taskDomain "github.com/davicafu/taskvault/internal/task/domain"
	mongoStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/mongodb"
	pgStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/postgres"
	redisStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/rediskv"
	sqliteStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/sqlite"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// assertSameTask compara campo a campo, con time.Equal para los
// tiempos (cada backend devuelve su propia Location).
func assertSameTask(t *testing.T, want, got *taskDomain.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.IsComplete, got.IsComplete)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt: %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt: %v != %v", want.UpdatedAt, got.UpdatedAt)

	if want.Detail == nil {
		assert.Nil(t, got.Detail)
	} else if assert.NotNil(t, got.Detail) {
		assert.Equal(t, *want.Detail, *got.Detail)
	}
	if want.DueAt == nil {
		assert.Nil(t, got.DueAt)
	} else if assert.NotNil(t, got.DueAt) {
		assert.True(t, want.DueAt.Equal(*got.DueAt), "dueAt: %v != %v", want.DueAt, got.DueAt)
	}
}

// runTaskStoreSuite ejercita el contrato completo de TaskStore contra
// un backend real. Todos los adapters deben pasar exactamente la misma
// batería.
func runTaskStoreSuite(t *testing.T, store taskDomain.TaskStore) {
	ctx := context.Background()

	// --- Store vacío: list sin error, get/update/delete en not-found ---
	tasks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	missing := uuid.New()
	_, err = store.GetByID(ctx, missing)
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)

	patch := taskDomain.BuildUpdatePatch(taskDomain.UpdateInput{Title: "x", IsComplete: true}, taskDomain.NowUTC())
	_, err = store.Update(ctx, missing, patch)
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)

	err = store.DeleteByID(ctx, missing)
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)

	// --- Create + Get con todos los campos ---
	detail := "integración"
	due := taskDomain.NowUTC().Add(48 * time.Hour)
	full := taskDomain.NewTask(taskDomain.CreateInput{
		Title:      "Tarea completa",
		Detail:     &detail,
		DueAt:      &due,
		IsComplete: false,
	}, taskDomain.NowUTC())
	require.NoError(t, store.Create(ctx, full))

	got, err := store.GetByID(ctx, full.ID)
	require.NoError(t, err)
	assertSameTask(t, full, got)

	// --- Create sin opcionales: ausente se queda ausente ---
	bare := taskDomain.NewTask(taskDomain.CreateInput{Title: "Sin opcionales"}, taskDomain.NowUTC())
	require.NoError(t, store.Create(ctx, bare))

	got, err = store.GetByID(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Detail)
	assert.Nil(t, got.DueAt)

	// --- Update parcial: reescribe lo obligatorio y elimina lo omitido ---
	now := taskDomain.NowUTC()
	patch = taskDomain.BuildUpdatePatch(taskDomain.UpdateInput{
		Title:      "Tarea completada",
		IsComplete: true,
	}, now)

	updated, err := store.Update(ctx, full.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Tarea completada", updated.Title)
	assert.True(t, updated.IsComplete)
	assert.True(t, now.Equal(updated.UpdatedAt))
	assert.True(t, full.CreatedAt.Equal(updated.CreatedAt), "createdAt no debe cambiar")
	assert.Nil(t, updated.Detail, "detail omitido debe eliminarse del registro")
	assert.Nil(t, updated.DueAt)

	got, err = store.GetByID(ctx, full.ID)
	require.NoError(t, err)
	assertSameTask(t, updated, got)

	// --- List con n registros ---
	tasks, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	// --- Delete condicionado ---
	require.NoError(t, store.DeleteByID(ctx, full.ID))
	assert.ErrorIs(t, store.DeleteByID(ctx, full.ID), taskDomain.ErrTaskNotFound)

	_, err = store.GetByID(ctx, full.ID)
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)

	require.NoError(t, store.DeleteByID(ctx, bare.ID))
}

// --- SQLite: sin servicio externo, corre siempre ---

func TestTaskStoreSQLite_Integration(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "taskvault_test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqliteStore.InitSQLiteTaskSchema(db))

	runTaskStoreSuite(t, sqliteStore.NewTaskStoreSQLite(db))
}

// --- Postgres ---

func TestTaskStorePostgres_Integration(t *testing.T) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		t.Skip("DATABASE_URL no está configurada, saltando test de integración con Postgres")
	}

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())

	require.NoError(t, pgStore.InitPostgresTaskSchema(db))
	_, err = db.Exec(`TRUNCATE TABLE tasks`)
	require.NoError(t, err)

	runTaskStoreSuite(t, pgStore.NewTaskStorePostgres(db))
}

// --- MongoDB ---

func TestTaskStoreMongoDB_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI no está configurada, saltando test de integración con MongoDB")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	dbName := "taskvault_test"
	require.NoError(t, client.Database(dbName).Collection("tasks").Drop(ctx))

	store, err := mongoStore.NewTaskStoreMongoDB(ctx, client, dbName)
	require.NoError(t, err)

	runTaskStoreSuite(t, store)
}

// --- Redis ---

func TestTaskStoreRedis_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no está configurada, saltando test de integración con Redis")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, rdb.Ping(ctx).Err())
	require.NoError(t, rdb.FlushDB(ctx).Err())
	defer rdb.Close()

	runTaskStoreSuite(t, redisStore.NewTaskStoreRedis(rdb))
}
