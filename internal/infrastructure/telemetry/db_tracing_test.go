package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedBag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedBag{}))
	return db
}

func setupRecorder() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)), recorder
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.Equal(t, "totebag", p.config.DBName)
}

func TestDBTracingPlugin_RegisterDisabled(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder()

	p := NewDBTracingPlugin(DBTracingConfig{TracerProvider: tp}, zap.NewNop())
	require.NoError(t, p.Register(db))

	require.NoError(t, db.Create(&tracedBag{Name: "Girasol"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestDBTracingPlugin_RegisterEnabled(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder()

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, TracerProvider: tp}, zap.NewNop())
	require.NoError(t, p.Register(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "handler")
	require.NoError(t, db.WithContext(ctx).Create(&tracedBag{Name: "Girasol"}).Error)
	var got []tracedBag
	require.NoError(t, db.WithContext(ctx).Find(&got).Error)
	parent.End()

	assert.Len(t, got, 1)
	assert.GreaterOrEqual(t, len(recorder.Ended()), 3)
}

func TestDBTracingPlugin_Annotate(t *testing.T) {
	tp, recorder := setupRecorder()
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, zap.NewNop())

	t.Run("slow query with rows and table", func(t *testing.T) {
		ctx, span := tp.Tracer("test").Start(context.Background(), "gorm.Query")
		db := setupTestDB(t)
		stmt := db.Statement
		stmt.Context = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))
		stmt.Table = "products"
		stmt.RowsAffected = 4

		p.annotate(db)
		span.End()

		ended := recorder.Ended()
		attrs := attrMap(ended[len(ended)-1])
		assert.Equal(t, "products", attrs["db.sql.table"].AsString())
		assert.Equal(t, int64(4), attrs["db.rows_affected"].AsInt64())
		assert.True(t, attrs["db.slow_query"].AsBool())
		assert.Equal(t, codes.Unset, ended[len(ended)-1].Status().Code)
	})

	t.Run("errors mark the span except not found", func(t *testing.T) {
		db := setupTestDB(t)

		ctx, span := tp.Tracer("test").Start(context.Background(), "gorm.Create")
		db.Statement.Context = ctx
		db.Error = errors.New("UNIQUE constraint failed: variants.sku")
		p.annotate(db)
		span.End()

		ended := recorder.Ended()
		assert.Equal(t, codes.Error, ended[len(ended)-1].Status().Code)

		ctx, span = tp.Tracer("test").Start(context.Background(), "gorm.Query")
		db.Statement.Context = ctx
		db.Error = gorm.ErrRecordNotFound
		p.annotate(db)
		span.End()

		ended = recorder.Ended()
		assert.Equal(t, codes.Unset, ended[len(ended)-1].Status().Code)
	})
}
