package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"signaldesk/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Signal{}, &model.Exception{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

var signalColumns = []string{"id", "pair", "action", "confidence", "start_time", "end_time", "status", "analysis", "verifiers", "created_at"}

func TestSignalRepositoryQueries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSignalRepositoryWithDB(db)
	createdAt := time.Date(2025, 6, 11, 14, 3, 0, 0, time.UTC)

	t.Run("lists newest first", func(t *testing.T) {
		rows := sqlmock.NewRows(signalColumns).
			AddRow(2, "USD/JPY", "SELL/PUT", 81, "14:05 UTC", "14:10 UTC", "active", "a", []byte(`["Anthropic","Gemini"]`), createdAt.Add(time.Minute)).
			AddRow(1, "EUR/USD", "BUY/CALL", 77, "14:05 UTC", "14:10 UTC", "active", "b", []byte(`["OpenAI"]`), createdAt)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "signals" ORDER BY created_at DESC, id DESC`)).
			WillReturnRows(rows)

		signals, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, signals, 2)
		assert.Equal(t, uint(2), signals[0].ID)
		assert.Equal(t, []string{"Anthropic", "Gemini"}, []string(signals[0].Verifiers))
		assert.Equal(t, "EUR/USD", signals[1].Pair)
	})

	t.Run("latest takes one row", func(t *testing.T) {
		rows := sqlmock.NewRows(signalColumns).
			AddRow(2, "USD/JPY", "SELL/PUT", 81, "14:05 UTC", "14:10 UTC", "active", "a", []byte(`["Anthropic"]`), createdAt)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "signals" ORDER BY created_at DESC, id DESC LIMIT $1`)).
			WithArgs(1).
			WillReturnRows(rows)

		latest, err := repo.FindLatest(context.Background())
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "USD/JPY", latest.Pair)
	})

	t.Run("latest on empty table is nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "signals" ORDER BY created_at DESC, id DESC LIMIT $1`)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(signalColumns))

		latest, err := repo.FindLatest(context.Background())
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("insert returns id", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "signals" (`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectCommit()

		signal := &model.Signal{
			Pair:       "GBP/USD",
			Action:     model.ActionBuy,
			Confidence: 80,
			StartTime:  "14:05 UTC",
			EndTime:    "14:10 UTC",
			Analysis:   "x",
			Verifiers:  datatypes.NewJSONSlice([]string{"OpenAI"}),
		}
		require.NoError(t, repo.Create(context.Background(), signal))
		assert.Equal(t, uint(7), signal.ID)
		assert.Equal(t, model.SignalStatusActive, signal.Status)
	})

	t.Run("delete all without conditions", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "signals"`)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteAll(context.Background()))
	})

	t.Run("list error is returned", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "signals"`)).
			WillReturnError(assert.AnError)

		_, err := repo.FindAll(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignalRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewSignalRepositoryWithDB(db)
	ctx := context.Background()

	require.NoError(t, repo.DeleteAll(ctx), "clearing an empty table succeeds")

	base := time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC)
	for i, pair := range []string{"EUR/USD", "AUD/JPY", "GBP/USD"} {
		require.NoError(t, repo.Create(ctx, &model.Signal{
			Pair:       pair,
			Action:     model.ActionSell,
			Confidence: 70 + i,
			StartTime:  "14:05 UTC",
			EndTime:    "14:10 UTC",
			Analysis:   "OpenAI: a | Anthropic: b | Gemini: c",
			Verifiers:  datatypes.NewJSONSlice([]string{"OpenAI", "Gemini"}),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "GBP/USD", all[0].Pair)
	assert.Equal(t, "AUD/JPY", all[1].Pair)
	assert.Equal(t, "EUR/USD", all[2].Pair)
	assert.Equal(t, []string{"OpenAI", "Gemini"}, []string(all[0].Verifiers))
	assert.Equal(t, model.SignalStatusActive, all[0].Status)

	latest, err := repo.FindLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, all[0].ID, latest.ID)

	require.NoError(t, repo.DeleteAll(ctx))
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	latest, err = repo.FindLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSignalRepositorySameTimestampBreaksTieByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewSignalRepositoryWithDB(db)
	ctx := context.Background()
	at := time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC)

	for _, pair := range []string{"first", "second"} {
		require.NoError(t, repo.Create(ctx, &model.Signal{
			Pair: pair, Action: model.ActionBuy, StartTime: "x", EndTime: "y",
			Verifiers: datatypes.NewJSONSlice([]string{}), CreatedAt: at,
		}))
	}

	latest, err := repo.FindLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.Pair)
}

func TestExceptionRepositoryCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewExceptionRepositoryWithDB(db)

	exc := &model.Exception{
		Service: "signal_generator",
		Module:  "Gemini",
		Method:  "parse",
		Message: "no JSON object found in response",
		Level:   "warn",
		Context: datatypes.JSON(`{"pair":"EUR/USD"}`),
	}
	require.NoError(t, repo.Create(context.Background(), exc))
	assert.NotZero(t, exc.ID)

	var stored model.Exception
	require.NoError(t, db.First(&stored, exc.ID).Error)
	assert.Equal(t, "Gemini", stored.Module)
	assert.JSONEq(t, `{"pair":"EUR/USD"}`, string(stored.Context))
}

func TestExceptionRepositoryCreate_DefaultsLevel(t *testing.T) {
	db := newTestDB(t)
	repo := NewExceptionRepositoryWithDB(db)

	exc := &model.Exception{
		Service: "signal_generator",
		Module:  "OpenAI",
		Method:  "fetch",
		Message: "status 503",
	}
	require.NoError(t, repo.Create(context.Background(), exc))

	var stored model.Exception
	require.NoError(t, db.First(&stored, exc.ID).Error)
	assert.Equal(t, "warn", stored.Level)
	assert.Equal(t, "fetch", stored.Method)
}

func TestExceptionRepositoryCreate_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExceptionRepositoryWithDB(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "exceptions" (`)).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Exception{Module: "Gemini", Method: "parse"})
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
