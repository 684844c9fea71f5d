package sequelocity_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
	. "github.com/AntonStoeckl/sequelocity-go/testutil/helper" //nolint:revive
)

func Test_Observability_ShouldLog_SuccessfulExecutions(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logHandlerSpy := NewLogHandlerSpy(false)
	cfg := GivenSQLiteConfiguration(t, sequelocity.WithLogger(slog.New(logHandlerSpy)))

	// act
	_, err := GivenSQLiteCommand(t, cfg).SetCommandText("SELECT 1").ExecuteScalar(ctxWithTimeout)

	// assert
	require.NoError(t, err)
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelDebug, "executed sql for: execute_scalar", "query"))
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelDebug, "executed sql for: execute_scalar", "duration_ms"))
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelInfo, "sequelocity operation: execute_scalar", "row_count"))
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelInfo, "sequelocity operation: execute_scalar", "command_id"))
	assert.False(t, logHandlerSpy.HasLog(slog.LevelError, "database command execution failed"))
}

func Test_Observability_ShouldLog_FailedExecutions(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logHandlerSpy := NewLogHandlerSpy(false)
	cfg := GivenSQLiteConfiguration(t, sequelocity.WithLogger(slog.New(logHandlerSpy)))

	// act
	_, err := GivenSQLiteCommand(t, cfg).SetCommandText("asdf;lkj").ExecuteToDynamicList(ctxWithTimeout)

	// assert
	require.Error(t, err)
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelError, "database command execution failed", "error"))
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelError, "database command execution failed", "provider"))
	assert.False(t, logHandlerSpy.HasLog(slog.LevelInfo, "sequelocity operation: execute_to_dynamic_list"))
}

func Test_Observability_ShouldLog_ConfigurationErrors(t *testing.T) {
	// setup
	logHandlerSpy := NewLogHandlerSpy(false)
	cfg := GivenSQLiteConfiguration(t, sequelocity.WithLogger(slog.New(logHandlerSpy)))

	// act
	_, err := cfg.GetDatabaseCommandForProvider(SQLiteConnectionName, "NoSuchProvider")

	// assert
	assert.ErrorIs(t, err, sequelocity.ErrDbProviderFactoryNotFound)
	assert.True(t, logHandlerSpy.HasLogWithAttr(slog.LevelError, "failed to resolve connection string or provider", "provider"))
}

func Test_Observability_ShouldRecord_Metrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollectorSpy := NewMetricsCollectorSpy()
	cfg := GivenSQLiteConfiguration(t, sequelocity.WithMetrics(metricsCollectorSpy))

	// arrange
	GivenSuperHeroesWereInserted(t, ctxWithTimeout, cfg, "Superman", "Batman")
	metricsCollectorSpy.Reset()

	// act
	_, err := GivenSQLiteCommand(t, cfg).SetCommandText(SelectSuperHeroesSQL).ExecuteToDynamicList(ctxWithTimeout)
	_, failedErr := GivenSQLiteCommand(t, cfg).SetCommandText("asdf;lkj").ExecuteScalar(ctxWithTimeout)

	// assert
	require.NoError(t, err)
	require.Error(t, failedErr)

	durationRecords := metricsCollectorSpy.GetDurationRecords()
	require.Len(t, durationRecords, 2)
	assert.Equal(t, "sequelocity_command_duration_seconds", durationRecords[0].Metric)
	assert.Equal(
		t,
		map[string]string{"operation": "execute_to_dynamic_list", "provider": "sqlite", "status": "success"},
		durationRecords[0].Labels,
	)
	assert.Equal(
		t,
		map[string]string{"operation": "execute_scalar", "provider": "sqlite", "status": "error"},
		durationRecords[1].Labels,
	)

	valueRecords := metricsCollectorSpy.GetValueRecords()
	require.Len(t, valueRecords, 1)
	assert.Equal(t, "sequelocity_rows_returned", valueRecords[0].Metric)
	assert.InDelta(t, 2.0, valueRecords[0].Value, 0.0001)

	counterRecords := metricsCollectorSpy.GetCounterRecords()
	require.Len(t, counterRecords, 1)
	assert.Equal(t, "sequelocity_command_errors_total", counterRecords[0].Metric)
	assert.Equal(t, map[string]string{"operation": "execute_scalar", "provider": "sqlite"}, counterRecords[0].Labels)
}
