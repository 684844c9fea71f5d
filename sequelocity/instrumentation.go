package sequelocity

import (
	"math"
	"time"
)

const (
	logMsgResolveFailed         = "failed to resolve connection string or provider"
	logMsgOpenDBFailed          = "failed to open database handle"
	logMsgCloseConnectionFailed = "failed to close db connection"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgExecutionFailed       = "database command execution failed"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "sequelocity operation: "
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrProvider             = "provider"
	logAttrCommandID            = "command_id"
	logAttrDurationMS           = "duration_ms"
	logAttrRowCount             = "row_count"
	logAttrKeepConnectionOpen   = "keep_connection_open"
	metricCommandDuration       = "sequelocity_command_duration_seconds"
	metricCommandErrors         = "sequelocity_command_errors_total"
	metricRowsReturned          = "sequelocity_rows_returned"
	labelOperation              = "operation"
	labelProvider               = "provider"
	labelStatus                 = "status"
	statusSuccess               = "success"
	statusError                 = "error"
)

// logQueryWithDuration logs SQL text with execution time at debug level if the logger is configured.
func (cfg *Configuration) logQueryWithDuration(sqlQuery, operation string, duration time.Duration, args ...any) {
	if cfg.logger != nil {
		allArgs := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}
		allArgs = append(allArgs, args...)
		cfg.logger.Debug(logMsgSQLExecuted+operation, allArgs...)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (cfg *Configuration) logOperation(operation string, args ...any) {
	if cfg.logger != nil {
		cfg.logger.Info(logMsgOperation+operation, args...)
	}
}

// logWarn logs non-critical failures at warn level if the logger is configured.
func (cfg *Configuration) logWarn(message string, err error, args ...any) {
	if cfg.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		cfg.logger.Warn(message, allArgs...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (cfg *Configuration) logError(message string, err error, args ...any) {
	if cfg.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		cfg.logger.Error(message, allArgs...)
	}
}

func (cfg *Configuration) recordDuration(operation, provider, status string, duration time.Duration) {
	if cfg.metricsCollector != nil {
		cfg.metricsCollector.RecordDuration(metricCommandDuration, duration, map[string]string{
			labelOperation: operation,
			labelProvider:  provider,
			labelStatus:    status,
		})
	}
}

func (cfg *Configuration) recordError(operation, provider string) {
	if cfg.metricsCollector != nil {
		cfg.metricsCollector.IncrementCounter(metricCommandErrors, map[string]string{
			labelOperation: operation,
			labelProvider:  provider,
		})
	}
}

func (cfg *Configuration) recordRows(operation, provider string, rowCount int) {
	if cfg.metricsCollector != nil {
		cfg.metricsCollector.RecordValue(metricRowsReturned, float64(rowCount), map[string]string{
			labelOperation: operation,
			labelProvider:  provider,
		})
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
