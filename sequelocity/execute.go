package sequelocity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	operationExecuteScalar        = "execute_scalar"
	operationExecuteToDynamicList = "execute_to_dynamic_list"
	operationExecuteToList        = "execute_to_list"
	operationExecuteNonQuery      = "execute_non_query"
	operationExecuteReader        = "execute_reader"
)

// ExecuteOption configures a single execution.
type ExecuteOption func(*executeOptions)

type executeOptions struct {
	keepConnectionOpen bool
}

// KeepConnectionOpen leaves the connection open and the command undisposed after the execution.
// The caller then owns both and must call Dispose.
func KeepConnectionOpen() ExecuteOption {
	return func(o *executeOptions) {
		o.keepConnectionOpen = true
	}
}

// nativeRunner runs the native call on an open connection and maps its results.
// It returns the number of rows returned or affected.
type nativeRunner func(ctx context.Context, conn *sqlx.Conn, dbCommand *DbCommand) (int, error)

// execute drives the lifecycle shared by all executors:
// pre-execute handlers, open connection, native call, post-execute or unhandled-exception handlers, dispose.
func (dc *DatabaseCommand) execute(
	ctx context.Context,
	operation string,
	options []ExecuteOption,
	run nativeRunner,
) error {

	if dc.dbCommand == nil {
		return ErrCommandDisposed
	}

	opts := executeOptions{}
	for _, option := range options {
		option(&opts)
	}

	if !opts.keepConnectionOpen {
		defer func() { _ = dc.Dispose() }()
	}

	provider := dc.dbCommand.connection.provider.InvariantName

	dc.cfg.eventHandlers.invokePreExecute(ctx, dc)

	start := time.Now()
	rowCount, err := dc.runNative(ctx, run)
	duration := time.Since(start)

	if err != nil {
		dc.cfg.logError(
			logMsgExecutionFailed,
			err,
			logAttrCommandID, dc.id.String(),
			logAttrProvider, provider,
			logAttrQuery, dc.CommandText(),
		)
		dc.cfg.recordDuration(operation, provider, statusError, duration)
		dc.cfg.recordError(operation, provider)
		dc.cfg.eventHandlers.invokeUnhandledException(ctx, err, dc)

		return err
	}

	dc.cfg.logQueryWithDuration(dc.CommandText(), operation, duration, logAttrCommandID, dc.id.String())
	dc.cfg.logOperation(
		operation,
		logAttrCommandID, dc.id.String(),
		logAttrRowCount, rowCount,
		logAttrDurationMS, toMilliseconds(duration),
		logAttrKeepConnectionOpen, opts.keepConnectionOpen,
	)
	dc.cfg.recordDuration(operation, provider, statusSuccess, duration)
	dc.cfg.recordRows(operation, provider, rowCount)
	dc.cfg.eventHandlers.invokePostExecute(ctx, dc)

	return nil
}

// runNative validates the command as left by the pre-execute handlers, opens the connection, and runs the native call.
func (dc *DatabaseCommand) runNative(ctx context.Context, run nativeRunner) (int, error) {
	dbCommand := dc.dbCommand
	if dbCommand == nil {
		return 0, ErrCommandDisposed
	}

	if strings.TrimSpace(dbCommand.CommandText) == "" {
		return 0, ErrEmptyCommandText
	}

	if err := dbCommand.connection.Open(ctx); err != nil {
		return 0, err
	}

	if dbCommand.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dbCommand.CommandTimeout)
		defer cancel()
	}

	return run(ctx, dbCommand.connection.conn, dbCommand)
}

// query runs the command text as a query and hands the rows to read, closing them afterward.
func (dc *DatabaseCommand) query(
	ctx context.Context,
	operation string,
	options []ExecuteOption,
	read func(rows *sqlx.Rows) (int, error),
) error {

	return dc.execute(ctx, operation, options, func(ctx context.Context, conn *sqlx.Conn, dbCommand *DbCommand) (int, error) {
		rows, err := conn.QueryxContext(ctx, dbCommand.CommandText, dbCommand.Parameters...)
		if err != nil {
			return 0, err
		}
		defer dc.closeRows(rows)

		return read(rows)
	})
}

// ExecuteScalar returns the first column of the first row of the first result set that has columns.
// It returns nil when there are no rows. The value is returned as the driver produced it,
// except that []byte is returned as string. Use ToInt64, ToString, etc. for conversions.
func (dc *DatabaseCommand) ExecuteScalar(ctx context.Context, options ...ExecuteOption) (any, error) {
	var value any

	err := dc.query(ctx, operationExecuteScalar, options, func(rows *sqlx.Rows) (int, error) {
		var rowCount int
		var scanErr error

		value, rowCount, scanErr = scanScalar(rows)

		return rowCount, scanErr
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// ExecuteToDynamicList maps every row of the last result set that has columns to a Row,
// preserving the order of rows and columns.
func (dc *DatabaseCommand) ExecuteToDynamicList(ctx context.Context, options ...ExecuteOption) ([]Row, error) {
	var result []Row

	err := dc.query(ctx, operationExecuteToDynamicList, options, func(rows *sqlx.Rows) (int, error) {
		var scanErr error

		result, scanErr = scanDynamicRows(rows)

		return len(result), scanErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteToDynamicObject returns the first Row of ExecuteToDynamicList and false when there is none.
func (dc *DatabaseCommand) ExecuteToDynamicObject(ctx context.Context, options ...ExecuteOption) (Row, bool, error) {
	rows, err := dc.ExecuteToDynamicList(ctx, options...)
	if err != nil || len(rows) == 0 {
		return Row{}, false, err
	}

	return rows[0], true, nil
}

// ExecuteNonQuery executes the command text and returns the number of affected rows.
func (dc *DatabaseCommand) ExecuteNonQuery(ctx context.Context, options ...ExecuteOption) (int64, error) {
	var rowsAffected int64

	err := dc.execute(ctx, operationExecuteNonQuery, options, func(ctx context.Context, conn *sqlx.Conn, dbCommand *DbCommand) (int, error) {
		result, err := conn.ExecContext(ctx, dbCommand.CommandText, dbCommand.Parameters...)
		if err != nil {
			return 0, err
		}

		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return 0, err
		}

		return int(rowsAffected), nil
	})
	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}

// ExecuteReader hands the native rows to read. The rows are closed when read returns.
// An error returned by read is treated like a provider error.
func (dc *DatabaseCommand) ExecuteReader(
	ctx context.Context,
	read func(rows *sqlx.Rows) error,
	options ...ExecuteOption,
) error {

	return dc.query(ctx, operationExecuteReader, options, func(rows *sqlx.Rows) (int, error) {
		if err := read(rows); err != nil {
			return 0, err
		}

		return 0, rows.Err()
	})
}

func (dc *DatabaseCommand) closeRows(rows *sqlx.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		dc.cfg.logWarn(logMsgCloseRowsFailed, closeErr, logAttrCommandID, dc.id.String())
	}
}

func scanScalar(rows *sqlx.Rows) (any, int, error) {
	for {
		columns, err := rows.Columns()
		if err != nil {
			return nil, 0, err
		}

		if len(columns) > 0 {
			if !rows.Next() {
				return nil, 0, rows.Err()
			}

			values, scanErr := rows.SliceScan()
			if scanErr != nil {
				return nil, 0, errors.Join(ErrScanningRowFailed, scanErr)
			}

			return normalizeValue(values[0]), 1, nil
		}

		if !rows.NextResultSet() {
			return nil, 0, rows.Err()
		}
	}
}

func scanDynamicRows(rows *sqlx.Rows) ([]Row, error) {
	result := make([]Row, 0)

	for {
		columns, err := rows.Columns()
		if err != nil {
			return nil, err
		}

		if len(columns) > 0 {
			resultSet := make([]Row, 0)

			for rows.Next() {
				values, scanErr := rows.SliceScan()
				if scanErr != nil {
					return nil, errors.Join(ErrScanningRowFailed, scanErr)
				}

				resultSet = append(resultSet, NewRow(columns, values))
			}

			if err := rows.Err(); err != nil {
				return nil, err
			}

			result = resultSet
		}

		if !rows.NextResultSet() {
			return result, rows.Err()
		}
	}
}
