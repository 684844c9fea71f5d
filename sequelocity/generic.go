package sequelocity

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ExecuteScalarAs runs ExecuteScalar and converts the value to T using database/sql's conversion rules.
func ExecuteScalarAs[T any](ctx context.Context, dc *DatabaseCommand, options ...ExecuteOption) (T, error) {
	var zero T

	value, err := dc.ExecuteScalar(ctx, options...)
	if err != nil {
		return zero, err
	}

	return ConvertTo[T](value)
}

// ExecuteToList maps every row of the last result set that has columns to a T using sqlx struct scanning.
// Columns are matched to fields by their `db` tags, every column needs a destination field.
func ExecuteToList[T any](ctx context.Context, dc *DatabaseCommand, options ...ExecuteOption) ([]T, error) {
	var result []T

	err := dc.query(ctx, operationExecuteToList, options, func(rows *sqlx.Rows) (int, error) {
		var scanErr error

		result, scanErr = scanStructs[T](rows)

		return len(result), scanErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteToObject returns the first element of ExecuteToList and false when there is none.
func ExecuteToObject[T any](ctx context.Context, dc *DatabaseCommand, options ...ExecuteOption) (T, bool, error) {
	var zero T

	list, err := ExecuteToList[T](ctx, dc, options...)
	if err != nil || len(list) == 0 {
		return zero, false, err
	}

	return list[0], true, nil
}

func scanStructs[T any](rows *sqlx.Rows) ([]T, error) {
	result := make([]T, 0)

	for {
		columns, err := rows.Columns()
		if err != nil {
			return nil, err
		}

		if len(columns) > 0 {
			resultSet := make([]T, 0)

			for rows.Next() {
				var item T
				if scanErr := rows.StructScan(&item); scanErr != nil {
					return nil, errors.Join(ErrScanningRowFailed, scanErr)
				}

				resultSet = append(resultSet, item)
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
