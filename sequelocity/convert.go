package sequelocity

import (
	"database/sql"
	"errors"
)

// ConvertTo converts a raw value, as returned by ExecuteScalar or held by a Row, to T.
// It applies the same conversion rules database/sql uses when scanning, e.g. int64 to string or "42" to int.
// A nil value returns ErrNilValue.
func ConvertTo[T any](value any) (T, error) {
	var zero T

	if value == nil {
		return zero, ErrNilValue
	}

	var target sql.Null[T]
	if err := target.Scan(value); err != nil {
		return zero, errors.Join(ErrConversionFailed, err)
	}

	return target.V, nil
}

// ToInt64 converts a raw value to int64.
func ToInt64(value any) (int64, error) {
	return ConvertTo[int64](value)
}

// ToInt converts a raw value to int.
func ToInt(value any) (int, error) {
	return ConvertTo[int](value)
}

// ToFloat64 converts a raw value to float64.
func ToFloat64(value any) (float64, error) {
	return ConvertTo[float64](value)
}

// ToString converts a raw value to string.
func ToString(value any) (string, error) {
	return ConvertTo[string](value)
}

// ToBool converts a raw value to bool.
func ToBool(value any) (bool, error) {
	return ConvertTo[bool](value)
}

// normalizeValue returns driver byte slices as strings so that Rows are safe to keep and compare.
func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}

	return value
}
