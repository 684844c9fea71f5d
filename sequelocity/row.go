package sequelocity

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Row is an ordered column-name-to-value mapping built from result-set metadata at execution time.
type Row struct {
	columns []string
	values  []any
}

// NewRow creates a Row. Byte slice values are stored as strings.
// Missing values are nil, surplus values are dropped.
func NewRow(columns []string, values []any) Row {
	row := Row{
		columns: make([]string, len(columns)),
		values:  make([]any, len(columns)),
	}

	copy(row.columns, columns)

	for i := range row.columns {
		if i < len(values) {
			row.values[i] = normalizeValue(values[i])
		}
	}

	return row
}

// Columns returns the column names in result-set order.
func (r Row) Columns() []string {
	columns := make([]string, len(r.columns))
	copy(columns, r.columns)

	return columns
}

// Values returns the values in result-set order.
func (r Row) Values() []any {
	values := make([]any, len(r.values))
	copy(values, r.values)

	return values
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.columns)
}

// Get returns the value of the first column with the given name.
func (r Row) Get(column string) (any, bool) {
	for i, name := range r.columns {
		if name == column {
			return r.values[i], true
		}
	}

	return nil, false
}

// Value returns the value of the named column or nil.
func (r Row) Value(column string) any {
	value, _ := r.Get(column)
	return value
}

// Int64 converts the value of the named column to int64.
func (r Row) Int64(column string) (int64, error) {
	return ToInt64(r.Value(column))
}

// String converts the value of the named column to string.
func (r Row) String(column string) (string, error) {
	return ToString(r.Value(column))
}

// Map returns the row as a map. Duplicate column names keep the last value.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, name := range r.columns {
		m[name] = r.values[i]
	}

	return m
}

// MarshalJSON encodes the row as a JSON object with the keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	stream.WriteObjectStart()

	for i, name := range r.columns {
		if i > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectField(name)
		stream.WriteVal(r.values[i])
	}

	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}
