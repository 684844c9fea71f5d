package sequelocity

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
)

// GenerateInsert appends an INSERT statement for record to the command text.
// The statement is rendered with literal values in the goqu dialect of the command's provider.
// The record may be a goqu.Record, a map[string]any, or a struct with `db` tags.
func (dc *DatabaseCommand) GenerateInsert(tableName string, record any) (*DatabaseCommand, error) {
	if dc.dbCommand == nil {
		return dc, ErrCommandDisposed
	}

	dialect := dc.dbCommand.connection.provider.Dialect
	if dialect == "" {
		return dc, ErrUnsupportedDialect
	}

	insertSQL, _, toSQLErr := goqu.Dialect(dialect).Insert(tableName).Rows(record).ToSQL()
	if toSQLErr != nil {
		return dc, errors.Join(ErrBuildingInsertFailed, toSQLErr)
	}

	return dc.AppendCommandText(insertSQL + ";"), nil
}
