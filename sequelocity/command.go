package sequelocity

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DbCommand is the native command owned by a DatabaseCommand until it is disposed.
// Its fields may be changed by pre-execute handlers.
type DbCommand struct {
	CommandText    string
	Parameters     []any
	CommandTimeout time.Duration
	connection     *DbConnection
}

// Connection returns the connection the command executes on.
func (c *DbCommand) Connection() *DbConnection {
	return c.connection
}

// DatabaseCommand is a fluent wrapper binding a connection and SQL text until execution.
// It must be used by one call sequence at a time.
type DatabaseCommand struct {
	id        uuid.UUID
	cfg       *Configuration
	dbCommand *DbCommand
}

func newDatabaseCommand(cfg *Configuration, connection *DbConnection) *DatabaseCommand {
	return &DatabaseCommand{
		id:        uuid.New(),
		cfg:       cfg,
		dbCommand: &DbCommand{connection: connection},
	}
}

// ID identifies the command in logs, metrics, and traces.
func (dc *DatabaseCommand) ID() uuid.UUID {
	return dc.id
}

// DbCommand returns the native command, or nil once the command was disposed.
func (dc *DatabaseCommand) DbCommand() *DbCommand {
	return dc.dbCommand
}

// CommandText returns the current SQL text, empty once disposed.
func (dc *DatabaseCommand) CommandText() string {
	if dc.dbCommand == nil {
		return ""
	}

	return dc.dbCommand.CommandText
}

// SetCommandText replaces the SQL text.
func (dc *DatabaseCommand) SetCommandText(commandText string) *DatabaseCommand {
	if dc.dbCommand != nil {
		dc.dbCommand.CommandText = commandText
	}

	return dc
}

// AppendCommandText appends SQL text on a new line.
func (dc *DatabaseCommand) AppendCommandText(commandText string) *DatabaseCommand {
	if dc.dbCommand == nil {
		return dc
	}

	if dc.dbCommand.CommandText == "" {
		dc.dbCommand.CommandText = commandText
	} else {
		dc.dbCommand.CommandText = dc.dbCommand.CommandText + "\n" + commandText
	}

	return dc
}

// AddParameter adds a named parameter. A leading '@', ':' or '$' is stripped from the name.
// Whether named parameters are supported depends on the provider's driver.
func (dc *DatabaseCommand) AddParameter(name string, value any) *DatabaseCommand {
	if dc.dbCommand != nil {
		dc.dbCommand.Parameters = append(dc.dbCommand.Parameters, sql.Named(strings.TrimLeft(name, "@:$"), value))
	}

	return dc
}

// AddParameters adds positional parameters.
func (dc *DatabaseCommand) AddParameters(values ...any) *DatabaseCommand {
	if dc.dbCommand != nil {
		dc.dbCommand.Parameters = append(dc.dbCommand.Parameters, values...)
	}

	return dc
}

// ClearParameters removes all parameters.
func (dc *DatabaseCommand) ClearParameters() *DatabaseCommand {
	if dc.dbCommand != nil {
		dc.dbCommand.Parameters = nil
	}

	return dc
}

// SetCommandTimeout bounds each execution, zero means no timeout beyond the caller's context.
func (dc *DatabaseCommand) SetCommandTimeout(timeout time.Duration) *DatabaseCommand {
	if dc.dbCommand != nil {
		dc.dbCommand.CommandTimeout = timeout
	}

	return dc
}

// Dispose releases the native connection and clears the native command. Calling it twice is safe.
func (dc *DatabaseCommand) Dispose() error {
	if dc.dbCommand == nil {
		return nil
	}

	var closeErr error
	if dc.dbCommand.connection != nil {
		closeErr = dc.dbCommand.connection.Close()
	}

	dc.dbCommand = nil

	if closeErr != nil {
		dc.cfg.logWarn(logMsgCloseConnectionFailed, closeErr, logAttrCommandID, dc.id.String())
		return closeErr
	}

	return nil
}

// Close implements io.Closer by disposing the command.
func (dc *DatabaseCommand) Close() error {
	return dc.Dispose()
}
