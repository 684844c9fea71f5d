package sequelocity

import (
	"errors"
)

var ErrConnectionStringNotFound = errors.New("connection string not found")
var ErrDbProviderFactoryNotFound = errors.New("db provider factory not found")
var ErrEmptyConnectionStringName = errors.New("empty connection string name supplied")
var ErrEmptyProviderName = errors.New("empty provider name supplied")
var ErrOpeningDbConnectionFailed = errors.New("opening db connection failed")
var ErrConnectionDisposed = errors.New("db connection has been disposed")
var ErrCommandDisposed = errors.New("database command has been disposed")
var ErrEmptyCommandText = errors.New("empty command text")
var ErrNilValue = errors.New("value is nil")
var ErrConversionFailed = errors.New("value conversion failed")
var ErrUnsupportedDialect = errors.New("provider has no sql dialect for insert generation")
var ErrBuildingInsertFailed = errors.New("building insert statement failed")
var ErrScanningRowFailed = errors.New("scanning db row failed")
