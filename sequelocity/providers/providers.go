package providers

import (
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"     // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"  // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"   // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlserver" // dialect import
	_ "github.com/go-sql-driver/mysql"                   // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib"                   // pgx driver
	_ "github.com/lib/pq"                                // postgres driver
	_ "github.com/microsoft/go-mssqldb"                  // sqlserver driver
	_ "modernc.org/sqlite"                               // sqlite driver

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
)

// Invariant names of the built-in providers.
const (
	MySQL     = "mysql"
	SQLServer = "sqlserver"
	Postgres  = "postgres"
	PGX       = "pgx"
	SQLite    = "sqlite"
)

// MySQLProvider uses github.com/go-sql-driver/mysql.
// Multiple statements in one command text need multiStatements=true in the DSN.
func MySQLProvider() sequelocity.Provider {
	return sequelocity.Provider{
		InvariantName: MySQL,
		DriverName:    "mysql",
		Dialect:       "mysql",
		Aliases:       []string{"MySql.Data.MySqlClient", "MySqlConnector"},
	}
}

// SQLServerProvider uses github.com/microsoft/go-mssqldb.
func SQLServerProvider() sequelocity.Provider {
	return sequelocity.Provider{
		InvariantName: SQLServer,
		DriverName:    "sqlserver",
		Dialect:       "sqlserver",
		Aliases:       []string{"System.Data.SqlClient", "Microsoft.Data.SqlClient", "mssql"},
	}
}

// PostgresProvider uses github.com/lib/pq.
func PostgresProvider() sequelocity.Provider {
	return sequelocity.Provider{
		InvariantName: Postgres,
		DriverName:    "postgres",
		Dialect:       "postgres",
		Aliases:       []string{"Npgsql", "pq"},
	}
}

// PGXProvider uses the database/sql adapter of github.com/jackc/pgx/v5.
func PGXProvider() sequelocity.Provider {
	return sequelocity.Provider{
		InvariantName: PGX,
		DriverName:    "pgx",
		Dialect:       "postgres",
	}
}

// SQLiteProvider uses modernc.org/sqlite.
func SQLiteProvider() sequelocity.Provider {
	return sequelocity.Provider{
		InvariantName: SQLite,
		DriverName:    "sqlite",
		Dialect:       "sqlite3",
		Aliases:       []string{"System.Data.SQLite", "sqlite3"},
	}
}

// All returns every built-in provider.
func All() []sequelocity.Provider {
	return []sequelocity.Provider{
		MySQLProvider(),
		SQLServerProvider(),
		PostgresProvider(),
		PGXProvider(),
		SQLiteProvider(),
	}
}

// WithAll registers every built-in provider with a sequelocity.Configuration.
func WithAll() sequelocity.Option {
	return sequelocity.WithProviders(All()...)
}
