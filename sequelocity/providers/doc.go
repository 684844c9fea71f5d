// Package providers registers the database/sql drivers supported out of the box
// and describes them as sequelocity.Provider values.
//
// Importing this package registers the drivers for MySQL (go-sql-driver/mysql), SQL Server (go-mssqldb),
// PostgreSQL (lib/pq and pgx), and SQLite (modernc.org/sqlite) together with the matching goqu dialects.
//
//	cfg, _ := sequelocity.NewConfiguration(
//		providers.WithAll(),
//		sequelocity.WithConnectionString("SqlServer", dsn, providers.SQLServer),
//	)
package providers
