package helper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
	"github.com/AntonStoeckl/sequelocity-go/sequelocity/providers"
)

// SQLiteConnectionName is the connection string name registered by GivenSQLiteConfiguration.
const SQLiteConnectionName = "SQLite"

const createSuperHeroTableSQL = `
CREATE TABLE IF NOT EXISTS SuperHero
(
    SuperHeroId     INTEGER         NOT NULL    PRIMARY KEY AUTOINCREMENT,
    SuperHeroName   VARCHAR(120)    NOT NULL
)`

// SelectSuperHeroesSQL selects all super heroes in insertion order.
const SelectSuperHeroesSQL = `
SELECT  SuperHeroId,
        SuperHeroName
FROM    SuperHero
ORDER BY SuperHeroId`

// SuperHero maps a SuperHero table row.
type SuperHero struct {
	SuperHeroID   int64  `db:"SuperHeroId"`
	SuperHeroName string `db:"SuperHeroName"`
}

// GivenSQLiteDSN returns the path of a fresh SQLite database file that is removed after the test.
func GivenSQLiteDSN(t testing.TB) string {
	return filepath.Join(t.TempDir(), "sequelocity.db")
}

// GivenSQLiteConfiguration creates a Configuration with all built-in providers
// and a connection string named SQLiteConnectionName pointing to a fresh SQLite database.
func GivenSQLiteConfiguration(t testing.TB, options ...sequelocity.Option) *sequelocity.Configuration {
	allOptions := []sequelocity.Option{
		providers.WithAll(),
		sequelocity.WithConnectionString(SQLiteConnectionName, GivenSQLiteDSN(t), providers.SQLite),
	}
	allOptions = append(allOptions, options...)

	cfg, err := sequelocity.NewConfiguration(allOptions...)
	require.NoError(t, err, "error in arranging the configuration")

	return cfg
}

// GivenSQLiteCommand builds a command for the SQLite connection of cfg.
func GivenSQLiteCommand(t testing.TB, cfg *sequelocity.Configuration) *sequelocity.DatabaseCommand {
	command, err := cfg.GetDatabaseCommand(SQLiteConnectionName)
	require.NoError(t, err, "error in arranging the database command")

	return command
}

// GivenSuperHeroesWereInserted creates the SuperHero table if needed and inserts the given names in order.
func GivenSuperHeroesWereInserted(t testing.TB, ctx context.Context, cfg *sequelocity.Configuration, names ...string) {
	_, err := GivenSQLiteCommand(t, cfg).
		SetCommandText(createSuperHeroTableSQL).
		ExecuteNonQuery(ctx)
	require.NoError(t, err, "error in arranging the SuperHero table")

	for _, name := range names {
		_, insertErr := GivenSQLiteCommand(t, cfg).
			SetCommandText("INSERT INTO SuperHero ( SuperHeroName ) VALUES ( ? )").
			AddParameters(name).
			ExecuteNonQuery(ctx)
		require.NoError(t, insertErr, "error in arranging a SuperHero row")
	}
}

// GivenSuperHeroTableExists creates the SuperHero table without rows.
func GivenSuperHeroTableExists(t testing.TB, ctx context.Context, cfg *sequelocity.Configuration) {
	GivenSuperHeroesWereInserted(t, ctx, cfg)
}

// Connection names and environment variables of the integration test databases.
const (
	MySQLConnectionName     = "MySql"
	SQLServerConnectionName = "SqlServer"
	MySQLDSNEnv             = "SEQUELOCITY_TEST_MYSQL_DSN"
	SQLServerDSNEnv         = "SEQUELOCITY_TEST_SQLSERVER_DSN"
)

// GivenIntegrationConfiguration creates a Configuration with a connection string named connectionName
// read from dsnEnv. The test is skipped when dsnEnv is not set.
func GivenIntegrationConfiguration(
	t testing.TB,
	dsnEnv string,
	connectionName string,
	providerName string,
	options ...sequelocity.Option,
) *sequelocity.Configuration {

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}

	allOptions := []sequelocity.Option{
		providers.WithAll(),
		sequelocity.WithConnectionString(connectionName, dsn, providerName),
	}
	allOptions = append(allOptions, options...)

	cfg, err := sequelocity.NewConfiguration(allOptions...)
	require.NoError(t, err, "error in arranging the configuration")

	return cfg
}
