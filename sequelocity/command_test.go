package sequelocity_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
	"github.com/AntonStoeckl/sequelocity-go/sequelocity/providers"
	. "github.com/AntonStoeckl/sequelocity-go/testutil/helper" //nolint:revive
)

func Test_Dispose_ShouldNull_TheDbCommand(t *testing.T) {
	// arrange
	cfg := GivenSQLiteConfiguration(t)
	command := GivenSQLiteCommand(t, cfg)

	// act
	err := command.Dispose()

	// assert
	assert.NoError(t, err)
	assert.Nil(t, command.DbCommand())
}

func Test_Dispose_ShouldNull_TheDbCommand_When_Deferred(t *testing.T) {
	// arrange
	cfg := GivenSQLiteConfiguration(t)
	var command *sequelocity.DatabaseCommand

	// act
	func() {
		command = GivenSQLiteCommand(t, cfg)
		defer func() { _ = command.Close() }()
	}()

	// assert
	assert.Nil(t, command.DbCommand())
}

func Test_Dispose_ShouldBe_Idempotent(t *testing.T) {
	// arrange
	cfg := GivenSQLiteConfiguration(t)
	command := GivenSQLiteCommand(t, cfg)
	require.NoError(t, command.DbCommand().Connection().Open(context.Background()))

	// act
	firstErr := command.Dispose()
	secondErr := command.Dispose()

	// assert
	assert.NoError(t, firstErr)
	assert.NoError(t, secondErr)
	assert.Nil(t, command.DbCommand())
}

func Test_Execute_ShouldFail_WithCommandDisposed_When_TheCommandWasDisposed(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// arrange
	preExecuteCalls := 0
	cfg.EventHandlers().AddPreExecute(func(_ context.Context, _ *sequelocity.DatabaseCommand) {
		preExecuteCalls++
	})
	command := GivenSQLiteCommand(t, cfg).SetCommandText("SELECT 1")
	require.NoError(t, command.Dispose())

	// act
	_, err := command.SetCommandText("SELECT 2").ExecuteScalar(ctxWithTimeout)

	// assert
	assert.ErrorIs(t, err, sequelocity.ErrCommandDisposed)
	assert.Equal(t, 0, preExecuteCalls)
	assert.Empty(t, command.CommandText())
}

func Test_Execute_ShouldFail_WithEmptyCommandText_AndDispose(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// arrange
	var observedErr error
	cfg.EventHandlers().AddUnhandledException(func(_ context.Context, err error, _ *sequelocity.DatabaseCommand) {
		observedErr = err
	})
	command := GivenSQLiteCommand(t, cfg).SetCommandText("   ")

	// act
	_, err := command.ExecuteNonQuery(ctxWithTimeout)

	// assert
	assert.ErrorIs(t, err, sequelocity.ErrEmptyCommandText)
	assert.ErrorIs(t, observedErr, sequelocity.ErrEmptyCommandText)
	assert.Nil(t, command.DbCommand())
}

func Test_Execute_ShouldSee_ChangesMadeByPreExecuteEventHandlers(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// arrange
	cfg.EventHandlers().AddPreExecute(func(_ context.Context, command *sequelocity.DatabaseCommand) {
		command.SetCommandText("SELECT 'changed by handler'")
	})

	// act
	value, err := GivenSQLiteCommand(t, cfg).
		SetCommandText("SELECT 'original'").
		ExecuteScalar(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "changed by handler", value)
}

func Test_Execute_ShouldReuse_TheOpenConnection_AcrossKeepOpenExecutions(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)
	command := GivenSQLiteCommand(t, cfg)

	// arrange
	_, err := command.
		SetCommandText("CREATE TEMP TABLE SuperHero ( SuperHeroId INTEGER PRIMARY KEY, SuperHeroName TEXT NOT NULL )").
		ExecuteNonQuery(ctxWithTimeout, sequelocity.KeepConnectionOpen())
	require.NoError(t, err)

	rowsAffected, err := command.
		SetCommandText("INSERT INTO SuperHero ( SuperHeroName ) VALUES ( 'Superman' ), ( 'Batman' )").
		ExecuteNonQuery(ctxWithTimeout, sequelocity.KeepConnectionOpen())
	require.NoError(t, err)
	assert.Equal(t, int64(2), rowsAffected)

	// act
	superHeroes, err := command.
		SetCommandText(SelectSuperHeroesSQL).
		ExecuteToDynamicList(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, superHeroes, 2)
	assert.Nil(t, command.DbCommand())
}

func Test_Execute_ShouldKeep_TheCommandOpen_AfterAFailure_When_KeepConnectionOpen_WasPassed(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)
	command := GivenSQLiteCommand(t, cfg).SetCommandText("asdf;lkj")

	// act
	_, err := command.ExecuteToDynamicList(ctxWithTimeout, sequelocity.KeepConnectionOpen())

	// assert
	assert.Error(t, err)
	require.NotNil(t, command.DbCommand())
	assert.Equal(t, sequelocity.ConnectionOpen, command.DbCommand().Connection().State())

	value, retryErr := command.SetCommandText("SELECT 7").ExecuteScalar(ctxWithTimeout)
	assert.NoError(t, retryErr)
	assert.Equal(t, int64(7), value)
	assert.Nil(t, command.DbCommand())
}

func Test_Execute_ShouldCall_TheUnhandledExceptionEventHandler_When_OpeningTheConnectionFails(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	missingDirectory := filepath.Join(t.TempDir(), "missing", "directory", "sequelocity.db")
	cfg, err := sequelocity.NewConfiguration(
		providers.WithAll(),
		sequelocity.WithConnectionString("Broken", missingDirectory, providers.SQLite),
	)
	require.NoError(t, err)

	// arrange
	unhandledExceptionCalls := 0
	postExecuteCalls := 0
	cfg.EventHandlers().AddUnhandledException(func(_ context.Context, _ error, _ *sequelocity.DatabaseCommand) {
		unhandledExceptionCalls++
	})
	cfg.EventHandlers().AddPostExecute(func(_ context.Context, _ *sequelocity.DatabaseCommand) {
		postExecuteCalls++
	})
	command, err := cfg.GetDatabaseCommand("Broken")
	require.NoError(t, err)

	// act
	_, execErr := command.SetCommandText("SELECT 1").ExecuteScalar(ctxWithTimeout)

	// assert
	assert.Error(t, execErr)
	assert.Equal(t, 1, unhandledExceptionCalls)
	assert.Equal(t, 0, postExecuteCalls)
	assert.Nil(t, command.DbCommand())
}

func Test_Execute_ShouldPass_Parameters(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// arrange
	GivenSuperHeroesWereInserted(t, ctxWithTimeout, cfg, "Superman", "Batman")

	// act
	superHeroes, err := GivenSQLiteCommand(t, cfg).
		SetCommandText("SELECT SuperHeroId, SuperHeroName FROM SuperHero WHERE SuperHeroName = @name").
		AddParameter("@name", "Batman").
		ExecuteToDynamicList(ctxWithTimeout)

	// assert
	require.NoError(t, err)
	require.Len(t, superHeroes, 1)
	assert.Equal(t, int64(2), superHeroes[0].Value("SuperHeroId"))
}

func Test_AddParameter_ShouldStrip_ThePrefixFromTheName(t *testing.T) {
	// arrange
	cfg := GivenSQLiteConfiguration(t)
	command := GivenSQLiteCommand(t, cfg)
	defer func() { _ = command.Dispose() }()

	// act
	command.AddParameter("@name", "Batman").AddParameter(":power", "money").AddParameters(1, 2)

	// assert
	assert.Equal(
		t,
		[]any{sql.Named("name", "Batman"), sql.Named("power", "money"), 1, 2},
		command.DbCommand().Parameters,
	)

	command.ClearParameters()
	assert.Empty(t, command.DbCommand().Parameters)
}

func Test_AppendCommandText_ShouldJoin_StatementsOnNewLines(t *testing.T) {
	// arrange
	cfg := GivenSQLiteConfiguration(t)
	command := GivenSQLiteCommand(t, cfg)
	defer func() { _ = command.Dispose() }()

	// act
	command.AppendCommandText("SELECT 1;").AppendCommandText("SELECT 2;")

	// assert
	assert.Equal(t, "SELECT 1;\nSELECT 2;", command.CommandText())
}

func Test_Execute_ShouldFail_When_TheCommandTimeoutExpires(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// act
	_, err := GivenSQLiteCommand(t, cfg).
		SetCommandText(`
WITH RECURSIVE counter(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM counter)
SELECT COUNT(*) FROM counter`).
		SetCommandTimeout(50 * time.Millisecond).
		ExecuteScalar(ctxWithTimeout)

	// assert
	assert.Error(t, err)
}

func Test_DatabaseCommand_ShouldHave_AUniqueID(t *testing.T) {
	// arrange
	cfg := GivenSQLiteConfiguration(t)

	// act
	first := GivenSQLiteCommand(t, cfg)
	second := GivenSQLiteCommand(t, cfg)

	// assert
	assert.NotEqual(t, first.ID(), second.ID())
	assert.NoError(t, first.Dispose())
	assert.NoError(t, second.Dispose())
}

func Test_ExecuteReader_ShouldHandOver_TheNativeRows(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// arrange
	GivenSuperHeroesWereInserted(t, ctxWithTimeout, cfg, "Superman", "Batman")
	command := GivenSQLiteCommand(t, cfg).SetCommandText(SelectSuperHeroesSQL)

	var names []string

	// act
	err := command.ExecuteReader(ctxWithTimeout, func(rows *sqlx.Rows) error {
		for rows.Next() {
			var superHero SuperHero
			if scanErr := rows.StructScan(&superHero); scanErr != nil {
				return scanErr
			}

			names = append(names, superHero.SuperHeroName)
		}

		return nil
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"Superman", "Batman"}, names)
	assert.Nil(t, command.DbCommand())
}

func Test_ExecuteReader_ShouldTreat_ReadErrors_AsExecutionErrors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := GivenSQLiteConfiguration(t)

	// arrange
	readErr := errors.New("read failed")
	var observedErr error
	cfg.EventHandlers().AddUnhandledException(func(_ context.Context, err error, _ *sequelocity.DatabaseCommand) {
		observedErr = err
	})
	command := GivenSQLiteCommand(t, cfg).SetCommandText("SELECT 1")

	// act
	err := command.ExecuteReader(ctxWithTimeout, func(_ *sqlx.Rows) error {
		return readErr
	})

	// assert
	assert.Same(t, readErr, err)
	assert.Same(t, readErr, observedErr)
	assert.Nil(t, command.DbCommand())
}
