// Package sequelocity provides a thin, fluent convenience layer over database/sql drivers.
//
// A Configuration holds named connection strings, the known providers (database/sql drivers),
// and the event handlers that observe command execution. Commands are built from it,
// receive their SQL text fluently, and are disposed automatically after execution
// unless KeepConnectionOpen is passed.
//
// Key types:
//   - Configuration: caller-owned connection strings, providers, and event handlers
//   - DatabaseCommand: the fluent command wrapper around a native DbCommand
//   - DbConnection: a single connection bound to a provider, opened lazily
//   - Row: an ordered column-name-to-value mapping produced per result row
//
// Common usage pattern:
//
//	cfg, _ := sequelocity.NewConfiguration(
//		providers.WithAll(),
//		sequelocity.WithConnectionString("MySql", dsn, providers.MySQL),
//	)
//
//	command, err := cfg.GetDatabaseCommand("MySql")
//	if err != nil {
//		// handle error
//	}
//
//	superHeroes, err := command.
//		SetCommandText("SELECT SuperHeroId, SuperHeroName FROM SuperHero").
//		ExecuteToDynamicList(ctx)
package sequelocity
