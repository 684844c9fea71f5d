package sequelocity

// Option defines a functional option for configuring a Configuration.
type Option func(*Configuration) error

// WithConnectionString registers a named connection string.
// The providerName may be empty, in which case the default provider is used when connecting.
func WithConnectionString(name, connectionString, providerName string) Option {
	return func(cfg *Configuration) error {
		if name == "" {
			return ErrEmptyConnectionStringName
		}

		cfg.addConnectionString(ConnectionStringSettings{
			Name:             name,
			ConnectionString: connectionString,
			ProviderName:     providerName,
		})

		return nil
	}
}

// WithDefaultProvider sets the provider used when neither the caller nor the connection string names one.
func WithDefaultProvider(providerName string) Option {
	return func(cfg *Configuration) error {
		if providerName == "" {
			return ErrEmptyProviderName
		}

		cfg.defaultProviderName = providerName

		return nil
	}
}

// WithProviders registers providers under their invariant names and aliases.
func WithProviders(providers ...Provider) Option {
	return func(cfg *Configuration) error {
		for _, provider := range providers {
			if provider.InvariantName == "" || provider.DriverName == "" {
				return ErrEmptyProviderName
			}

			cfg.addProvider(provider)
		}

		return nil
	}
}

// WithLogger sets the logger for all commands built from the Configuration.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL command text with execution timing (development use)
// Info level: Row counts and durations of completed commands (production-safe)
// Warn level: Non-critical issues like failures when releasing connections
// Error level: Failures that are returned to the caller.
func WithLogger(logger Logger) Option {
	return func(cfg *Configuration) error {
		cfg.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for all commands built from the Configuration.
// It receives command durations, returned row counts, and error counts.
func WithMetrics(collector MetricsCollector) Option {
	return func(cfg *Configuration) error {
		cfg.metricsCollector = collector
		return nil
	}
}
