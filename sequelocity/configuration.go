package sequelocity

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

// ConnectionStringSettings is a named connection string together with its provider.
type ConnectionStringSettings struct {
	Name             string
	ConnectionString string
	ProviderName     string
}

// Configuration is the caller-owned home of connection strings, providers, and event handlers.
// It is safe for concurrent use, the commands built from it are not.
type Configuration struct {
	mu                  sync.RWMutex
	connectionStrings   map[string]ConnectionStringSettings
	providers           map[string]Provider
	defaultProviderName string
	eventHandlers       *EventHandlers
	logger              Logger
	metricsCollector    MetricsCollector
}

// NewConfiguration creates a Configuration with optional settings.
func NewConfiguration(options ...Option) (*Configuration, error) {
	cfg := &Configuration{
		connectionStrings: make(map[string]ConnectionStringSettings),
		providers:         make(map[string]Provider),
		eventHandlers:     NewEventHandlers(),
	}

	for _, option := range options {
		if err := option(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// EventHandlers returns the pre-execute, post-execute, and unhandled-exception handler registries.
func (cfg *Configuration) EventHandlers() *EventHandlers {
	return cfg.eventHandlers
}

// ConnectionString looks up a named connection string, the name is matched case-insensitively.
func (cfg *Configuration) ConnectionString(name string) (ConnectionStringSettings, bool) {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	settings, ok := cfg.connectionStrings[strings.ToLower(name)]

	return settings, ok
}

// DefaultProviderName returns the provider used when no other provider is named.
func (cfg *Configuration) DefaultProviderName() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.defaultProviderName
}

// ClearDefaultProvider removes the default provider.
func (cfg *Configuration) ClearDefaultProvider() {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	cfg.defaultProviderName = ""
}

// Provider resolves a provider by invariant name or alias.
// Drivers registered with database/sql but unknown to the Configuration resolve to a provider without a dialect.
func (cfg *Configuration) Provider(name string) (Provider, bool) {
	if name == "" {
		return Provider{}, false
	}

	cfg.mu.RLock()
	provider, ok := cfg.providers[strings.ToLower(name)]
	cfg.mu.RUnlock()

	if ok {
		return provider, true
	}

	if slices.Contains(sql.Drivers(), name) {
		return Provider{InvariantName: name, DriverName: name}, true
	}

	return Provider{}, false
}

// CreateDbConnection creates an unopened DbConnection.
//
// The connectionStringOrName is first looked up as a configured connection string name,
// otherwise it is used as a literal connection string. An empty providerName falls back to the provider
// of the named connection string and then to the default provider.
// No network I/O happens here, the connection is opened on first execution.
func (cfg *Configuration) CreateDbConnection(connectionStringOrName, providerName string) (*DbConnection, error) {
	connectionString, provider, err := cfg.resolve(connectionStringOrName, providerName)
	if err != nil {
		cfg.logError(logMsgResolveFailed, err, logAttrProvider, providerName)
		return nil, err
	}

	db, openErr := sqlx.Open(provider.DriverName, connectionString)
	if openErr != nil {
		cfg.logError(logMsgOpenDBFailed, openErr, logAttrProvider, provider.InvariantName)
		return nil, errors.Join(ErrOpeningDbConnectionFailed, openErr)
	}

	return newDbConnection(db, provider, connectionString), nil
}

// GetDatabaseCommand builds a DatabaseCommand for a named connection string or a literal connection string.
func (cfg *Configuration) GetDatabaseCommand(connectionStringOrName string) (*DatabaseCommand, error) {
	return cfg.GetDatabaseCommandForProvider(connectionStringOrName, "")
}

// GetDatabaseCommandForProvider builds a DatabaseCommand using an explicit provider.
func (cfg *Configuration) GetDatabaseCommandForProvider(connectionStringOrName, providerName string) (*DatabaseCommand, error) {
	connection, err := cfg.CreateDbConnection(connectionStringOrName, providerName)
	if err != nil {
		return nil, err
	}

	return newDatabaseCommand(cfg, connection), nil
}

func (cfg *Configuration) resolve(connectionStringOrName, providerName string) (string, Provider, error) {
	if connectionStringOrName == "" {
		return "", Provider{}, ErrConnectionStringNotFound
	}

	connectionString := connectionStringOrName

	if settings, ok := cfg.ConnectionString(connectionStringOrName); ok {
		if settings.ConnectionString == "" {
			return "", Provider{}, errors.Join(
				ErrConnectionStringNotFound,
				fmt.Errorf("connection string %q is empty", settings.Name),
			)
		}

		connectionString = settings.ConnectionString

		if providerName == "" {
			providerName = settings.ProviderName
		}
	}

	if providerName == "" {
		providerName = cfg.DefaultProviderName()
	}

	if providerName == "" {
		return "", Provider{}, ErrDbProviderFactoryNotFound
	}

	provider, ok := cfg.Provider(providerName)
	if !ok {
		return "", Provider{}, errors.Join(
			ErrDbProviderFactoryNotFound,
			fmt.Errorf("provider %q is not registered", providerName),
		)
	}

	return connectionString, provider, nil
}

func (cfg *Configuration) addConnectionString(settings ConnectionStringSettings) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	cfg.connectionStrings[strings.ToLower(settings.Name)] = settings
}

func (cfg *Configuration) addProvider(provider Provider) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	for _, name := range provider.names() {
		cfg.providers[name] = provider
	}
}
