// Package config loads named connection strings and the default provider from the environment.
//
// Variables follow the pattern
//
//	<PREFIX>_CONNECTION_<NAME>=<connection string>
//	<PREFIX>_PROVIDER_<NAME>=<provider invariant name>
//	<PREFIX>_DEFAULT_PROVIDER=<provider invariant name>
//
// Optional .env files are loaded first with godotenv, variables already set in the environment win.
package config

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
)

// DefaultPrefix is the environment variable prefix used by Load when none is given.
const DefaultPrefix = "SEQUELOCITY"

const (
	connectionInfix = "_CONNECTION_"
	providerInfix   = "_PROVIDER_"
	defaultProvider = "_DEFAULT_PROVIDER"
)

// Settings is the environment-derived configuration.
type Settings struct {
	ConnectionStrings   []sequelocity.ConnectionStringSettings
	DefaultProviderName string
}

// Load reads optional .env files and then the environment.
// Files that do not exist are skipped, other read errors are returned.
func Load(prefix string, envFiles ...string) (Settings, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}

	return FromEnviron(prefix, os.Environ()), nil
}

// FromEnviron extracts Settings from KEY=VALUE pairs, e.g. os.Environ().
// Connection names are the upper-cased variable suffix, names are matched case-insensitively later on.
func FromEnviron(prefix string, environ []string) Settings {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	connections := make(map[string]string)
	providers := make(map[string]string)
	settings := Settings{}

	for _, pair := range environ {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		switch {
		case key == prefix+defaultProvider:
			settings.DefaultProviderName = value

		case strings.HasPrefix(key, prefix+connectionInfix):
			if name := strings.TrimPrefix(key, prefix+connectionInfix); name != "" {
				connections[name] = value
			}

		case strings.HasPrefix(key, prefix+providerInfix):
			if name := strings.TrimPrefix(key, prefix+providerInfix); name != "" {
				providers[name] = value
			}
		}
	}

	names := make([]string, 0, len(connections))
	for name := range connections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		settings.ConnectionStrings = append(settings.ConnectionStrings, sequelocity.ConnectionStringSettings{
			Name:             name,
			ConnectionString: connections[name],
			ProviderName:     providers[name],
		})
	}

	return settings
}

// Options converts Settings into sequelocity options.
func (s Settings) Options() []sequelocity.Option {
	options := make([]sequelocity.Option, 0, len(s.ConnectionStrings)+1)

	for _, cs := range s.ConnectionStrings {
		options = append(options, sequelocity.WithConnectionString(cs.Name, cs.ConnectionString, cs.ProviderName))
	}

	if s.DefaultProviderName != "" {
		options = append(options, sequelocity.WithDefaultProvider(s.DefaultProviderName))
	}

	return options
}
