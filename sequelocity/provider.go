package sequelocity

import (
	"strings"
)

// Provider binds an invariant name, as used in configuration, to a database/sql driver.
// Dialect names the goqu dialect used by GenerateInsert, it may be empty.
type Provider struct {
	InvariantName string
	DriverName    string
	Dialect       string
	Aliases       []string
}

// names returns the lower-cased lookup keys of the provider.
func (p Provider) names() []string {
	names := make([]string, 0, len(p.Aliases)+1)
	names = append(names, strings.ToLower(p.InvariantName))

	for _, alias := range p.Aliases {
		names = append(names, strings.ToLower(alias))
	}

	return names
}
