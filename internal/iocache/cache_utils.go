package iocache

import (
	"fmt"
	"regexp"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// tableNamePattern restricts table names to plain SQL identifiers. Table
// names are interpolated into DDL strings, so anything else is rejected
// outright rather than escaped.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q: must match %s", name, tableNamePattern)
	}
	return nil
}

// quoteTableName quotes an identifier in the backend's dialect. MySQL uses
// backticks; SQLite and PostgreSQL use double quotes.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}
