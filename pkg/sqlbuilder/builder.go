package sqlbuilder

import (
	sq "github.com/Masterminds/squirrel"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Builder wraps squirrel with the placeholder format of the configured driver.
type Builder struct {
	sb     sq.StatementBuilderType
	driver string
}

// New returns a builder for driver. Anything other than postgres uses "?" placeholders.
func New(driver string) Builder {
	format := sq.PlaceholderFormat(sq.Question)
	if driver == DriverPostgres {
		format = sq.Dollar
	}
	return Builder{
		sb:     sq.StatementBuilder.PlaceholderFormat(format),
		driver: driver,
	}
}

func (b Builder) Select(columns ...string) sq.SelectBuilder {
	return b.sb.Select(columns...)
}

func (b Builder) Insert(table string) sq.InsertBuilder {
	return b.sb.Insert(table)
}

func (b Builder) Update(table string) sq.UpdateBuilder {
	return b.sb.Update(table)
}

func (b Builder) Delete(table string) sq.DeleteBuilder {
	return b.sb.Delete(table)
}

// Driver returns the driver name the builder was created for.
func (b Builder) Driver() string {
	return b.driver
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is available.
func (b Builder) SupportsRowLocks() bool {
	return b.driver == DriverPostgres
}
