package sqldb

import (
	"strconv"
	"strings"
)

// Dialect names the SQL flavour spoken by the connection.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}

	return "sqlite"
}

// Rebind rewrites ? placeholders into the dialect's form. Queries are written
// once with ? and never contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)

	b.Grow(len(query) + 8)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

// likePattern escapes LIKE wildcards in s and wraps it for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// ilike returns the case-insensitive LIKE operator. SQLite's LIKE already
// ignores ASCII case.
func (d Dialect) ilike() string {
	if d == Postgres {
		return "ILIKE"
	}

	return "LIKE"
}
