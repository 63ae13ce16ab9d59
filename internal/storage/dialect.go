package storage

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the supported databases.
type Dialect struct {
	Name   string
	Driver string
	// Migrations is the directory under migrations.FS holding this dialect's schema.
	Migrations string
	numbered   bool
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite", Migrations: "sqlite"}
	Postgres = Dialect{Name: "postgres", Driver: "postgres", Migrations: "postgres", numbered: true}
)

// Rebind rewrites "?" placeholders into the dialect's bind style. Queries in
// this package never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
