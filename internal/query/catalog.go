// Package query builds the dynamic parts of certificate and tag SQL.
// Column names only ever come from a closed FieldCatalog; every value is
// bound as a named pgx argument and never concatenated into the statement.
package query

import "strings"

// FieldCatalog is the fixed set of attribute names an entity exposes for
// sorting, filtering, and partial updates. Lookups are case-insensitive and
// unknown names simply report false.
type FieldCatalog struct {
	order      []string
	sortable   map[string]bool
	filterable map[string]bool
	updatable  map[string]bool
}

// newCatalog builds a catalog from canonical (lowercase) column names.
// order fixes the sequence in which update assignments are emitted.
func newCatalog(order, sortable, filterable, updatable []string) FieldCatalog {
	return FieldCatalog{
		order:      order,
		sortable:   toSet(sortable),
		filterable: toSet(filterable),
		updatable:  toSet(updatable),
	}
}

// CertificateFields is the catalog for the certificates table.
// Only text columns are filterable because LIKE does not apply to integers.
var CertificateFields = newCatalog(
	[]string{"id", "name", "description", "price", "duration", "create_date", "last_update_date"},
	[]string{"id", "name", "description", "price", "duration", "create_date", "last_update_date"},
	[]string{"name", "description"},
	[]string{"name", "description", "price", "duration", "last_update_date"},
)

// TagFields is the catalog for the tags table.
var TagFields = newCatalog(
	[]string{"id", "name"},
	[]string{"id", "name"},
	[]string{"name"},
	nil,
)

// IsSortable reports whether name may appear in an ORDER BY clause.
func (c FieldCatalog) IsSortable(name string) bool {
	return c.sortable[canonical(name)]
}

// IsFilterable reports whether name may appear in a partial-match predicate.
func (c FieldCatalog) IsFilterable(name string) bool {
	return c.filterable[canonical(name)]
}

// IsUpdatable reports whether name may appear in an UPDATE assignment.
func (c FieldCatalog) IsUpdatable(name string) bool {
	return c.updatable[canonical(name)]
}

// Column returns the canonical column name for name, and false when the
// catalog does not know it under any role.
func (c FieldCatalog) Column(name string) (string, bool) {
	col := canonical(name)
	if c.sortable[col] || c.filterable[col] || c.updatable[col] {
		return col, true
	}
	return "", false
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
