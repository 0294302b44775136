package query

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// Fragment is the clause-only tail of a SELECT: predicates, ordering, and
// the named arguments they bind. The zero value is an empty fragment.
// Fragments are values; every Build call returns a new one.
type Fragment struct {
	where   []string
	orderBy string
	args    pgx.NamedArgs
}

// Sorted reports whether an ORDER BY clause has been set.
func (f Fragment) Sorted() bool {
	return f.orderBy != ""
}

// Args returns a copy of the named arguments bound so far.
func (f Fragment) Args() pgx.NamedArgs {
	out := make(pgx.NamedArgs, len(f.args))
	for k, v := range f.args {
		out[k] = v
	}
	return out
}

// SQL renders the fragment onto base, e.g. "SELECT ... FROM certificates".
func (f Fragment) SQL(base string) string {
	var b strings.Builder
	b.WriteString(base)
	if len(f.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(f.where, " AND "))
	}
	if f.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(f.orderBy)
	}
	return b.String()
}

// Statement is a complete parameterized statement ready for db.Exec/QueryRow.
type Statement struct {
	SQL  string
	Args pgx.NamedArgs
}

// Assignment pairs a catalog field with the value to write.
// A nil Value means the field was not supplied and is skipped.
type Assignment struct {
	Field string
	Value any
}

// Builder validates field names against a FieldCatalog before emitting SQL.
type Builder struct {
	fields FieldCatalog
}

// NewBuilder constructs a Builder for the given catalog.
func NewBuilder(fields FieldCatalog) *Builder {
	return &Builder{fields: fields}
}

// BuildSort returns base ordered by field. A later call replaces the ordering.
// Only the single given column is ordered on; ties come back in whatever
// order Postgres produces.
func (b *Builder) BuildSort(base Fragment, field string, ascending bool) (Fragment, error) {
	if !b.fields.IsSortable(field) {
		return Fragment{}, fmt.Errorf("%w: cannot sort by %q", domain.ErrInvalidField, field)
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	out := base.clone()
	out.orderBy = canonical(field) + " " + dir
	return out, nil
}

// BuildPartialMatch adds a case-sensitive "contains value" predicate on field,
// AND-ed with any predicate already present. LIKE metacharacters inside value
// are escaped so they match literally.
func (b *Builder) BuildPartialMatch(base Fragment, field, value string) (Fragment, error) {
	if !b.fields.IsFilterable(field) {
		return Fragment{}, fmt.Errorf("%w: cannot filter by %q", domain.ErrInvalidField, field)
	}
	col := canonical(field)
	out := base.clone()
	param := fmt.Sprintf("match_%s_%d", col, len(out.where))
	out.where = append(out.where, col+" LIKE @"+param)
	out.args[param] = "%" + escapeLike(value) + "%"
	return out, nil
}

// BuildUpdate appends "col = @col" for every assignment with a non-nil value
// to base (e.g. "UPDATE certificates SET") and finishes with "WHERE id = @id".
// Assignments are emitted in catalog order regardless of input order.
// Returns domain.ErrNoFieldsToUpdate when nothing would be assigned.
func (b *Builder) BuildUpdate(base string, id int64, assignments []Assignment) (Statement, error) {
	values := make(map[string]any, len(assignments))
	for _, a := range assignments {
		if !b.fields.IsUpdatable(a.Field) {
			return Statement{}, fmt.Errorf("%w: cannot update %q", domain.ErrInvalidField, a.Field)
		}
		if a.Value == nil {
			continue
		}
		values[canonical(a.Field)] = a.Value
	}
	if len(values) == 0 {
		return Statement{}, domain.ErrNoFieldsToUpdate
	}

	args := pgx.NamedArgs{"id": id}
	sets := make([]string, 0, len(values))
	for _, col := range b.fields.order {
		v, ok := values[col]
		if !ok {
			continue
		}
		sets = append(sets, col+" = @"+col)
		args[col] = v
	}

	return Statement{
		SQL:  base + " " + strings.Join(sets, ", ") + " WHERE id = @id",
		Args: args,
	}, nil
}

func (f Fragment) clone() Fragment {
	return Fragment{
		where:   append([]string(nil), f.where...),
		orderBy: f.orderBy,
		args:    f.Args(),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters using Postgres' default escape
// character, the backslash.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
