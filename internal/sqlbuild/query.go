// Package sqlbuild assembles parameterized SQL statements from independent
// clause segments. Each segment keeps its clause text and its bound
// parameters side by side, so a set of where-fragments built once can back
// both a paginated data query and a count(*) query with identical predicates.
//
// Fragments are written with `?` placeholders; Build renumbers them to
// pgx-style `$1..$n` positional placeholders. Parameter bind order equals
// placeholder order by construction: segments concatenate in a fixed order
// and each segment's parameters are appended in the order its fragments were.
package sqlbuild

import (
	"strconv"
	"strings"
)

// Kind tags the type of a bound parameter.
type Kind int

const (
	KindInt Kind = iota
	KindText
	KindBinary
)

// Param is a single typed bound parameter.
type Param struct {
	kind  Kind
	value any
}

// Int binds an integer parameter.
func Int(v int64) Param { return Param{kind: KindInt, value: v} }

// Text binds a text parameter.
func Text(v string) Param { return Param{kind: KindText, value: v} }

// Binary binds a binary parameter.
func Binary(v []byte) Param { return Param{kind: KindBinary, value: v} }

// Kind returns the parameter's type tag.
func (p Param) Kind() Kind { return p.kind }

// Value returns the bound value.
func (p Param) Value() any { return p.value }

type segment struct {
	sql    strings.Builder
	params []Param
}

func (s *segment) append(sql string) { s.sql.WriteString(sql) }

func (s *segment) bind(ps ...Param) { s.params = append(s.params, ps...) }

// Query accumulates a SELECT statement as select/from/where/tail segments.
// The zero value is not usable; construct with NewQuery.
type Query struct {
	sel   segment
	from  segment
	where segment
	tail  segment
}

// NewQuery returns an empty query builder.
func NewQuery() *Query { return &Query{} }

// AppendSelect appends raw text to the select segment.
func (q *Query) AppendSelect(sql string) { q.sel.append(sql) }

// AppendFrom appends raw text to the from segment.
func (q *Query) AppendFrom(sql string) { q.from.append(sql) }

// AppendWhere appends a filter fragment, inserting an "AND" separator when a
// fragment is already present. Filters are therefore pure conjunctions.
func (q *Query) AppendWhere(sql string) {
	if q.where.sql.Len() > 0 {
		q.where.append("AND ")
	}
	q.where.append(sql)
}

// AppendTail appends raw text after the where clause (order/limit/offset).
func (q *Query) AppendTail(sql string) { q.tail.append(sql) }

// BindSelect appends parameters for the select segment.
func (q *Query) BindSelect(ps ...Param) { q.sel.bind(ps...) }

// BindFrom appends parameters for the from segment.
func (q *Query) BindFrom(ps ...Param) { q.from.bind(ps...) }

// BindWhere appends parameters for the where segment.
func (q *Query) BindWhere(ps ...Param) { q.where.bind(ps...) }

// BindTail appends parameters for the tail segment.
func (q *Query) BindTail(ps ...Param) { q.tail.bind(ps...) }

// From returns the accumulated from-clause text, for reuse by a count query.
func (q *Query) From() string { return q.from.sql.String() }

// Where returns the accumulated where-clause text, for reuse by a count query.
func (q *Query) Where() string { return q.where.sql.String() }

// WhereParams returns the where segment's parameters in bind order.
func (q *Query) WhereParams() []Param { return q.where.params }

// Build concatenates the segments in fixed order (select, from, optional
// "WHERE" keyword plus filters, tail), renumbers `?` placeholders to `$n`,
// and returns the statement with its arguments in bind order.
func (q *Query) Build() (string, []any) {
	var sql strings.Builder
	sql.WriteString(q.sel.sql.String())
	sql.WriteString(q.from.sql.String())

	if q.where.sql.Len() != 0 {
		sql.WriteString("WHERE ")
		sql.WriteString(q.where.sql.String())
	}

	sql.WriteString(q.tail.sql.String())

	params := make([]Param, 0, len(q.sel.params)+len(q.from.params)+len(q.where.params)+len(q.tail.params))
	params = append(params, q.sel.params...)
	params = append(params, q.from.params...)
	params = append(params, q.where.params...)
	params = append(params, q.tail.params...)

	return number(sql.String()), values(params)
}

// number rewrites each `?` to a 1-indexed `$n` positional placeholder.
func number(sql string) string {
	var out strings.Builder
	out.Grow(len(sql))
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

func values(params []Param) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.value
	}
	return args
}
