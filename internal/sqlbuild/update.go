package sqlbuild

import "strings"

// Update accumulates an UPDATE statement as update/set/where segments,
// following the same segment contract as Query. AppendSet inserts comma
// separators so assignments compose from optional fragments.
type Update struct {
	update strings.Builder
	set    segment
	where  segment
}

// NewUpdate returns an empty update builder.
func NewUpdate() *Update { return &Update{} }

// AppendUpdate appends raw text to the update clause ("update <table> ").
func (u *Update) AppendUpdate(sql string) { u.update.WriteString(sql) }

// AppendSet appends an assignment fragment, inserting a comma separator when
// an assignment is already present.
func (u *Update) AppendSet(sql string) {
	if u.set.sql.Len() > 0 {
		u.set.append(", ")
	}
	u.set.append(sql)
}

// AppendWhere appends a filter fragment, inserting an "AND" separator when a
// fragment is already present.
func (u *Update) AppendWhere(sql string) {
	if u.where.sql.Len() > 0 {
		u.where.append("AND ")
	}
	u.where.append(sql)
}

// BindSet appends parameters for the set segment.
func (u *Update) BindSet(ps ...Param) { u.set.bind(ps...) }

// BindWhere appends parameters for the where segment.
func (u *Update) BindWhere(ps ...Param) { u.where.bind(ps...) }

// Build concatenates update, "SET" plus assignments, and the optional where
// clause, renumbers placeholders and returns the statement with its
// arguments in bind order.
func (u *Update) Build() (string, []any) {
	var sql strings.Builder
	sql.WriteString(u.update.String())
	sql.WriteString("SET ")
	sql.WriteString(u.set.sql.String())

	if u.where.sql.Len() != 0 {
		sql.WriteString("WHERE ")
		sql.WriteString(u.where.sql.String())
	}

	params := make([]Param, 0, len(u.set.params)+len(u.where.params))
	params = append(params, u.set.params...)
	params = append(params, u.where.params...)

	return number(sql.String()), values(params)
}
