package store

import (
	"fmt"
	"strings"
)

// Cond is a filter fragment with `?` placeholders. The repository rewrites
// placeholders to the positional `$n` form pgx expects, offset past any
// arguments already bound by the enclosing query.
type Cond struct {
	Expr string
	Args []any
}

// Eq matches column = value.
func Eq(column string, value any) Cond {
	return Cond{Expr: column + " = ?", Args: []any{value}}
}

// ILike matches column ILIKE pattern.
func ILike(column string, pattern string) Cond {
	return Cond{Expr: column + " ILIKE ?", Args: []any{pattern}}
}

// And joins conditions conjunctively. And() with no arguments matches
// everything.
func And(conds ...Cond) Cond {
	if len(conds) == 0 {
		return Cond{Expr: "TRUE"}
	}
	if len(conds) == 1 {
		return conds[0]
	}
	exprs := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		exprs = append(exprs, "("+c.Expr+")")
		args = append(args, c.Args...)
	}
	return Cond{Expr: strings.Join(exprs, " AND "), Args: args}
}

// rebind rewrites `?` placeholders to `$n`, starting at n = offset+1.
func rebind(expr string, offset int) string {
	var b strings.Builder
	n := offset
	for _, r := range expr {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
