package postgres

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/capitalninja/ninja/core/investor"
)

type sqlBuilder interface {
	ToSql() (string, []interface{}, error)
}

func buildSQL(builder sqlBuilder) (query string, args []interface{}, err error) {
	query, args, err = builder.ToSql()
	if err != nil {
		err = fmt.Errorf("error transforming to sql: %w", err)
		return
	}
	query, err = sq.Dollar.ReplacePlaceholders(query)
	if err != nil {
		err = fmt.Errorf("error replacing placeholders to dollar: %w", err)
		return
	}

	return
}

// BuildFilterQuery adds the predicates of an investor query to builder,
// one WHERE clause each.
func BuildFilterQuery(builder sq.SelectBuilder, predicates []investor.Predicate) (sq.SelectBuilder, error) {
	for _, p := range predicates {
		switch len(p.AnyOf) {
		case 0:
			continue
		case 1:
			cond, err := conditionSQL(p.AnyOf[0])
			if err != nil {
				return builder, err
			}
			builder = builder.Where(cond)
		default:
			or := sq.Or{}
			for _, c := range p.AnyOf {
				cond, err := conditionSQL(c)
				if err != nil {
					return builder, err
				}
				or = append(or, cond)
			}
			builder = builder.Where(or)
		}
	}
	return builder, nil
}

func conditionSQL(c investor.Condition) (sq.Sqlizer, error) {
	switch c.Op {
	case investor.OpEq:
		return sq.Eq{c.Column: c.Value}, nil
	case investor.OpILike:
		return sq.ILike{c.Column: c.Value}, nil
	case investor.OpGte:
		return sq.GtOrEq{c.Column: c.Value}, nil
	case investor.OpLte:
		return sq.LtOrEq{c.Column: c.Value}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q on %q", c.Op, c.Column)
}

// BuildOrderQuery orders builder by the given columns. NULLs sort last in
// either direction.
func BuildOrderQuery(builder sq.SelectBuilder, orders []investor.Order) sq.SelectBuilder {
	clauses := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.Descending {
			clauses = append(clauses, o.Column+" DESC NULLS LAST")
			continue
		}
		clauses = append(clauses, o.Column+" ASC")
	}
	return builder.OrderBy(clauses...)
}

func buildRangeQuery(builder sq.SelectBuilder, r investor.Range) sq.SelectBuilder {
	return builder.Limit(uint64(r.Limit())).Offset(uint64(r.From))
}
