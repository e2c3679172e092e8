package sqlquery

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	sharedDomain "github.com/davicafu/pagesort/shared/domain"
)

// ToSqlizer traduce criteria a una condición de squirrel.
// Devuelve nil si no hay nada que filtrar.
func ToSqlizer(criteria sharedDomain.Criteria, d Dialect) squirrel.Sqlizer {
	switch c := criteria.(type) {
	case nil:
		return nil
	case sharedDomain.CompositeCriteria:
		var parts []squirrel.Sqlizer
		for _, child := range c.Criterias {
			if s := ToSqlizer(child, d); s != nil {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		if c.Operator == sharedDomain.OpOr {
			return squirrel.Or(parts)
		}
		return squirrel.And(parts)
	default:
		conds := criteria.ToConditions()
		if len(conds) == 0 {
			return nil
		}
		parts := make(squirrel.And, 0, len(conds))
		for _, cond := range conds {
			parts = append(parts, condition(cond, d))
		}
		return parts
	}
}

func condition(c sharedDomain.Criterion, d Dialect) squirrel.Sqlizer {
	switch c.Op {
	case sharedDomain.OpEq:
		return squirrel.Eq{c.Field: c.Value}
	case sharedDomain.OpGt:
		return squirrel.Gt{c.Field: c.Value}
	case sharedDomain.OpGte:
		return squirrel.GtOrEq{c.Field: c.Value}
	case sharedDomain.OpLt:
		return squirrel.Lt{c.Field: c.Value}
	case sharedDomain.OpLte:
		return squirrel.LtOrEq{c.Field: c.Value}
	case sharedDomain.OpLike:
		return squirrel.Like{c.Field: c.Value}
	case sharedDomain.OpILike:
		if d.ILike {
			return squirrel.ILike{c.Field: c.Value}
		}
		// LIKE de SQLite ya ignora mayúsculas en ASCII
		return squirrel.Like{c.Field: c.Value}
	default:
		return squirrel.Expr(fmt.Sprintf("%s %s ?", c.Field, c.Op), c.Value)
	}
}
