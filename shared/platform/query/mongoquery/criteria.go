package mongoquery

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	sharedDomain "github.com/davicafu/pagesort/shared/domain"
	sharedUtils "github.com/davicafu/pagesort/shared/utils"
)

// FilterFromCriteria traduce criteria a un filtro de MongoDB.
// Varias condiciones se combinan con $and y CompositeCriteria OR con $or.
func FilterFromCriteria(criteria sharedDomain.Criteria) bson.D {
	switch c := criteria.(type) {
	case nil:
		return bson.D{}
	case sharedDomain.CompositeCriteria:
		var parts bson.A
		for _, child := range c.Criterias {
			if f := FilterFromCriteria(child); len(f) > 0 {
				parts = append(parts, f)
			}
		}
		return combine(parts, sharedUtils.Ternary(c.Operator == sharedDomain.OpOr, "$or", "$and"))
	default:
		var parts bson.A
		for _, cond := range criteria.ToConditions() {
			parts = append(parts, condition(cond))
		}
		return combine(parts, "$and")
	}
}

func combine(parts bson.A, op string) bson.D {
	switch len(parts) {
	case 0:
		return bson.D{}
	case 1:
		return parts[0].(bson.D)
	}
	return bson.D{{Key: op, Value: parts}}
}

func condition(c sharedDomain.Criterion) bson.D {
	// Mapeo de operadores genéricos a operadores de MongoDB
	var mongoOp string
	switch c.Op {
	case sharedDomain.OpEq:
		mongoOp = "$eq"
	case sharedDomain.OpGt:
		mongoOp = "$gt"
	case sharedDomain.OpGte:
		mongoOp = "$gte"
	case sharedDomain.OpLt:
		mongoOp = "$lt"
	case sharedDomain.OpLte:
		mongoOp = "$lte"
	case sharedDomain.OpLike, sharedDomain.OpILike:
		return likeCondition(c)
	default:
		mongoOp = "$eq" // Operador por defecto
	}
	return bson.D{{Key: c.Field, Value: bson.M{mongoOp: c.Value}}}
}

// likeCondition convierte un patrón LIKE (% y _) en una expresión regular anclada.
func likeCondition(c sharedDomain.Criterion) bson.D {
	pattern, _ := c.Value.(string)

	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	value := bson.M{"$regex": b.String()}
	if c.Op == sharedDomain.OpILike {
		value["$options"] = "i"
	}
	return bson.D{{Key: c.Field, Value: value}}
}
