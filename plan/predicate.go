package plan

import (
	"simpledb/parse"
	"simpledb/record"
)

func exprFields(e parse.Expression, out map[string]bool) {
	switch v := e.(type) {
	case parse.FieldExpr:
		out[v.Field] = true
	case parse.BinaryExpr:
		exprFields(v.Left, out)
		exprFields(v.Right, out)
	}
}

func termFields(t parse.Term) map[string]bool {
	out := make(map[string]bool)
	exprFields(t.Lhs, out)
	if t.Rhs != nil {
		exprFields(t.Rhs, out)
	}
	return out
}

func fieldsIn(fields map[string]bool, schema *record.Schema) bool {
	for f := range fields {
		if !schema.HasField(f) {
			return false
		}
	}
	return true
}

// splitPredicate partitions pred's terms into those whose fields are all
// present in schema (applicable now, safe to push down) and the rest.
func splitPredicate(pred *parse.Predicate, schema *record.Schema) (applicable, remaining *parse.Predicate) {
	applicable = &parse.Predicate{}
	remaining = &parse.Predicate{}
	if pred == nil {
		return applicable, remaining
	}
	for _, term := range pred.Terms {
		if fieldsIn(termFields(term), schema) {
			applicable.Terms = append(applicable.Terms, term)
		} else {
			remaining.Terms = append(remaining.Terms, term)
		}
	}
	return applicable, remaining
}

func withPredicate(p Plan, pred *parse.Predicate) Plan {
	if pred == nil || len(pred.Terms) == 0 {
		return p
	}
	return NewSelectPlan(p, pred)
}

// findJoinTerm looks in pred for a term equating a field of schema1 to a
// field of schema2, returning (field-in-schema1, field-in-schema2).
func findJoinTerm(pred *parse.Predicate, schema1, schema2 *record.Schema) (string, string, bool) {
	if pred == nil {
		return "", "", false
	}
	for _, term := range pred.Terms {
		f1, f2, ok := fieldPair(term)
		if !ok {
			continue
		}
		if schema1.HasField(f1) && schema2.HasField(f2) {
			return f1, f2, true
		}
		if schema1.HasField(f2) && schema2.HasField(f1) {
			return f2, f1, true
		}
	}
	return "", "", false
}

// removeTerm returns pred with one instance of term (matched by field pair)
// removed.
func removeTerm(pred *parse.Predicate, f1, f2 string) *parse.Predicate {
	out := &parse.Predicate{}
	removed := false
	for _, term := range pred.Terms {
		if !removed {
			if a, b, ok := fieldPair(term); ok && ((a == f1 && b == f2) || (a == f2 && b == f1)) {
				removed = true
				continue
			}
		}
		out.Terms = append(out.Terms, term)
	}
	return out
}
