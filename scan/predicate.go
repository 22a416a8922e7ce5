package scan

import (
	"simpledb/common"
	"simpledb/parse"
	"simpledb/record"
)

// EvalExpr evaluates e against the current row of s.
func EvalExpr(e parse.Expression, s Scan) (record.Constant, error) {
	switch ex := e.(type) {
	case parse.LiteralExpr:
		return ex.Value, nil
	case parse.FieldExpr:
		return s.GetValue(ex.Field)
	case parse.BinaryExpr:
		left, err := EvalExpr(ex.Left, s)
		if err != nil {
			return record.Constant{}, err
		}
		right, err := EvalExpr(ex.Right, s)
		if err != nil {
			return record.Constant{}, err
		}
		return evalArith(ex.Op, left, right)
	default:
		return record.Constant{}, common.New(common.ExprError, "unrecognised expression %T", e)
	}
}

func evalArith(op byte, left, right record.Constant) (record.Constant, error) {
	if left.IsNull() || right.IsNull() {
		return record.NullConstant(), nil
	}
	if left.IsString() || right.IsString() {
		return record.Constant{}, common.New(common.ExprError, "cannot apply %q to string operands", string(op))
	}
	a, b := left.AsInt(), right.AsInt()
	switch op {
	case '+':
		return record.IntConstant(a + b), nil
	case '-':
		return record.IntConstant(a - b), nil
	case '*':
		return record.IntConstant(a * b), nil
	case '/':
		if b == 0 {
			return record.Constant{}, common.New(common.ExprError, "division by zero")
		}
		return record.IntConstant(a / b), nil
	default:
		return record.Constant{}, common.New(common.ExprError, "unrecognised operator %q", string(op))
	}
}

// tristate is the result of evaluating one predicate term: it may be
// TRUE, FALSE, or UNKNOWN when either operand is NULL.
type tristate int

const (
	unknown tristate = iota
	isTrue
	isFalse
)

func evalTerm(t parse.Term, s Scan) (tristate, error) {
	lhs, err := EvalExpr(t.Lhs, s)
	if err != nil {
		return unknown, err
	}
	if t.IsNull {
		if lhs.IsNull() {
			return isTrue, nil
		}
		return isFalse, nil
	}
	rhs, err := EvalExpr(t.Rhs, s)
	if err != nil {
		return unknown, err
	}
	if lhs.IsNull() || rhs.IsNull() {
		return unknown, nil
	}
	if lhs.Equals(rhs) {
		return isTrue, nil
	}
	return isFalse, nil
}

// EvalPredicate evaluates pred against the current row of s under
// three-valued logic: the AND-list is true only when every term is true; any
// UNKNOWN or FALSE term excludes the row.
func EvalPredicate(pred *parse.Predicate, s Scan) (bool, error) {
	if pred == nil {
		return true, nil
	}
	for _, term := range pred.Terms {
		v, err := evalTerm(term, s)
		if err != nil {
			return false, err
		}
		if v != isTrue {
			return false, nil
		}
	}
	return true, nil
}

// EqualsConstant reports whether term is an equality between fieldname and a
// literal constant, returning that constant. It is used by the planner to
// recognise predicates an index can serve.
func EqualsConstant(t parse.Term, fieldname string) (record.Constant, bool) {
	if t.IsNull {
		return record.Constant{}, false
	}
	if fe, ok := t.Lhs.(parse.FieldExpr); ok && fe.Field == fieldname {
		if lit, ok := t.Rhs.(parse.LiteralExpr); ok {
			return lit.Value, true
		}
	}
	if fe, ok := t.Rhs.(parse.FieldExpr); ok && fe.Field == fieldname {
		if lit, ok := t.Lhs.(parse.LiteralExpr); ok {
			return lit.Value, true
		}
	}
	return record.Constant{}, false
}

// EqualsField reports whether term is an equality between fieldname and some
// other bare field, returning that field's name. It is used by the planner
// to recognise a join predicate a merge or index join can serve.
func EqualsField(t parse.Term, fieldname string) (string, bool) {
	if t.IsNull {
		return "", false
	}
	lf, lok := t.Lhs.(parse.FieldExpr)
	rf, rok := t.Rhs.(parse.FieldExpr)
	if !lok || !rok {
		return "", false
	}
	if lf.Field == fieldname {
		return rf.Field, true
	}
	if rf.Field == fieldname {
		return lf.Field, true
	}
	return "", false
}
