package parse

import "simpledb/record"

// Expression is one of: a constant literal, a bare field reference, or a
// binary arithmetic operation over two sub-expressions.
type Expression interface {
	isExpression()
}

// LiteralExpr is a constant (I32, string, or NULL) appearing directly in the
// query text.
type LiteralExpr struct {
	Value record.Constant
}

func (LiteralExpr) isExpression() {}

// FieldExpr refers to a bare, unqualified field name.
type FieldExpr struct {
	Field string
}

func (FieldExpr) isExpression() {}

// BinaryExpr applies Op to Left and Right. Op is one of '+', '-', '*', '/'.
type BinaryExpr struct {
	Op    byte
	Left  Expression
	Right Expression
}

func (BinaryExpr) isExpression() {}

// Term is one clause of an AND-list predicate: either an equality between
// two expressions, or an IS NULL test on one expression.
type Term struct {
	Lhs    Expression
	Rhs    Expression // nil when IsNull is true
	IsNull bool
}

// Predicate is the AND of its terms; an empty predicate is always true.
type Predicate struct {
	Terms []Term
}

// AggFunc is one of the five supported aggregate functions.
type AggFunc string

const (
	AggMax   AggFunc = "MAX"
	AggMin   AggFunc = "MIN"
	AggSum   AggFunc = "SUM"
	AggCount AggFunc = "COUNT"
	AggAvg   AggFunc = "AVG"
)

// Aggregate is one AGG(field) select-list item.
type Aggregate struct {
	Func  AggFunc
	Field string
}

// SelectItem is one entry of a SELECT list: either a plain expression or an
// aggregate, with an optional alias.
type SelectItem struct {
	Expr  Expression // nil when Agg is set
	Agg   *Aggregate // nil when Expr is set
	Alias string     // "" when no AS clause was given
}

// FieldName returns the effective output column name for this item: the
// explicit alias if given, otherwise the bare field name for a plain field
// reference, otherwise the aggregate's canonical name.
func (si SelectItem) FieldName() string {
	if si.Alias != "" {
		return si.Alias
	}
	if si.Agg != nil {
		return string(si.Agg.Func) + "(" + si.Agg.Field + ")"
	}
	if fe, ok := si.Expr.(FieldExpr); ok {
		return fe.Field
	}
	return "expr"
}

// QueryData is a parsed SELECT statement.
type QueryData struct {
	Star        bool
	Items       []SelectItem
	Tables      []string
	Pred        *Predicate
	GroupFields []string
	OrderFields []string
}

// InsertData is a parsed INSERT statement.
type InsertData struct {
	TableName string
	Fields    []string
	Values    []record.Constant
}

// DeleteData is a parsed DELETE statement.
type DeleteData struct {
	TableName string
	Pred      *Predicate
}

// ModifyData is a parsed MODIFY statement.
type ModifyData struct {
	TableName string
	Field     string
	Expr      Expression
	Pred      *Predicate
}

// CreateTableData is a parsed CREATE TABLE statement.
type CreateTableData struct {
	TableName string
	Schema    *record.Schema
}

// CreateViewData is a parsed CREATE VIEW statement.
type CreateViewData struct {
	ViewName string
	Def      *QueryData
	DefText  string
}

// IndexKind selects the physical structure an index is built on.
type IndexKind int

const (
	IndexKindHash IndexKind = iota
	IndexKindBTree
)

// CreateIndexData is a parsed CREATE INDEX statement. Kind defaults to
// IndexKindHash when no USING clause is given.
type CreateIndexData struct {
	IndexName string
	TableName string
	FieldName string
	Kind      IndexKind
}

// Statement is the sum type every top-level parse result implements, so the
// planner can dispatch on it with a type switch.
type Statement interface {
	isStatement()
}

func (*QueryData) isStatement()       {}
func (*InsertData) isStatement()      {}
func (*DeleteData) isStatement()      {}
func (*ModifyData) isStatement()      {}
func (*CreateTableData) isStatement() {}
func (*CreateViewData) isStatement()  {}
func (*CreateIndexData) isStatement() {}
