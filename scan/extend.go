package scan

import (
	"simpledb/parse"
	"simpledb/record"
)

// extendField is one computed column an ExtendScan adds to its underlying
// scan: an aliased plain expression, evaluated against the current row.
type extendField struct {
	alias string
	expr  parse.Expression
}

// ExtendScan augments an underlying scan's row with one or more computed
// (expression, alias) fields, evaluated fresh on every row.
type ExtendScan struct {
	s      Scan
	fields []extendField
	byName map[string]parse.Expression
}

// NewExtendScan returns s augmented with the aliased select items in items
// that carry a plain expression (aggregates are handled by GroupByScan).
func NewExtendScan(s Scan, items []parse.SelectItem) *ExtendScan {
	es := &ExtendScan{s: s, byName: make(map[string]parse.Expression)}
	for _, item := range items {
		if item.Agg != nil || item.Alias == "" {
			continue
		}
		if _, isField := item.Expr.(parse.FieldExpr); isField {
			continue // a bare "field AS alias" needs no computation
		}
		es.fields = append(es.fields, extendField{alias: item.Alias, expr: item.Expr})
		es.byName[item.Alias] = item.Expr
	}
	return es
}

func (es *ExtendScan) BeforeFirst() error  { return es.s.BeforeFirst() }
func (es *ExtendScan) Next() (bool, error) { return es.s.Next() }
func (es *ExtendScan) Close() error        { return es.s.Close() }

func (es *ExtendScan) HasField(fieldname string) bool {
	if _, ok := es.byName[fieldname]; ok {
		return true
	}
	return es.s.HasField(fieldname)
}

func (es *ExtendScan) GetValue(fieldname string) (record.Constant, error) {
	if expr, ok := es.byName[fieldname]; ok {
		return EvalExpr(expr, es.s)
	}
	return es.s.GetValue(fieldname)
}

func (es *ExtendScan) GetInt(fieldname string) (int32, error) {
	v, err := es.GetValue(fieldname)
	if err != nil {
		return 0, err
	}
	return v.AsInt(), nil
}

func (es *ExtendScan) GetString(fieldname string) (string, error) {
	v, err := es.GetValue(fieldname)
	if err != nil {
		return "", err
	}
	return v.AsString(), nil
}

func (es *ExtendScan) IsNull(fieldname string) (bool, error) {
	if expr, ok := es.byName[fieldname]; ok {
		v, err := EvalExpr(expr, es.s)
		if err != nil {
			return false, err
		}
		return v.IsNull(), nil
	}
	return es.s.IsNull(fieldname)
}

func (es *ExtendScan) Previous() (bool, error) {
	bs, ok := es.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	return bs.Previous()
}

func (es *ExtendScan) AfterLast() error {
	bs, ok := es.s.(Bidirectional)
	if !ok {
		return errNotBidirectional
	}
	return bs.AfterLast()
}

func (es *ExtendScan) Absolute(n int) (bool, error) {
	bs, ok := es.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	return bs.Absolute(n)
}
