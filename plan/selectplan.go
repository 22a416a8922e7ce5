package plan

import (
	"simpledb/parse"
	"simpledb/record"
	"simpledb/scan"
)

// SelectPlan filters its input plan's rows by a predicate; it has the same
// blocks-accessed cost as its input, since scan.SelectScan reads every
// underlying row.
type SelectPlan struct {
	p    Plan
	pred *parse.Predicate
}

func NewSelectPlan(p Plan, pred *parse.Predicate) *SelectPlan {
	return &SelectPlan{p: p, pred: pred}
}

func (sp *SelectPlan) Open() (scan.Scan, error) {
	s, err := sp.p.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewSelectScan(s, sp.pred), nil
}

func (sp *SelectPlan) BlocksAccessed() int {
	return sp.p.BlocksAccessed()
}

// RecordsOutput divides the input's row count by a reduction factor: each
// term equating a field to a constant divides by that field's distinct-value
// count, each term equating two fields divides by 2, following the classic
// selectivity estimate.
func (sp *SelectPlan) RecordsOutput() int {
	records := sp.p.RecordsOutput()
	if sp.pred == nil {
		return records
	}
	factor := 1
	for _, term := range sp.pred.Terms {
		if lf, ok := term.Lhs.(parse.FieldExpr); ok {
			if _, isConst := scan.EqualsConstant(term, lf.Field); isConst {
				dv := sp.p.DistinctValues(lf.Field)
				if dv > 0 {
					factor *= dv
				}
				continue
			}
		}
		if _, _, ok := fieldPair(term); ok {
			factor *= 2
		}
	}
	if factor < 1 {
		factor = 1
	}
	return records / factor
}

func (sp *SelectPlan) DistinctValues(fieldname string) int {
	if _, ok := equatedField(sp.pred, fieldname); ok {
		return 1
	}
	if other, ok := joinedField(sp.pred, fieldname); ok {
		lo, hi := sp.p.DistinctValues(fieldname), sp.p.DistinctValues(other)
		if lo < hi {
			return lo
		}
		return hi
	}
	return sp.p.DistinctValues(fieldname)
}

func (sp *SelectPlan) Schema() *record.Schema {
	return sp.p.Schema()
}

func fieldPair(t parse.Term) (string, string, bool) {
	if t.IsNull || t.Rhs == nil {
		return "", "", false
	}
	lf, lok := t.Lhs.(parse.FieldExpr)
	rf, rok := t.Rhs.(parse.FieldExpr)
	if lok && rok {
		return lf.Field, rf.Field, true
	}
	return "", "", false
}

func equatedField(pred *parse.Predicate, fieldname string) (record.Constant, bool) {
	if pred == nil {
		return record.Constant{}, false
	}
	for _, term := range pred.Terms {
		if val, ok := scan.EqualsConstant(term, fieldname); ok {
			return val, true
		}
	}
	return record.Constant{}, false
}

func joinedField(pred *parse.Predicate, fieldname string) (string, bool) {
	if pred == nil {
		return "", false
	}
	for _, term := range pred.Terms {
		if other, ok := scan.EqualsField(term, fieldname); ok {
			return other, true
		}
	}
	return "", false
}
