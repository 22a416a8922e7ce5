package scan

import (
	"simpledb/parse"
	"simpledb/record"
)

// aggregator accumulates one aggregate function's value over a run of rows
// belonging to the same group. Every accumulator ignores NULL field values,
// as spec'd for COUNT(field)/MIN/MAX/SUM/AVG.
type aggregator interface {
	reset(s Scan) error
	next(s Scan) error
	fieldName() string
	value() record.Constant
}

func newAggregator(a parse.Aggregate) aggregator {
	switch a.Func {
	case parse.AggCount:
		return &countAgg{field: a.Field}
	case parse.AggSum:
		return &sumAgg{field: a.Field}
	case parse.AggAvg:
		return &avgAgg{field: a.Field}
	case parse.AggMin:
		return &minMaxAgg{field: a.Field, isMax: false}
	case parse.AggMax:
		return &minMaxAgg{field: a.Field, isMax: true}
	default:
		return &countAgg{field: a.Field}
	}
}

type countAgg struct {
	field string
	count int32
}

func (a *countAgg) reset(s Scan) error {
	a.count = 0
	return a.next(s)
}
func (a *countAgg) next(s Scan) error {
	null, err := s.IsNull(a.field)
	if err != nil {
		return err
	}
	if !null {
		a.count++
	}
	return nil
}
func (a *countAgg) fieldName() string      { return "count(" + a.field + ")" }
func (a *countAgg) value() record.Constant { return record.IntConstant(a.count) }

type sumAgg struct {
	field  string
	sum    int32
	anySet bool
}

func (a *sumAgg) reset(s Scan) error {
	a.sum, a.anySet = 0, false
	return a.next(s)
}
func (a *sumAgg) next(s Scan) error {
	v, err := s.GetValue(a.field)
	if err != nil {
		return err
	}
	if !v.IsNull() {
		a.sum += v.AsInt()
		a.anySet = true
	}
	return nil
}
func (a *sumAgg) fieldName() string { return "sum(" + a.field + ")" }
func (a *sumAgg) value() record.Constant {
	if !a.anySet {
		return record.NullConstant()
	}
	return record.IntConstant(a.sum)
}

type avgAgg struct {
	field string
	sum   int32
	count int32
}

func (a *avgAgg) reset(s Scan) error {
	a.sum, a.count = 0, 0
	return a.next(s)
}
func (a *avgAgg) next(s Scan) error {
	v, err := s.GetValue(a.field)
	if err != nil {
		return err
	}
	if !v.IsNull() {
		a.sum += v.AsInt()
		a.count++
	}
	return nil
}
func (a *avgAgg) fieldName() string { return "avg(" + a.field + ")" }
func (a *avgAgg) value() record.Constant {
	if a.count == 0 {
		return record.NullConstant()
	}
	return record.IntConstant(a.sum / a.count)
}

type minMaxAgg struct {
	field string
	isMax bool
	val   record.Constant
	any   bool
}

func (a *minMaxAgg) reset(s Scan) error {
	a.val, a.any = record.Constant{}, false
	return a.next(s)
}
func (a *minMaxAgg) next(s Scan) error {
	v, err := s.GetValue(a.field)
	if err != nil {
		return err
	}
	if v.IsNull() {
		return nil
	}
	if !a.any {
		a.val, a.any = v, true
		return nil
	}
	cmp := v.CompareTo(a.val)
	if (a.isMax && cmp > 0) || (!a.isMax && cmp < 0) {
		a.val = v
	}
	return nil
}
func (a *minMaxAgg) fieldName() string {
	if a.isMax {
		return "max(" + a.field + ")"
	}
	return "min(" + a.field + ")"
}
func (a *minMaxAgg) value() record.Constant {
	if !a.any {
		return record.NullConstant()
	}
	return a.val
}
