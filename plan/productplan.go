package plan

import (
	"simpledb/record"
	"simpledb/scan"
)

// ProductPlan is the Cartesian product of two plans, left driving and right
// re-opened on each left advance (scan.ProductScan).
type ProductPlan struct {
	left, right Plan
	schema      *record.Schema
}

func NewProductPlan(left, right Plan) *ProductPlan {
	schema := record.NewSchema()
	schema.AddAll(left.Schema())
	schema.AddAll(right.Schema())
	return &ProductPlan{left: left, right: right, schema: schema}
}

func (pp *ProductPlan) Open() (scan.Scan, error) {
	leftScan, err := pp.left.Open()
	if err != nil {
		return nil, err
	}
	rightScan, err := pp.right.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewProductScan(leftScan, rightScan)
}

// BlocksAccessed follows the classic nested-loop cost formula: the left
// side's blocks, plus the left side's row count times the right side's
// blocks (the right side is rescanned once per left row).
func (pp *ProductPlan) BlocksAccessed() int {
	return pp.left.BlocksAccessed() + pp.left.RecordsOutput()*pp.right.BlocksAccessed()
}

func (pp *ProductPlan) RecordsOutput() int {
	return pp.left.RecordsOutput() * pp.right.RecordsOutput()
}

func (pp *ProductPlan) DistinctValues(fieldname string) int {
	if pp.left.Schema().HasField(fieldname) {
		return pp.left.DistinctValues(fieldname)
	}
	return pp.right.DistinctValues(fieldname)
}

func (pp *ProductPlan) Schema() *record.Schema { return pp.schema }
