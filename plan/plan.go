// Package plan builds and estimates the cost of logical query plans, and
// opens them into the scan pipelines that actually execute a query.
package plan

import (
	"simpledb/record"
	"simpledb/scan"
)

// Plan is a node in a logical query tree: it knows its output schema and can
// estimate its own cost without opening anything, and can open itself into a
// live scan.Scan.
type Plan interface {
	Open() (scan.Scan, error)
	BlocksAccessed() int
	RecordsOutput() int
	DistinctValues(fieldname string) int
	Schema() *record.Schema
}
