// Package scan implements the query engine's cursor operators: the
// interfaces every scan satisfies, and the concrete select/project/product/
// extend/sort/group-by/index scans that a plan.Plan opens.
package scan

import "simpledb/record"

// Scan is the forward, read-only cursor every plan node opens.
type Scan interface {
	BeforeFirst() error
	Next() (bool, error)
	GetInt(fieldname string) (int32, error)
	GetString(fieldname string) (string, error)
	GetValue(fieldname string) (record.Constant, error)
	IsNull(fieldname string) (bool, error)
	HasField(fieldname string) bool
	Close() error
}

// Bidirectional is satisfied by scans that can also move backwards or jump
// directly to a position: TableScan and SortScan, and the select, project,
// extend and rename scans when their underlying scan is. ProductScan,
// GroupByScan, MergeJoinScan and the index scans are forward-only.
type Bidirectional interface {
	Scan
	Previous() (bool, error)
	AfterLast() error
	Absolute(n int) (bool, error)
}

// UpdateScan is satisfied by scans that sit directly over a modifiable
// table, allowing the planner's UpdatePlanner to mutate rows in place.
type UpdateScan interface {
	Scan
	SetInt(fieldname string, val int32) error
	SetString(fieldname string, val string) error
	SetValue(fieldname string, val record.Constant) error
	SetNull(fieldname string) error
	Insert() error
	Delete() error
	GetRid() record.RID
	MoveToRid(rid record.RID) error
}
