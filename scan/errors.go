package scan

import "simpledb/common"

var (
	errNotBidirectional         = common.New(common.PlanError, "underlying scan does not support backward movement")
	errNoAbsoluteOnFilteredScan = common.New(common.PlanError, "cannot position a filtered scan by absolute index")
	errNotUpdatable             = common.New(common.PlanError, "underlying scan is not updatable")
)
