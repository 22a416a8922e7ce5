package plan

import (
	"simpledb/common"
	"simpledb/metadata"
	"simpledb/parse"
	"simpledb/tx"
)

// Planner is the engine's single entry point from SQL text to execution: it
// parses the statement and dispatches to the query or update planner.
type Planner struct {
	qp *QueryPlanner
	up *UpdatePlanner
}

func NewPlanner(mdMgr *metadata.Manager) *Planner {
	return &Planner{qp: NewQueryPlanner(mdMgr), up: NewUpdatePlanner(mdMgr)}
}

// CreateQueryPlan parses and plans a SELECT statement.
func (p *Planner) CreateQueryPlan(sql string, t *tx.Transaction) (Plan, error) {
	stmt, err := parse.Parse(sql)
	if err != nil {
		return nil, err
	}
	data, ok := stmt.(*parse.QueryData)
	if !ok {
		return nil, common.New(common.ParseError, "not a query: %s", sql)
	}
	return p.qp.CreatePlan(data, t)
}

// ExecuteUpdate parses and executes any DML/DDL statement, returning the
// number of rows it affected.
func (p *Planner) ExecuteUpdate(sql string, t *tx.Transaction) (int, error) {
	stmt, err := parse.Parse(sql)
	if err != nil {
		return 0, err
	}
	switch data := stmt.(type) {
	case *parse.InsertData:
		return p.up.ExecuteInsert(data, t)
	case *parse.DeleteData:
		return p.up.ExecuteDelete(data, t)
	case *parse.ModifyData:
		return p.up.ExecuteModify(data, t)
	case *parse.CreateTableData:
		return p.up.ExecuteCreateTable(data, t)
	case *parse.CreateViewData:
		return p.up.ExecuteCreateView(data, t)
	case *parse.CreateIndexData:
		return p.up.ExecuteCreateIndex(data, t)
	default:
		return 0, common.New(common.ParseError, "not an update statement: %s", sql)
	}
}
