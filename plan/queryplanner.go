package plan

import (
	"strings"

	"simpledb/common"
	"simpledb/metadata"
	"simpledb/parse"
	"simpledb/tx"
)

// QueryPlanner builds a logical plan tree for a SELECT statement: it
// resolves each FROM table (recursively expanding views), forms the join
// order with a greedy smallest-output-first heuristic, pushes WHERE terms
// down as early as each term's fields allow, and finally layers on
// GROUP BY, computed-expression and ORDER BY decorators before projecting
// the SELECT list.
type QueryPlanner struct {
	mdMgr *metadata.Manager
}

func NewQueryPlanner(mdMgr *metadata.Manager) *QueryPlanner {
	return &QueryPlanner{mdMgr: mdMgr}
}

// CreatePlan builds the plan for data, using tx for every catalog lookup and
// table open along the way.
func (qp *QueryPlanner) CreatePlan(data *parse.QueryData, t *tx.Transaction) (Plan, error) {
	tablePlans, err := qp.tablePlans(data.Tables, t)
	if err != nil {
		return nil, err
	}
	if len(tablePlans) == 0 {
		return nil, common.New(common.PlanError, "query has no source tables")
	}

	current, err := qp.joinTables(tablePlans, data.Pred, t)
	if err != nil {
		return nil, err
	}

	aggSpecs := aggregatesOf(data.Items)
	if len(data.GroupFields) > 0 || len(aggSpecs) > 0 {
		current = NewGroupByPlan(t, current, data.GroupFields, aggSpecs)
	}

	current = NewExtendPlan(current, data.Items)

	if len(data.OrderFields) > 0 {
		current = NewSortPlan(t, current, data.OrderFields)
	}

	return qp.finalProject(current, data)
}

// tablePlans resolves each named table or view to a Plan, in FROM order.
func (qp *QueryPlanner) tablePlans(tables []string, t *tx.Transaction) ([]Plan, error) {
	plans := make([]Plan, 0, len(tables))
	for _, name := range tables {
		p, err := qp.resolveTable(name, t)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (qp *QueryPlanner) resolveTable(name string, t *tx.Transaction) (Plan, error) {
	viewDef, ok, err := qp.mdMgr.Views.GetViewDef(name, t)
	if err != nil {
		return nil, err
	}
	if ok {
		stmt, err := parse.Parse(viewDef)
		if err != nil {
			return nil, err
		}
		query, isQuery := stmt.(*parse.QueryData)
		if !isQuery {
			return nil, common.New(common.PlanError, "view %s does not store a query", name)
		}
		return qp.CreatePlan(query, t)
	}
	return NewTablePlan(t, name, qp.mdMgr)
}

// joinTables combines plans left-to-right, greedily choosing at each step
// whichever remaining plan can join to the accumulated plan through an
// index or a field-to-field equality, falling back to whichever remaining
// plan has the smallest output when nothing joins directly.
func (qp *QueryPlanner) joinTables(plans []Plan, pred *parse.Predicate, t *tx.Transaction) (Plan, error) {
	remaining := append([]Plan(nil), plans...)
	current, remaining := popSmallest(remaining)
	appPred, remPred := splitPredicate(pred, current.Schema())
	current = withPredicate(current, appPred)
	pred = remPred

	for len(remaining) > 0 {
		idx, useIndex, joinField := qp.pickIndexJoin(current, remaining, pred)
		var next Plan
		switch {
		case idx >= 0 && useIndex:
			tp := remaining[idx].(*TablePlan)
			ii := tp.IndexInfo(joinField.indexField)
			next = NewIndexJoinPlan(current, tp, ii, joinField.outerField)
			pred = removeTerm(pred, joinField.outerField, joinField.indexField)
			remaining = removeAt(remaining, idx)
		case idx >= 0:
			f1, f2, _ := findJoinTerm(pred, current.Schema(), remaining[idx].Schema())
			next = NewMergeJoinPlan(t, current, remaining[idx], f1, f2)
			pred = removeTerm(pred, f1, f2)
			remaining = removeAt(remaining, idx)
		default:
			var chosen Plan
			chosen, remaining = popSmallest(remaining)
			next = NewProductPlan(current, chosen)
		}
		current = next
		appPred, remPred := splitPredicate(pred, current.Schema())
		current = withPredicate(current, appPred)
		pred = remPred
	}
	return current, nil
}

type joinKey struct {
	outerField string
	indexField string
}

// pickIndexJoin scans remaining for a table plan that has an index on a
// field equated (by pred) to a field already in current's schema. It
// returns idx=-1 when nothing joins to current at all, and useIndex=true
// when the match is servable through an index rather than a plain
// mergesort-based join.
func (qp *QueryPlanner) pickIndexJoin(current Plan, remaining []Plan, pred *parse.Predicate) (int, bool, joinKey) {
	for i, p := range remaining {
		tp, isTable := p.(*TablePlan)
		if !isTable {
			continue
		}
		f1, f2, ok := findJoinTerm(pred, current.Schema(), tp.Schema())
		if !ok {
			continue
		}
		if ii := tp.IndexInfo(f2); ii != nil {
			return i, true, joinKey{outerField: f1, indexField: f2}
		}
	}
	for i, p := range remaining {
		if _, _, ok := findJoinTerm(pred, current.Schema(), p.Schema()); ok {
			return i, false, joinKey{}
		}
	}
	return -1, false, joinKey{}
}

func popSmallest(plans []Plan) (Plan, []Plan) {
	best := 0
	for i, p := range plans {
		if p.RecordsOutput() < plans[best].RecordsOutput() {
			best = i
		}
	}
	return plans[best], removeAt(plans, best)
}

func removeAt(plans []Plan, i int) []Plan {
	out := append([]Plan(nil), plans[:i]...)
	return append(out, plans[i+1:]...)
}

func aggregatesOf(items []parse.SelectItem) []parse.Aggregate {
	var aggs []parse.Aggregate
	for _, item := range items {
		if item.Agg != nil {
			aggs = append(aggs, *item.Agg)
		}
	}
	return aggs
}

// finalProject applies the SELECT list's column choice, naming and order.
func (qp *QueryPlanner) finalProject(current Plan, data *parse.QueryData) (Plan, error) {
	if data.Star {
		return NewProjectPlan(current, current.Schema().Fields()), nil
	}
	outputs := make([]string, 0, len(data.Items))
	sources := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		outputs = append(outputs, item.FieldName())
		if item.Agg != nil {
			sources = append(sources, strings.ToLower(string(item.Agg.Func))+"("+item.Agg.Field+")")
		} else if fe, ok := item.Expr.(parse.FieldExpr); ok {
			sources = append(sources, fe.Field)
		} else {
			sources = append(sources, item.FieldName())
		}
	}
	return NewRenamePlan(current, outputs, sources), nil
}
