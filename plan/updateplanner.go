package plan

import (
	"simpledb/index"
	"simpledb/metadata"
	"simpledb/parse"
	"simpledb/record"
	"simpledb/scan"
	"simpledb/tx"
)

// UpdatePlanner executes DML/DDL directly against the record manager and
// catalog inside the active transaction, maintaining any indexes defined on
// the affected table, and returns the number of rows the statement affected
// (INSERT: 1, DELETE/MODIFY: the number of matched rows, DDL: 0).
type UpdatePlanner struct {
	mdMgr *metadata.Manager
	qp    *QueryPlanner
}

func NewUpdatePlanner(mdMgr *metadata.Manager) *UpdatePlanner {
	return &UpdatePlanner{mdMgr: mdMgr, qp: NewQueryPlanner(mdMgr)}
}

func (up *UpdatePlanner) openIndexes(tablename string, t *tx.Transaction) (map[string]index.Index, error) {
	infos, err := up.mdMgr.Index.GetIndexInfo(tablename, t)
	if err != nil {
		return nil, err
	}
	idxs := make(map[string]index.Index, len(infos))
	for field, ii := range infos {
		idx, err := ii.Open()
		if err != nil {
			closeAll(idxs)
			return nil, err
		}
		idxs[field] = idx
	}
	return idxs, nil
}

func closeAll(idxs map[string]index.Index) {
	for _, idx := range idxs {
		_ = idx.Close()
	}
}

// ExecuteInsert inserts one row and updates every index defined on the
// table.
func (up *UpdatePlanner) ExecuteInsert(data *parse.InsertData, t *tx.Transaction) (int, error) {
	layout, err := up.mdMgr.GetLayout(data.TableName, t)
	if err != nil {
		return 0, err
	}
	ts, err := record.NewTableScan(t, data.TableName, layout)
	if err != nil {
		return 0, err
	}
	defer ts.Close()
	if err := ts.Insert(); err != nil {
		return 0, err
	}
	rid := ts.GetRid()
	for i, field := range data.Fields {
		if err := ts.SetValue(field, data.Values[i]); err != nil {
			return 0, err
		}
	}

	idxs, err := up.openIndexes(data.TableName, t)
	if err != nil {
		return 0, err
	}
	defer closeAll(idxs)
	for i, field := range data.Fields {
		if idx, ok := idxs[field]; ok {
			if err := idx.Insert(data.Values[i], rid); err != nil {
				return 0, err
			}
		}
	}
	return 1, nil
}

// ExecuteDelete removes every row matching data.Pred, keeping indexes in
// sync.
func (up *UpdatePlanner) ExecuteDelete(data *parse.DeleteData, t *tx.Transaction) (int, error) {
	tblPlan, err := NewTablePlan(t, data.TableName, up.mdMgr)
	if err != nil {
		return 0, err
	}
	selectPlan := NewSelectPlan(tblPlan, data.Pred)
	s, err := selectPlan.Open()
	if err != nil {
		return 0, err
	}
	ts := s.(scan.UpdateScan)
	defer ts.Close()

	idxs, err := up.openIndexes(data.TableName, t)
	if err != nil {
		return 0, err
	}
	defer closeAll(idxs)

	count := 0
	for {
		ok, err := ts.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		rid := ts.GetRid()
		for field, idx := range idxs {
			val, err := ts.GetValue(field)
			if err != nil {
				return 0, err
			}
			if err := idx.Delete(val, rid); err != nil {
				return 0, err
			}
		}
		if err := ts.Delete(); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// ExecuteModify updates data.Field on every row matching data.Pred.
func (up *UpdatePlanner) ExecuteModify(data *parse.ModifyData, t *tx.Transaction) (int, error) {
	tblPlan, err := NewTablePlan(t, data.TableName, up.mdMgr)
	if err != nil {
		return 0, err
	}
	selectPlan := NewSelectPlan(tblPlan, data.Pred)
	s, err := selectPlan.Open()
	if err != nil {
		return 0, err
	}
	ts := s.(scan.UpdateScan)
	defer ts.Close()

	ii := tblPlan.IndexInfo(data.Field)
	var idx index.Index
	if ii != nil {
		idx, err = ii.Open()
		if err != nil {
			return 0, err
		}
		defer idx.Close()
	}

	count := 0
	for {
		ok, err := ts.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		newVal, err := scan.EvalExpr(data.Expr, ts)
		if err != nil {
			return 0, err
		}
		if idx != nil {
			oldVal, err := ts.GetValue(data.Field)
			if err != nil {
				return 0, err
			}
			rid := ts.GetRid()
			if err := idx.Delete(oldVal, rid); err != nil {
				return 0, err
			}
			if err := idx.Insert(newVal, rid); err != nil {
				return 0, err
			}
		}
		if err := ts.SetValue(data.Field, newVal); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// ExecuteCreateTable creates a new base table.
func (up *UpdatePlanner) ExecuteCreateTable(data *parse.CreateTableData, t *tx.Transaction) (int, error) {
	return 0, up.mdMgr.CreateTable(data.TableName, data.Schema, t)
}

// ExecuteCreateView stores a new view definition.
func (up *UpdatePlanner) ExecuteCreateView(data *parse.CreateViewData, t *tx.Transaction) (int, error) {
	return 0, up.mdMgr.Views.CreateView(data.ViewName, data.DefText, t)
}

// ExecuteCreateIndex records a new index and builds it from the current
// contents of the base table.
func (up *UpdatePlanner) ExecuteCreateIndex(data *parse.CreateIndexData, t *tx.Transaction) (int, error) {
	kind := metadata.IndexKindHash
	if data.Kind == parse.IndexKindBTree {
		kind = metadata.IndexKindBTree
	}
	if err := up.mdMgr.Index.CreateIndex(data.IndexName, data.TableName, data.FieldName, kind, t); err != nil {
		return 0, err
	}
	infos, err := up.mdMgr.Index.GetIndexInfo(data.TableName, t)
	if err != nil {
		return 0, err
	}
	ii, ok := infos[data.FieldName]
	if !ok {
		return 0, nil
	}
	idx, err := ii.Open()
	if err != nil {
		return 0, err
	}
	defer idx.Close()

	// A BTreeIndex.Open already rebuilds itself from the base table when
	// its in-memory tree is empty; a fresh HashIndex has no such
	// self-population and needs the scan below.
	if kind == metadata.IndexKindBTree {
		return 0, nil
	}

	layout, err := up.mdMgr.GetLayout(data.TableName, t)
	if err != nil {
		return 0, err
	}
	ts, err := record.NewTableScan(t, data.TableName, layout)
	if err != nil {
		return 0, err
	}
	defer ts.Close()
	for {
		ok, err := ts.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		val, err := ts.GetValue(data.FieldName)
		if err != nil {
			return 0, err
		}
		if val.IsNull() {
			continue
		}
		if err := idx.Insert(val, ts.GetRid()); err != nil {
			return 0, err
		}
	}
	return 0, nil
}
