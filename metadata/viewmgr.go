package metadata

import (
	"simpledb/record"
	"simpledb/tx"
)

const maxViewDefLength = 300

// ViewMgr stores view definitions as their original SELECT text.
type ViewMgr struct {
	tableMgr *TableMgr
}

// NewViewMgr bootstraps the viewcat table on first run.
func NewViewMgr(isNew bool, tableMgr *TableMgr, t *tx.Transaction) (*ViewMgr, error) {
	vm := &ViewMgr{tableMgr: tableMgr}
	if isNew {
		schema := record.NewSchema()
		schema.AddStringField("viewname", maxNameLength)
		schema.AddStringField("viewdef", maxViewDefLength)
		if err := tableMgr.CreateTable("viewcat", schema, t); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

// CreateView records viewname's definition (its original SELECT text).
func (vm *ViewMgr) CreateView(viewname, viewdef string, t *tx.Transaction) error {
	layout, err := vm.tableMgr.GetLayout("viewcat", t)
	if err != nil {
		return err
	}
	ts, err := record.NewTableScan(t, "viewcat", layout)
	if err != nil {
		return err
	}
	defer ts.Close()
	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("viewname", viewname); err != nil {
		return err
	}
	return ts.SetString("viewdef", viewdef)
}

// GetViewDef returns viewname's stored SELECT text, and whether it exists.
func (vm *ViewMgr) GetViewDef(viewname string, t *tx.Transaction) (string, bool, error) {
	layout, err := vm.tableMgr.GetLayout("viewcat", t)
	if err != nil {
		return "", false, err
	}
	ts, err := record.NewTableScan(t, "viewcat", layout)
	if err != nil {
		return "", false, err
	}
	defer ts.Close()
	for {
		ok, err := ts.Next()
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, nil
		}
		name, err := ts.GetString("viewname")
		if err != nil {
			return "", false, err
		}
		if name == viewname {
			def, err := ts.GetString("viewdef")
			if err != nil {
				return "", false, err
			}
			return def, true, nil
		}
	}
}
