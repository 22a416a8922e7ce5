package metadata

import (
	"simpledb/index"
	"simpledb/record"
	"simpledb/tx"
)

// IndexKind selects the physical structure an index is built on. It mirrors
// parse.IndexKind but lives here too so metadata doesn't import parse.
type IndexKind int32

const (
	IndexKindHash IndexKind = iota
	IndexKindBTree
)

// IndexInfo carries enough metadata about one index to compute its cost
// estimates and hand it to an index implementation without re-reading idxcat.
type IndexInfo struct {
	IndexName string
	TableName string
	FieldName string
	Kind      IndexKind
	tx        *tx.Transaction
	tblLayout *record.Layout
	tblSchema *record.Schema
	idxLayout *record.Layout
	stat      StatInfo
}

// Open constructs the concrete index implementation for this entry. A
// BTreeIndex is in-memory only (see index.BTreeIndex), so opening one that
// currently holds nothing rebuilds it by scanning the base table; a
// process-local tree surviving from an earlier Open in the same run is left
// alone.
func (ii *IndexInfo) Open() (index.Index, error) {
	switch ii.Kind {
	case IndexKindBTree:
		bi := index.NewBTreeIndex(ii.IndexName)
		if bi.Len() == 0 {
			if err := ii.rebuildBTree(bi); err != nil {
				return nil, err
			}
		}
		return bi, nil
	default:
		return index.NewHashIndex(ii.tx, ii.IndexName, ii.idxLayout), nil
	}
}

func (ii *IndexInfo) rebuildBTree(bi *index.BTreeIndex) error {
	ts, err := record.NewTableScan(ii.tx, ii.TableName, ii.tblLayout)
	if err != nil {
		return err
	}
	defer ts.Close()
	for {
		ok, err := ts.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		val, err := ts.GetValue(ii.FieldName)
		if err != nil {
			return err
		}
		if val.IsNull() {
			continue
		}
		if err := bi.Insert(val, ts.GetRid()); err != nil {
			return err
		}
	}
}

// IndexMgr stores (index-name, table-name, field-name, kind) rows in idxcat.
type IndexMgr struct {
	layout   *record.Layout
	tableMgr *TableMgr
	statMgr  *StatMgr
}

// NewIndexMgr bootstraps the idxcat table on first run.
func NewIndexMgr(isNew bool, tableMgr *TableMgr, statMgr *StatMgr, t *tx.Transaction) (*IndexMgr, error) {
	if isNew {
		schema := record.NewSchema()
		schema.AddStringField("indexname", maxNameLength)
		schema.AddStringField("tablename", maxNameLength)
		schema.AddStringField("fieldname", maxNameLength)
		schema.AddI32Field("indexkind")
		if err := tableMgr.CreateTable("idxcat", schema, t); err != nil {
			return nil, err
		}
	}
	layout, err := tableMgr.GetLayout("idxcat", t)
	if err != nil {
		return nil, err
	}
	return &IndexMgr{layout: layout, tableMgr: tableMgr, statMgr: statMgr}, nil
}

// CreateIndex records a new index of the given kind on tablename(fieldname).
func (im *IndexMgr) CreateIndex(indexname, tablename, fieldname string, kind IndexKind, t *tx.Transaction) error {
	ts, err := record.NewTableScan(t, "idxcat", im.layout)
	if err != nil {
		return err
	}
	defer ts.Close()
	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("indexname", indexname); err != nil {
		return err
	}
	if err := ts.SetString("tablename", tablename); err != nil {
		return err
	}
	if err := ts.SetString("fieldname", fieldname); err != nil {
		return err
	}
	return ts.SetInt("indexkind", int32(kind))
}

// GetIndexInfo returns every index defined on tablename, keyed by field name.
func (im *IndexMgr) GetIndexInfo(tablename string, t *tx.Transaction) (map[string]*IndexInfo, error) {
	result := make(map[string]*IndexInfo)
	ts, err := record.NewTableScan(t, "idxcat", im.layout)
	if err != nil {
		return nil, err
	}
	defer ts.Close()

	tblLayout, err := im.tableMgr.GetLayout(tablename, t)
	if err != nil {
		return nil, err
	}
	tblSchema := tblLayout.Schema()
	stat, err := im.statMgr.GetStatInfo(tablename, tblSchema, t)
	if err != nil {
		return nil, err
	}

	for {
		ok, err := ts.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		tblname, err := ts.GetString("tablename")
		if err != nil {
			return nil, err
		}
		if tblname != tablename {
			continue
		}
		indexname, err := ts.GetString("indexname")
		if err != nil {
			return nil, err
		}
		fieldname, err := ts.GetString("fieldname")
		if err != nil {
			return nil, err
		}
		kind, err := ts.GetInt("indexkind")
		if err != nil {
			return nil, err
		}
		idxSchema := record.NewSchema()
		idxSchema.AddI32Field("block")
		idxSchema.AddI32Field("id")
		if tblSchema.Type(fieldname) == record.I32 {
			idxSchema.AddI32Field("dataval")
		} else {
			idxSchema.AddStringField("dataval", tblSchema.Length(fieldname))
		}
		result[fieldname] = &IndexInfo{
			IndexName: indexname,
			TableName: tablename,
			FieldName: fieldname,
			Kind:      IndexKind(kind),
			tx:        t,
			tblLayout: tblLayout,
			tblSchema: tblSchema,
			idxLayout: record.NewLayout(idxSchema),
			stat:      stat,
		}
	}
	return result, nil
}

// BlocksAccessed estimates the number of block accesses a lookup through
// this index costs (the classic B-tree-style traversal-cost formula:
// one access per level of a tree with the index's own record count, plus
// the leaf).
func (ii *IndexInfo) BlocksAccessed() int {
	recordsPerBlock := ii.tx.BlockSize() / ii.idxLayout.SlotSize()
	if recordsPerBlock == 0 {
		recordsPerBlock = 1
	}
	numBlocks := ii.stat.NumRecords / recordsPerBlock
	return searchCost(numBlocks, recordsPerBlock)
}

// RecordsOutput estimates the number of matching entries a lookup returns.
func (ii *IndexInfo) RecordsOutput() int {
	dv := ii.stat.DistinctValues(ii.FieldName)
	if dv == 0 {
		return ii.stat.NumRecords
	}
	return ii.stat.NumRecords / dv
}

// DistinctValues estimates, for a field other than the indexed one, how many
// distinct values remain among the index's matching entries.
func (ii *IndexInfo) DistinctValues(fieldname string) int {
	if fieldname == ii.FieldName {
		return 1
	}
	return ii.stat.DistinctValues(fieldname)
}

func searchCost(numBlocks, recordsPerBlock int) int {
	if recordsPerBlock <= 1 {
		return numBlocks
	}
	levels := 0
	for n := numBlocks; n > 1; n /= recordsPerBlock {
		levels++
	}
	return levels + 1
}
