// Package metadata implements the catalog: table, view, index and statistics
// metadata, all stored as ordinary tables in the same engine they describe.
package metadata

import (
	"simpledb/record"
	"simpledb/tx"
)

const maxNameLength = 50

// TableMgr bootstraps and serves the tblcat/fldcat tables that every other
// table's layout is reconstructed from. tblcat and fldcat describe
// themselves: their own rows are the first ones written into them.
type TableMgr struct {
	tcatLayout *record.Layout
	fcatLayout *record.Layout
}

// NewTableMgr opens (bootstrapping on first run) the table and field
// catalogs.
func NewTableMgr(isNew bool, t *tx.Transaction) (*TableMgr, error) {
	tcatSchema := record.NewSchema()
	tcatSchema.AddStringField("tblname", maxNameLength)
	tcatSchema.AddI32Field("slotsize")
	tcatLayout := record.NewLayout(tcatSchema)

	fcatSchema := record.NewSchema()
	fcatSchema.AddStringField("tblname", maxNameLength)
	fcatSchema.AddStringField("fldname", maxNameLength)
	fcatSchema.AddI32Field("type")
	fcatSchema.AddI32Field("length")
	fcatSchema.AddI32Field("offset")
	fcatLayout := record.NewLayout(fcatSchema)

	tm := &TableMgr{tcatLayout: tcatLayout, fcatLayout: fcatLayout}
	if isNew {
		if err := tm.CreateTable("tblcat", tcatSchema, t); err != nil {
			return nil, err
		}
		if err := tm.CreateTable("fldcat", fcatSchema, t); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// CreateTable writes tblname's definition into tblcat and one row per field
// into fldcat.
func (tm *TableMgr) CreateTable(tblname string, schema *record.Schema, t *tx.Transaction) error {
	layout := record.NewLayout(schema)

	tcat, err := record.NewTableScan(t, "tblcat", tm.tcatLayout)
	if err != nil {
		return err
	}
	defer tcat.Close()
	if err := tcat.Insert(); err != nil {
		return err
	}
	if err := tcat.SetString("tblname", tblname); err != nil {
		return err
	}
	if err := tcat.SetInt("slotsize", int32(layout.SlotSize())); err != nil {
		return err
	}

	fcat, err := record.NewTableScan(t, "fldcat", tm.fcatLayout)
	if err != nil {
		return err
	}
	defer fcat.Close()
	for _, fname := range schema.Fields() {
		if err := fcat.Insert(); err != nil {
			return err
		}
		if err := fcat.SetString("tblname", tblname); err != nil {
			return err
		}
		if err := fcat.SetString("fldname", fname); err != nil {
			return err
		}
		if err := fcat.SetInt("type", int32(schema.Type(fname))); err != nil {
			return err
		}
		if err := fcat.SetInt("length", int32(schema.Length(fname))); err != nil {
			return err
		}
		if err := fcat.SetInt("offset", int32(layout.Offset(fname))); err != nil {
			return err
		}
	}
	return nil
}

// GetLayout reconstructs tblname's layout by reading fldcat and tblcat.
func (tm *TableMgr) GetLayout(tblname string, t *tx.Transaction) (*record.Layout, error) {
	slotsize := -1
	tcat, err := record.NewTableScan(t, "tblcat", tm.tcatLayout)
	if err != nil {
		return nil, err
	}
	for {
		ok, err := tcat.Next()
		if err != nil {
			tcat.Close()
			return nil, err
		}
		if !ok {
			break
		}
		name, err := tcat.GetString("tblname")
		if err != nil {
			tcat.Close()
			return nil, err
		}
		if name == tblname {
			size, err := tcat.GetInt("slotsize")
			if err != nil {
				tcat.Close()
				return nil, err
			}
			slotsize = int(size)
			break
		}
	}
	tcat.Close()

	schema := record.NewSchema()
	offsets := make(map[string]int)
	fcat, err := record.NewTableScan(t, "fldcat", tm.fcatLayout)
	if err != nil {
		return nil, err
	}
	defer fcat.Close()
	for {
		ok, err := fcat.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		name, err := fcat.GetString("tblname")
		if err != nil {
			return nil, err
		}
		if name != tblname {
			continue
		}
		fldname, err := fcat.GetString("fldname")
		if err != nil {
			return nil, err
		}
		ftype, err := fcat.GetInt("type")
		if err != nil {
			return nil, err
		}
		flength, err := fcat.GetInt("length")
		if err != nil {
			return nil, err
		}
		foffset, err := fcat.GetInt("offset")
		if err != nil {
			return nil, err
		}
		schema.AddField(fldname, record.FieldType(ftype), int(flength))
		offsets[fldname] = int(foffset)
	}
	return record.NewLayoutFromMetadata(schema, offsets, slotsize), nil
}
