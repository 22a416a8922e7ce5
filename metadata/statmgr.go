package metadata

import (
	"sync"

	"simpledb/record"
	"simpledb/tx"
)

// StatInfo holds the statistics StatMgr computes for one table: block count,
// record count, and a distinct-values estimate per field.
type StatInfo struct {
	NumBlocks  int
	NumRecords int
}

// DistinctValues returns a crude distinct-values estimate for fieldname.
// The engine does not maintain per-field histograms; this mirrors the
// classic textbook estimate: 1 plus one third of the record count, or 0 for
// an empty table, which is enough for the planner's greedy join-ordering heuristic without
// a real statistics collector.
func (si StatInfo) DistinctValues(fieldname string) int {
	if si.NumRecords == 0 {
		return 0
	}
	v := 1 + si.NumRecords/3
	if v < 1 {
		return 1
	}
	return v
}

// StatMgr computes and caches table statistics by a full scan, refreshing
// them once enough calls have accumulated since the last refresh (the
// design's "cached until invalidated" rule, approximated by a call
// counter rather than tracking individual mutations).
type StatMgr struct {
	tableMgr *TableMgr

	mu         sync.Mutex
	tableStats map[string]StatInfo
	numCalls   int
}

const statRefreshInterval = 100

// NewStatMgr computes initial statistics for every table currently in the
// catalog.
func NewStatMgr(tableMgr *TableMgr, t *tx.Transaction) (*StatMgr, error) {
	sm := &StatMgr{tableMgr: tableMgr, tableStats: make(map[string]StatInfo)}
	if err := sm.refreshStatistics(t); err != nil {
		return nil, err
	}
	return sm, nil
}

// GetStatInfo returns tablename's statistics, recomputing every table's if
// the refresh interval has elapsed.
func (sm *StatMgr) GetStatInfo(tablename string, schema *record.Schema, t *tx.Transaction) (StatInfo, error) {
	sm.mu.Lock()
	sm.numCalls++
	needsRefresh := sm.numCalls > statRefreshInterval
	sm.mu.Unlock()

	if needsRefresh {
		if err := sm.refreshStatistics(t); err != nil {
			return StatInfo{}, err
		}
	}

	sm.mu.Lock()
	si, ok := sm.tableStats[tablename]
	sm.mu.Unlock()
	if ok {
		return si, nil
	}
	return sm.calcTableStats(tablename, schema, t)
}

func (sm *StatMgr) refreshStatistics(t *tx.Transaction) error {
	sm.mu.Lock()
	sm.numCalls = 0
	sm.mu.Unlock()

	layout, err := sm.tableMgr.GetLayout("tblcat", t)
	if err != nil {
		return err
	}
	tcat, err := record.NewTableScan(t, "tblcat", layout)
	if err != nil {
		return err
	}
	defer tcat.Close()

	stats := make(map[string]StatInfo)
	for {
		ok, err := tcat.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		tblname, err := tcat.GetString("tblname")
		if err != nil {
			return err
		}
		tblLayout, err := sm.tableMgr.GetLayout(tblname, t)
		if err != nil {
			return err
		}
		si, err := sm.calcTableStats(tblname, tblLayout.Schema(), t)
		if err != nil {
			return err
		}
		stats[tblname] = si
	}

	sm.mu.Lock()
	sm.tableStats = stats
	sm.mu.Unlock()
	return nil
}

func (sm *StatMgr) calcTableStats(tablename string, schema *record.Schema, t *tx.Transaction) (StatInfo, error) {
	layout, err := sm.tableMgr.GetLayout(tablename, t)
	if err != nil {
		return StatInfo{}, err
	}
	ts, err := record.NewTableScan(t, tablename, layout)
	if err != nil {
		return StatInfo{}, err
	}
	defer ts.Close()

	numRecords := 0
	numBlocks := 0
	for {
		ok, err := ts.Next()
		if err != nil {
			return StatInfo{}, err
		}
		if !ok {
			break
		}
		numRecords++
		numBlocks = ts.GetRid().Blknum + 1
	}
	si := StatInfo{NumBlocks: numBlocks, NumRecords: numRecords}

	sm.mu.Lock()
	sm.tableStats[tablename] = si
	sm.mu.Unlock()
	return si, nil
}
