package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/common"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/parse"
	"simpledb/record"
	"simpledb/tx"
	"simpledb/wal"
)

func newTestTx(t *testing.T) *tx.Transaction {
	t.Helper()
	dir := t.TempDir()
	fm, err := file.NewManager(dir, 400)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm)
	require.NoError(t, err)
	bp := buffer.NewPool(fm, lm, 8, time.Second)
	lt := concurrency.NewLockTable(time.Second)
	mgr, err := tx.NewManager(fm, lm, bp, lt)
	require.NoError(t, err)
	txn, err := mgr.NewTransaction()
	require.NoError(t, err)
	return txn
}

func studentSchema() *record.Schema {
	s := record.NewSchema()
	s.AddI32Field("sid")
	s.AddStringField("sname", 10)
	s.AddI32Field("gradyear")
	return s
}

func makeStudents(t *testing.T, txn *tx.Transaction) *record.TableScan {
	t.Helper()
	layout := record.NewLayout(studentSchema())
	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)
	rows := []struct {
		sid      int32
		sname    string
		gradyear int32
	}{
		{1, "joe", 2020}, {2, "amy", 2021}, {3, "max", 2020}, {4, "sue", 2019},
	}
	for _, r := range rows {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("sid", r.sid))
		require.NoError(t, ts.SetString("sname", r.sname))
		require.NoError(t, ts.SetInt("gradyear", r.gradyear))
	}
	require.NoError(t, ts.BeforeFirst())
	return ts
}

func TestSelectScanFiltersByPredicate(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)
	pred := &parse.Predicate{Terms: []parse.Term{{
		Lhs: parse.FieldExpr{Field: "gradyear"},
		Rhs: parse.LiteralExpr{Value: record.IntConstant(2020)},
	}}}
	ss := NewSelectScan(ts, pred)
	require.NoError(t, ss.BeforeFirst())
	var names []string
	for {
		ok, err := ss.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		name, err := ss.GetString("sname")
		require.NoError(t, err)
		names = append(names, name)
	}
	require.Equal(t, []string{"joe", "max"}, names)
	require.NoError(t, ss.Close())
}

func TestProjectScanHidesFields(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)
	ps := NewProjectScan(ts, []string{"sname"})
	require.NoError(t, ps.BeforeFirst())
	ok, err := ps.Next()
	require.NoError(t, err)
	require.True(t, ok)
	_, err = ps.GetInt("sid")
	require.Error(t, err)
	require.NoError(t, ps.Close())
}

func TestExtendScanComputesExpression(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)
	items := []parse.SelectItem{
		{Expr: parse.BinaryExpr{Op: '+', Left: parse.FieldExpr{Field: "gradyear"}, Right: parse.LiteralExpr{Value: record.IntConstant(1)}}, Alias: "nextyear"},
	}
	es := NewExtendScan(ts, items)
	require.NoError(t, es.BeforeFirst())
	ok, err := es.Next()
	require.NoError(t, err)
	require.True(t, ok)
	v, err := es.GetInt("nextyear")
	require.NoError(t, err)
	require.Equal(t, int32(2021), v)
	require.NoError(t, es.Close())
}

func TestProductScanCombinesTwoTables(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)

	deptSchema := record.NewSchema()
	deptSchema.AddI32Field("did")
	deptLayout := record.NewLayout(deptSchema)
	dept, err := record.NewTableScan(txn, "dept", deptLayout)
	require.NoError(t, err)
	require.NoError(t, dept.Insert())
	require.NoError(t, dept.SetInt("did", 10))
	require.NoError(t, dept.Insert())
	require.NoError(t, dept.SetInt("did", 20))
	require.NoError(t, dept.BeforeFirst())

	prod, err := NewProductScan(ts, dept)
	require.NoError(t, err)
	count := 0
	for {
		ok, err := prod.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 8, count) // 4 students * 2 depts
	require.NoError(t, prod.Close())
}

func TestSortScanOrdersRows(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)
	require.NoError(t, ts.BeforeFirst())
	ss, err := NewSortScan(txn, ts, studentSchema(), []string{"gradyear"})
	require.NoError(t, err)
	require.NoError(t, ss.BeforeFirst())
	var years []int32
	for {
		ok, err := ss.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		y, err := ss.GetInt("gradyear")
		require.NoError(t, err)
		years = append(years, y)
	}
	require.Equal(t, []int32{2019, 2020, 2020, 2021}, years)
	require.NoError(t, ss.Close())
}

func TestGroupByScanCountsPerGroup(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)
	require.NoError(t, ts.BeforeFirst())
	sorted, err := NewSortScan(txn, ts, studentSchema(), []string{"gradyear"})
	require.NoError(t, err)
	gb := NewGroupByScan(sorted, []string{"gradyear"}, []parse.Aggregate{{Func: parse.AggCount, Field: "sid"}})
	require.NoError(t, gb.BeforeFirst())

	counts := map[int32]int32{}
	for {
		ok, err := gb.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		year, err := gb.GetInt("gradyear")
		require.NoError(t, err)
		cnt, err := gb.GetInt("count(sid)")
		require.NoError(t, err)
		counts[year] = cnt
	}
	require.Equal(t, map[int32]int32{2019: 1, 2020: 2, 2021: 1}, counts)
	require.NoError(t, gb.Close())
}

func TestEvalPredicateIsNullThreeValued(t *testing.T) {
	txn := newTestTx(t)
	layout := record.NewLayout(studentSchema())
	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)
	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("sid", 1))
	// sname and gradyear left null
	require.NoError(t, ts.BeforeFirst())
	ok, err := ts.Next()
	require.NoError(t, err)
	require.True(t, ok)

	nullPred := &parse.Predicate{Terms: []parse.Term{{Lhs: parse.FieldExpr{Field: "gradyear"}, IsNull: true}}}
	match, err := EvalPredicate(nullPred, ts)
	require.NoError(t, err)
	require.True(t, match)

	eqPred := &parse.Predicate{Terms: []parse.Term{{
		Lhs: parse.FieldExpr{Field: "gradyear"},
		Rhs: parse.LiteralExpr{Value: record.IntConstant(2020)},
	}}}
	match, err = EvalPredicate(eqPred, ts)
	require.NoError(t, err)
	require.False(t, match) // NULL = 2020 is UNKNOWN, row excluded
}

func TestEvalExprDivisionByZero(t *testing.T) {
	txn := newTestTx(t)
	ts := makeStudents(t, txn)
	ok, err := ts.Next()
	require.NoError(t, err)
	require.True(t, ok)
	expr := parse.BinaryExpr{Op: '/', Left: parse.LiteralExpr{Value: record.IntConstant(1)}, Right: parse.LiteralExpr{Value: record.IntConstant(0)}}
	_, err = EvalExpr(expr, ts)
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, common.ExprError, code)
}
