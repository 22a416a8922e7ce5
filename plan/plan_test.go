package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/metadata"
	"simpledb/tx"
	"simpledb/wal"
)

func newTestEnv(t *testing.T) (*tx.Transaction, *metadata.Manager) {
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
	mdMgr, err := metadata.NewManager(true, txn)
	require.NoError(t, err)
	return txn, mdMgr
}

func seedStudents(t *testing.T, planner *Planner, txn *tx.Transaction) {
	t.Helper()
	_, err := planner.ExecuteUpdate("create table student (sid i32, sname varchar(10), gradyear i32)", txn)
	require.NoError(t, err)
	rows := []string{
		"insert into student (sid, sname, gradyear) values (1, 'joe', 2020)",
		"insert into student (sid, sname, gradyear) values (2, 'amy', 2021)",
		"insert into student (sid, sname, gradyear) values (3, 'max', 2020)",
	}
	for _, sql := range rows {
		n, err := planner.ExecuteUpdate(sql, txn)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}
}

func TestPlannerSelectWithWhere(t *testing.T) {
	txn, mdMgr := newTestEnv(t)
	planner := NewPlanner(mdMgr)
	seedStudents(t, planner, txn)

	p, err := planner.CreateQueryPlan("select sname from student where gradyear = 2020", txn)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	require.NoError(t, s.BeforeFirst())
	var names []string
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		name, err := s.GetString("sname")
		require.NoError(t, err)
		names = append(names, name)
	}
	require.Equal(t, []string{"joe", "max"}, names)
	require.NoError(t, s.Close())
}

func TestPlannerInsertDeleteModify(t *testing.T) {
	txn, mdMgr := newTestEnv(t)
	planner := NewPlanner(mdMgr)
	seedStudents(t, planner, txn)

	n, err := planner.ExecuteUpdate("modify student set gradyear = 2022 where sname = 'amy'", txn)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = planner.ExecuteUpdate("delete from student where gradyear = 2020", txn)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	p, err := planner.CreateQueryPlan("select sid from student", txn)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	require.NoError(t, s.BeforeFirst())
	count := 0
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 1, count)
	require.NoError(t, s.Close())
}

func TestPlannerJoinTwoTables(t *testing.T) {
	txn, mdMgr := newTestEnv(t)
	planner := NewPlanner(mdMgr)
	seedStudents(t, planner, txn)

	_, err := planner.ExecuteUpdate("create table dept (did i32, studentid i32)", txn)
	require.NoError(t, err)
	_, err = planner.ExecuteUpdate("insert into dept (did, studentid) values (10, 1)", txn)
	require.NoError(t, err)
	_, err = planner.ExecuteUpdate("insert into dept (did, studentid) values (20, 3)", txn)
	require.NoError(t, err)

	p, err := planner.CreateQueryPlan("select sname, did from student, dept where sid = studentid", txn)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	require.NoError(t, s.BeforeFirst())
	count := 0
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 2, count)
	require.NoError(t, s.Close())
}

func TestPlannerGroupByAndOrderBy(t *testing.T) {
	txn, mdMgr := newTestEnv(t)
	planner := NewPlanner(mdMgr)
	seedStudents(t, planner, txn)

	p, err := planner.CreateQueryPlan("select gradyear, count(sid) as n from student group by gradyear order by gradyear", txn)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	require.NoError(t, s.BeforeFirst())
	var years []int32
	var counts []int32
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		y, err := s.GetInt("gradyear")
		require.NoError(t, err)
		c, err := s.GetInt("n")
		require.NoError(t, err)
		years = append(years, y)
		counts = append(counts, c)
	}
	require.Equal(t, []int32{2020, 2021}, years)
	require.Equal(t, []int32{2, 1}, counts)
	require.NoError(t, s.Close())
}

func TestPlannerCreateViewAndQueryIt(t *testing.T) {
	txn, mdMgr := newTestEnv(t)
	planner := NewPlanner(mdMgr)
	seedStudents(t, planner, txn)

	_, err := planner.ExecuteUpdate("create view earlygrads as select sname from student where gradyear = 2020", txn)
	require.NoError(t, err)

	p, err := planner.CreateQueryPlan("select sname from earlygrads", txn)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	require.NoError(t, s.BeforeFirst())
	count := 0
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 2, count)
	require.NoError(t, s.Close())
}

func TestPlannerCreateIndexAndUseIt(t *testing.T) {
	txn, mdMgr := newTestEnv(t)
	planner := NewPlanner(mdMgr)
	seedStudents(t, planner, txn)

	_, err := planner.ExecuteUpdate("create index idx_sid on student (sid) using btree", txn)
	require.NoError(t, err)

	_, err = planner.ExecuteUpdate("create table dept (did i32, studentid i32)", txn)
	require.NoError(t, err)
	_, err = planner.ExecuteUpdate("insert into dept (did, studentid) values (10, 1)", txn)
	require.NoError(t, err)
	_, err = planner.ExecuteUpdate("insert into dept (did, studentid) values (20, 3)", txn)
	require.NoError(t, err)

	p, err := planner.CreateQueryPlan("select sname, did from student, dept where sid = studentid", txn)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	require.NoError(t, s.BeforeFirst())
	count := 0
	for {
		ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 2, count)
	require.NoError(t, s.Close())
}
