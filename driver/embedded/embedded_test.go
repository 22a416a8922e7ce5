package embedded

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpledb/internal/config"
)

func TestEmbeddedDriverEndToEnd(t *testing.T) {
	dir := t.TempDir()
	drv := NewDriver()
	conn, err := drv.Connect(dir, config.Default())
	require.NoError(t, err)

	stmt := conn.CreateStatement()
	_, err = stmt.ExecuteUpdate("create table student (sid i32, sname varchar(10), gradyear i32)")
	require.NoError(t, err)

	n, err := stmt.ExecuteUpdate("insert into student (sid, sname, gradyear) values (1, 'joe', 2020)")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	n, err = stmt.ExecuteUpdate("insert into student (sid, sname, gradyear) values (2, 'amy', 2021)")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rs, err := stmt.ExecuteQuery("select sid, sname from student where gradyear = 2020")
	require.NoError(t, err)

	md := rs.GetMetadata()
	require.Equal(t, 2, md.ColumnCount())
	require.Equal(t, "sid", md.ColumnName(0))
	require.Equal(t, TypeI32, md.ColumnType(0))
	require.Equal(t, "sname", md.ColumnName(1))
	require.Equal(t, TypeVarchar, md.ColumnType(1))

	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	sid, err := rs.GetI32("sid")
	require.NoError(t, err)
	require.Equal(t, int32(1), sid)
	require.False(t, rs.WasNull())

	name, err := rs.GetString("sname")
	require.NoError(t, err)
	require.Equal(t, "joe", name)

	ok, err = rs.Next()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, rs.Close())
	require.NoError(t, conn.Close())
}

func TestEmbeddedDriverNullTracking(t *testing.T) {
	dir := t.TempDir()
	drv := NewDriver()
	conn, err := drv.Connect(dir, config.Default())
	require.NoError(t, err)
	stmt := conn.CreateStatement()

	_, err = stmt.ExecuteUpdate("create table t (id i32, note varchar(10))")
	require.NoError(t, err)
	_, err = stmt.ExecuteUpdate("insert into t (id) values (1)")
	require.NoError(t, err)

	rs, err := stmt.ExecuteQuery("select id, note from t")
	require.NoError(t, err)
	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = rs.GetString("note")
	require.NoError(t, err)
	require.True(t, rs.WasNull())

	_, err = rs.GetI32("id")
	require.NoError(t, err)
	require.False(t, rs.WasNull())

	require.NoError(t, rs.Close())
}

func TestEmbeddedConnectionCommitStartsFreshTransaction(t *testing.T) {
	dir := t.TempDir()
	drv := NewDriver()
	conn, err := drv.Connect(dir, config.Default())
	require.NoError(t, err)
	stmt := conn.CreateStatement()

	_, err = stmt.ExecuteUpdate("create table t (id i32)")
	require.NoError(t, err)
	require.NoError(t, conn.Commit())

	_, err = stmt.ExecuteUpdate("insert into t (id) values (1)")
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}
