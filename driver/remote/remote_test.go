package remote

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"simpledb/internal/config"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go Serve(ln)
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String()
}

func TestRemoteDriverEndToEnd(t *testing.T) {
	addr := startTestServer(t)
	drv, err := Dial(addr)
	require.NoError(t, err)
	defer drv.Close()

	conn, err := drv.Connect(t.TempDir(), config.Default())
	require.NoError(t, err)

	stmt, err := conn.CreateStatement()
	require.NoError(t, err)

	_, err = stmt.ExecuteUpdate("create table student (sid i32, sname varchar(10))")
	require.NoError(t, err)
	n, err := stmt.ExecuteUpdate("insert into student (sid, sname) values (1, 'joe')")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rs, err := stmt.ExecuteQuery("select sid, sname from student")
	require.NoError(t, err)

	cols, err := rs.Metadata()
	require.NoError(t, err)
	require.Len(t, cols, 2)
	require.Equal(t, "sid", cols[0].Name)
	require.Equal(t, TypeI32, cols[0].Type)

	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	sid, isNull, err := rs.GetI32("sid")
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, int32(1), sid)

	name, isNull, err := rs.GetString("sname")
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, "joe", name)

	ok, err = rs.Next()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, rs.Close())
	require.NoError(t, conn.Close())
}
