package demo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpledb/driver/embedded"
	"simpledb/internal/config"
)

func TestCreateStudentDB(t *testing.T) {
	dir := t.TempDir()
	conn, err := embedded.NewDriver().Connect(dir, config.Default())
	require.NoError(t, err)

	require.NoError(t, CreateStudentDB(conn))

	stmt := conn.CreateStatement()
	rs, err := stmt.ExecuteQuery("select sname from student where majorid = 10")
	require.NoError(t, err)

	var names []string
	for {
		ok, err := rs.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		name, err := rs.GetString("sname")
		require.NoError(t, err)
		names = append(names, name)
	}
	require.NoError(t, rs.Close())
	require.ElementsMatch(t, []string{"joe", "max", "lee"}, names)

	require.NoError(t, conn.Close())
}
