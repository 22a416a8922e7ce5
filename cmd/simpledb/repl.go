package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
)

// runStatement executes one SQL statement against conn and prints its
// result (a table for a query, a row count for an update) to w.
func runStatement(conn connection, sql string, w io.Writer) error {
	stmt, err := conn.CreateStatement()
	if err != nil {
		return err
	}

	lower := strings.ToLower(strings.TrimSpace(sql))
	if strings.HasPrefix(lower, "select") {
		rs, err := stmt.ExecuteQuery(sql)
		if err != nil {
			return err
		}
		defer rs.Close()
		return renderResultSet(rs, w)
	}

	n, err := stmt.ExecuteUpdate(sql)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d rows affected\n", n)
	return nil
}

func renderResultSet(rs resultSet, w io.Writer) error {
	cols, err := rs.Metadata()
	if err != nil {
		return err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(names)

	row := make([]string, len(cols))
	for {
		ok, err := rs.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		for i, c := range cols {
			if c.Type == typeI32 {
				v, isNull, err := rs.GetI32(c.Name)
				if err != nil {
					return err
				}
				if isNull {
					row[i] = "NULL"
				} else {
					row[i] = fmt.Sprintf("%d", v)
				}
				continue
			}
			v, isNull, err := rs.GetString(c.Name)
			if err != nil {
				return err
			}
			if isNull {
				row[i] = "NULL"
			} else {
				row[i] = v
			}
		}
		tw.Append(row)
	}
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", tw.NumLines())
	return nil
}

const typeI32 = 4

// replHistory is the file liner persists command history to, in the
// current working directory.
const replHistory = ".simpledb_history"

// Interact runs an interactive liner-backed console session against conn
// until the user sends EOF (Ctrl-D).
func Interact(conn connection) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(replHistory); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	for {
		text, err := line.Prompt("simpledb> ")
		if err != nil {
			break
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		line.AppendHistory(text)

		if text == "exit" || text == "quit" {
			break
		}
		if err := runStatement(conn, text, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if f, err := os.Create(replHistory); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}
