package embedded

// Statement runs SQL text against its connection's current transaction.
type Statement struct {
	conn *Connection
}

// ExecuteQuery plans and opens sql as a SELECT, returning a ResultSet
// positioned before the first row. Closing the ResultSet commits the
// connection's transaction, matching the classic embedded-driver contract
// of one transaction per query.
func (s *Statement) ExecuteQuery(sql string) (*ResultSet, error) {
	p, err := s.conn.planner.CreateQueryPlan(sql, s.conn.currentTx())
	if err != nil {
		return nil, err
	}
	return newResultSet(p, s.conn)
}

// ExecuteUpdate plans and runs sql as an INSERT/DELETE/MODIFY/DDL
// statement, committing the connection's transaction, and returns the
// number of rows the statement affected.
func (s *Statement) ExecuteUpdate(sql string) (int, error) {
	n, err := s.conn.planner.ExecuteUpdate(sql, s.conn.currentTx())
	if err != nil {
		return 0, err
	}
	if err := s.conn.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
