// Package demo seeds the classic teaching schema (student/dept/course/
// section/enroll) used throughout the engine's own tests and by the CLI's
// -seed flag. It is a boundary collaborator: every statement runs through
// the embedded driver, never against engine internals directly.
package demo

import "simpledb/driver/embedded"

// CreateStudentDB creates and populates the five-table schema on conn,
// committing after each DDL/DML statement via the statement's own
// auto-commit behaviour.
func CreateStudentDB(conn *embedded.Connection) error {
	stmt := conn.CreateStatement()

	if _, err := stmt.ExecuteUpdate("create table student (sid i32, sname varchar(10), majorid i32, gradyear i32)"); err != nil {
		return err
	}
	for _, row := range []string{
		"(1, 'joe', 10, 2021)",
		"(2, 'amy', 20, 2020)",
		"(3, 'max', 10, 2022)",
		"(4, 'sue', 20, 2022)",
		"(5, 'bob', 30, 2020)",
		"(6, 'kim', 20, 2020)",
		"(7, 'art', 30, 2021)",
		"(8, 'pat', 20, 2019)",
		"(9, 'lee', 10, 2021)",
	} {
		if _, err := stmt.ExecuteUpdate("insert into student (sid, sname, majorid, gradyear) values " + row); err != nil {
			return err
		}
	}

	if _, err := stmt.ExecuteUpdate("create table dept (did i32, dname varchar(8))"); err != nil {
		return err
	}
	for _, row := range []string{"(10, 'compsci')", "(20, 'math')", "(30, 'drama')"} {
		if _, err := stmt.ExecuteUpdate("insert into dept (did, dname) values " + row); err != nil {
			return err
		}
	}

	if _, err := stmt.ExecuteUpdate("create table course (cid i32, title varchar(20), deptid i32)"); err != nil {
		return err
	}
	for _, row := range []string{
		"(12, 'db systems', 10)",
		"(22, 'compilers', 10)",
		"(32, 'calculus', 20)",
		"(42, 'algebra', 20)",
		"(52, 'acting', 30)",
		"(62, 'elocution', 30)",
	} {
		if _, err := stmt.ExecuteUpdate("insert into course (cid, title, deptid) values " + row); err != nil {
			return err
		}
	}

	if _, err := stmt.ExecuteUpdate("create table section (sectid i32, courseid i32, prof varchar(8), yearoffered i32)"); err != nil {
		return err
	}
	for _, row := range []string{
		"(13, 12, 'turing', 2018)",
		"(23, 12, 'turing', 2019)",
		"(33, 32, 'newton', 2019)",
		"(43, 32, 'einstein', 2017)",
		"(53, 62, 'brando', 2018)",
	} {
		if _, err := stmt.ExecuteUpdate("insert into section (sectid, courseid, prof, yearoffered) values " + row); err != nil {
			return err
		}
	}

	if _, err := stmt.ExecuteUpdate("create table enroll (eid i32, studentid i32, sectionid i32, grade varchar(2))"); err != nil {
		return err
	}
	for _, row := range []string{
		"(14, 1, 13, 'A')",
		"(24, 1, 43, 'C')",
		"(34, 2, 43, 'B+')",
		"(44, 4, 33, 'B')",
		"(54, 4, 53, 'A')",
		"(64, 6, 53, 'A')",
	} {
		if _, err := stmt.ExecuteUpdate("insert into enroll (eid, studentid, sectionid, grade) values " + row); err != nil {
			return err
		}
	}

	return nil
}
