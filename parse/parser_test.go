package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpledb/common"
	"simpledb/record"
)

func TestParseSimpleSelect(t *testing.T) {
	stmt, err := Parse("select sname, gradyear from student where gradyear = 2020")
	require.NoError(t, err)
	qd, ok := stmt.(*QueryData)
	require.True(t, ok)
	require.False(t, qd.Star)
	require.Len(t, qd.Items, 2)
	require.Equal(t, "sname", qd.Items[0].FieldName())
	require.Equal(t, []string{"student"}, qd.Tables)
	require.NotNil(t, qd.Pred)
	require.Len(t, qd.Pred.Terms, 1)
	require.Equal(t, FieldExpr{Field: "gradyear"}, qd.Pred.Terms[0].Lhs)
	require.Equal(t, LiteralExpr{Value: record.IntConstant(2020)}, qd.Pred.Terms[0].Rhs)
}

func TestParseSelectStarWithJoinAndAnd(t *testing.T) {
	stmt, err := Parse("select * from student, dept where majorid = did and gradyear = 2019")
	require.NoError(t, err)
	qd := stmt.(*QueryData)
	require.True(t, qd.Star)
	require.Equal(t, []string{"student", "dept"}, qd.Tables)
	require.Len(t, qd.Pred.Terms, 2)
}

func TestParseSelectIsNull(t *testing.T) {
	stmt, err := Parse("select sid from student where majorid is null")
	require.NoError(t, err)
	qd := stmt.(*QueryData)
	require.True(t, qd.Pred.Terms[0].IsNull)
}

func TestParseSelectGroupByAndOrderBy(t *testing.T) {
	stmt, err := Parse("select majorid, count(sid) as n from student group by majorid order by majorid")
	require.NoError(t, err)
	qd := stmt.(*QueryData)
	require.Equal(t, []string{"majorid"}, qd.GroupFields)
	require.Equal(t, []string{"majorid"}, qd.OrderFields)
	require.Equal(t, AggCount, qd.Items[1].Agg.Func)
	require.Equal(t, "n", qd.Items[1].FieldName())
}

func TestParseArithmeticExpression(t *testing.T) {
	stmt, err := Parse("select sid from student where gradyear = 2000 + 20 * 2")
	require.NoError(t, err)
	qd := stmt.(*QueryData)
	rhs := qd.Pred.Terms[0].Rhs.(BinaryExpr)
	require.Equal(t, byte('+'), rhs.Op)
	require.Equal(t, LiteralExpr{Value: record.IntConstant(2000)}, rhs.Left)
	mul := rhs.Right.(BinaryExpr)
	require.Equal(t, byte('*'), mul.Op)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("insert into student (sid, sname, gradyear) values (1, 'joe', 2021)")
	require.NoError(t, err)
	ins := stmt.(*InsertData)
	require.Equal(t, "student", ins.TableName)
	require.Equal(t, []string{"sid", "sname", "gradyear"}, ins.Fields)
	require.Equal(t, []record.Constant{
		record.IntConstant(1),
		record.StringConstant("joe"),
		record.IntConstant(2021),
	}, ins.Values)
}

func TestParseInsertFieldValueMismatchErrors(t *testing.T) {
	_, err := Parse("insert into student (sid, sname) values (1)")
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, common.ParseError, code)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("delete from student where gradyear = 2020")
	require.NoError(t, err)
	del := stmt.(*DeleteData)
	require.Equal(t, "student", del.TableName)
	require.Len(t, del.Pred.Terms, 1)
}

func TestParseDeleteWithoutWhere(t *testing.T) {
	stmt, err := Parse("delete from student")
	require.NoError(t, err)
	del := stmt.(*DeleteData)
	require.Nil(t, del.Pred)
}

func TestParseModify(t *testing.T) {
	stmt, err := Parse("modify student set gradyear = gradyear + 1 where sid = 1")
	require.NoError(t, err)
	mod := stmt.(*ModifyData)
	require.Equal(t, "student", mod.TableName)
	require.Equal(t, "gradyear", mod.Field)
	_, ok := mod.Expr.(BinaryExpr)
	require.True(t, ok)
}

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("create table student (sid i32, sname varchar(10), gradyear i32)")
	require.NoError(t, err)
	ct := stmt.(*CreateTableData)
	require.Equal(t, "student", ct.TableName)
	require.ElementsMatch(t, []string{"sid", "sname", "gradyear"}, ct.Schema.Fields())
	require.Equal(t, record.Varchar, ct.Schema.Type("sname"))
	require.Equal(t, 10, ct.Schema.Length("sname"))
}

func TestParseCreateView(t *testing.T) {
	stmt, err := Parse("create view deans_list as select sid from student where gradyear = 2020")
	require.NoError(t, err)
	cv := stmt.(*CreateViewData)
	require.Equal(t, "deans_list", cv.ViewName)
	require.Equal(t, []string{"student"}, cv.Def.Tables)
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := Parse("create index idx_major on student (majorid)")
	require.NoError(t, err)
	ci := stmt.(*CreateIndexData)
	require.Equal(t, "idx_major", ci.IndexName)
	require.Equal(t, "student", ci.TableName)
	require.Equal(t, "majorid", ci.FieldName)
	require.Equal(t, IndexKindHash, ci.Kind)
}

func TestParseCreateIndexUsingBTree(t *testing.T) {
	stmt, err := Parse("create index idx_major on student (majorid) using btree")
	require.NoError(t, err)
	ci := stmt.(*CreateIndexData)
	require.Equal(t, IndexKindBTree, ci.Kind)
}

func TestParseCreateIndexUsingHash(t *testing.T) {
	stmt, err := Parse("create index idx_major on student (majorid) using hash")
	require.NoError(t, err)
	ci := stmt.(*CreateIndexData)
	require.Equal(t, IndexKindHash, ci.Kind)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("frobnicate student")
	require.Error(t, err)
}
