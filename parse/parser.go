package parse

import (
	"simpledb/common"
	"simpledb/record"
)

// Parser is a recursive-descent parser over the query language's grammar.
type Parser struct {
	lex *lexer
}

// Parse tokenises and parses sql, dispatching on its leading keyword to one
// of the seven supported statement forms.
func Parse(sql string) (Statement, error) {
	p := &Parser{lex: newLexer(sql)}
	tok, err := p.lex.current()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokKeyword {
		return nil, common.NewParseError(tok.pos, "expected a statement keyword, got %q", tok.text)
	}
	switch tok.text {
	case "select":
		return p.parseQuery()
	case "insert":
		return p.parseInsert()
	case "delete":
		return p.parseDelete()
	case "modify":
		return p.parseModify()
	case "create":
		return p.parseCreate()
	default:
		return nil, common.NewParseError(tok.pos, "unrecognised statement keyword %q", tok.text)
	}
}

// --- token helpers ---

func (p *Parser) peek() (token, error) {
	return p.lex.current()
}

func (p *Parser) expectKeyword(kw string) error {
	tok, err := p.lex.current()
	if err != nil {
		return err
	}
	if tok.kind != tokKeyword || tok.text != kw {
		return common.NewParseError(tok.pos, "expected %q, got %q", kw, tok.text)
	}
	p.lex.advance()
	return nil
}

func (p *Parser) expectDelim(d string) error {
	tok, err := p.lex.current()
	if err != nil {
		return err
	}
	if tok.kind != tokDelim || tok.text != d {
		return common.NewParseError(tok.pos, "expected %q, got %q", d, tok.text)
	}
	p.lex.advance()
	return nil
}

func (p *Parser) atDelim(d string) (bool, error) {
	tok, err := p.lex.current()
	if err != nil {
		return false, err
	}
	return tok.kind == tokDelim && tok.text == d, nil
}

func (p *Parser) atKeyword(kw string) (bool, error) {
	tok, err := p.lex.current()
	if err != nil {
		return false, err
	}
	return tok.kind == tokKeyword && tok.text == kw, nil
}

func (p *Parser) atEOF() (bool, error) {
	tok, err := p.lex.current()
	if err != nil {
		return false, err
	}
	return tok.kind == tokEOF, nil
}

func (p *Parser) expectIdent() (string, error) {
	tok, err := p.lex.current()
	if err != nil {
		return "", err
	}
	if tok.kind != tokIdent {
		return "", common.NewParseError(tok.pos, "expected an identifier, got %q", tok.text)
	}
	p.lex.advance()
	return tok.text, nil
}

func (p *Parser) expectIntLit() (int32, error) {
	tok, err := p.lex.current()
	if err != nil {
		return 0, err
	}
	if tok.kind != tokIntLit {
		return 0, common.NewParseError(tok.pos, "expected an integer literal, got %q", tok.text)
	}
	p.lex.advance()
	return tok.ival, nil
}

// --- expressions ---

// parseExpression handles + and -, left-associative, deferring to
// parseMulExpr for * and /.
func (p *Parser) parseExpression() (Expression, error) {
	left, err := p.parseMulExpr()
	if err != nil {
		return nil, err
	}
	for {
		ok1, _ := p.atDelim("+")
		ok2, _ := p.atDelim("-")
		if !ok1 && !ok2 {
			return left, nil
		}
		op := byte('+')
		if ok2 {
			op = '-'
		}
		p.lex.advance()
		right, err := p.parseMulExpr()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMulExpr() (Expression, error) {
	left, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		ok1, _ := p.atDelim("*")
		ok2, _ := p.atDelim("/")
		if !ok1 && !ok2 {
			return left, nil
		}
		op := byte('*')
		if ok2 {
			op = '/'
		}
		p.lex.advance()
		right, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parsePrimaryExpr() (Expression, error) {
	tok, err := p.lex.current()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokIntLit:
		p.lex.advance()
		return LiteralExpr{Value: record.IntConstant(tok.ival)}, nil
	case tok.kind == tokStringLit:
		p.lex.advance()
		return LiteralExpr{Value: record.StringConstant(tok.text)}, nil
	case tok.kind == tokKeyword && tok.text == "null":
		p.lex.advance()
		return LiteralExpr{Value: record.NullConstant()}, nil
	case tok.kind == tokIdent:
		p.lex.advance()
		return FieldExpr{Field: tok.text}, nil
	case tok.kind == tokDelim && tok.text == "(":
		p.lex.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectDelim(")"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, common.NewParseError(tok.pos, "expected an expression, got %q", tok.text)
	}
}

// --- predicates ---

func (p *Parser) parseTerm() (Term, error) {
	lhs, err := p.parseExpression()
	if err != nil {
		return Term{}, err
	}
	if ok, _ := p.atKeyword("is"); ok {
		p.lex.advance()
		if err := p.expectKeyword("null"); err != nil {
			return Term{}, err
		}
		return Term{Lhs: lhs, IsNull: true}, nil
	}
	if err := p.expectDelim("="); err != nil {
		return Term{}, err
	}
	rhs, err := p.parseExpression()
	if err != nil {
		return Term{}, err
	}
	return Term{Lhs: lhs, Rhs: rhs}, nil
}

func (p *Parser) parsePredicate() (*Predicate, error) {
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	pred := &Predicate{Terms: []Term{term}}
	for {
		ok, err := p.atKeyword("and")
		if err != nil {
			return nil, err
		}
		if !ok {
			return pred, nil
		}
		p.lex.advance()
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		pred.Terms = append(pred.Terms, term)
	}
}

// optionalWhere consumes a WHERE clause if present, returning nil otherwise.
func (p *Parser) optionalWhere() (*Predicate, error) {
	ok, err := p.atKeyword("where")
	if err != nil || !ok {
		return nil, err
	}
	p.lex.advance()
	return p.parsePredicate()
}

// --- SELECT ---

func (p *Parser) parseQuery() (*QueryData, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}
	qd := &QueryData{}

	if ok, _ := p.atDelim("*"); ok {
		p.lex.advance()
		qd.Star = true
	} else {
		items, err := p.parseSelectList()
		if err != nil {
			return nil, err
		}
		qd.Items = items
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	tables, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	qd.Tables = tables

	pred, err := p.optionalWhere()
	if err != nil {
		return nil, err
	}
	qd.Pred = pred

	if ok, _ := p.atKeyword("group"); ok {
		p.lex.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		fields, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		qd.GroupFields = fields
	}

	if ok, _ := p.atKeyword("order"); ok {
		p.lex.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		fields, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		qd.OrderFields = fields
	}

	return qd, nil
}

func (p *Parser) parseSelectList() ([]SelectItem, error) {
	var items []SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if ok, _ := p.atDelim(","); ok {
			p.lex.advance()
			continue
		}
		return items, nil
	}
}

var aggKeywords = map[string]AggFunc{
	"max": AggMax, "min": AggMin, "sum": AggSum, "count": AggCount, "avg": AggAvg,
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	tok, err := p.lex.current()
	if err != nil {
		return SelectItem{}, err
	}
	var item SelectItem
	if fn, ok := aggKeywords[tok.text]; ok && tok.kind == tokKeyword {
		p.lex.advance()
		if err := p.expectDelim("("); err != nil {
			return SelectItem{}, err
		}
		field, err := p.expectIdent()
		if err != nil {
			return SelectItem{}, err
		}
		if err := p.expectDelim(")"); err != nil {
			return SelectItem{}, err
		}
		item.Agg = &Aggregate{Func: fn, Field: field}
	} else {
		expr, err := p.parseExpression()
		if err != nil {
			return SelectItem{}, err
		}
		item.Expr = expr
	}
	if ok, _ := p.atKeyword("as"); ok {
		p.lex.advance()
		alias, err := p.expectIdent()
		if err != nil {
			return SelectItem{}, err
		}
		item.Alias = alias
	}
	return item, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if ok, _ := p.atDelim(","); ok {
			p.lex.advance()
			continue
		}
		return names, nil
	}
}

// --- INSERT ---

func (p *Parser) parseInsert() (*InsertData, error) {
	if err := p.expectKeyword("insert"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("into"); err != nil {
		return nil, err
	}
	tblname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim("("); err != nil {
		return nil, err
	}
	fields, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim(")"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("values"); err != nil {
		return nil, err
	}
	if err := p.expectDelim("("); err != nil {
		return nil, err
	}
	values, err := p.parseConstantList()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim(")"); err != nil {
		return nil, err
	}
	if len(fields) != len(values) {
		tok, _ := p.lex.current()
		return nil, common.NewParseError(tok.pos, "insert has %d fields but %d values", len(fields), len(values))
	}
	return &InsertData{TableName: tblname, Fields: fields, Values: values}, nil
}

func (p *Parser) parseConstantList() ([]record.Constant, error) {
	var vals []record.Constant
	for {
		v, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		if ok, _ := p.atDelim(","); ok {
			p.lex.advance()
			continue
		}
		return vals, nil
	}
}

func (p *Parser) parseConstant() (record.Constant, error) {
	tok, err := p.lex.current()
	if err != nil {
		return record.Constant{}, err
	}
	switch {
	case tok.kind == tokStringLit:
		p.lex.advance()
		return record.StringConstant(tok.text), nil
	case tok.kind == tokIntLit:
		p.lex.advance()
		return record.IntConstant(tok.ival), nil
	case tok.kind == tokKeyword && tok.text == "null":
		p.lex.advance()
		return record.NullConstant(), nil
	default:
		return record.Constant{}, common.NewParseError(tok.pos, "expected a constant, got %q", tok.text)
	}
}

// --- DELETE ---

func (p *Parser) parseDelete() (*DeleteData, error) {
	if err := p.expectKeyword("delete"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	tblname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	pred, err := p.optionalWhere()
	if err != nil {
		return nil, err
	}
	return &DeleteData{TableName: tblname, Pred: pred}, nil
}

// --- MODIFY ---

func (p *Parser) parseModify() (*ModifyData, error) {
	if err := p.expectKeyword("modify"); err != nil {
		return nil, err
	}
	tblname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("set"); err != nil {
		return nil, err
	}
	field, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim("="); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	pred, err := p.optionalWhere()
	if err != nil {
		return nil, err
	}
	return &ModifyData{TableName: tblname, Field: field, Expr: expr, Pred: pred}, nil
}

// --- CREATE ... ---

func (p *Parser) parseCreate() (Statement, error) {
	if err := p.expectKeyword("create"); err != nil {
		return nil, err
	}
	tok, err := p.lex.current()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokKeyword && tok.text == "table":
		return p.parseCreateTable()
	case tok.kind == tokKeyword && tok.text == "view":
		return p.parseCreateView()
	case tok.kind == tokKeyword && tok.text == "index":
		return p.parseCreateIndex()
	default:
		return nil, common.NewParseError(tok.pos, "expected TABLE, VIEW or INDEX, got %q", tok.text)
	}
}

func (p *Parser) parseCreateTable() (*CreateTableData, error) {
	if err := p.expectKeyword("table"); err != nil {
		return nil, err
	}
	tblname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim("("); err != nil {
		return nil, err
	}
	schema := record.NewSchema()
	for {
		if err := p.parseFieldDef(schema); err != nil {
			return nil, err
		}
		if ok, _ := p.atDelim(","); ok {
			p.lex.advance()
			continue
		}
		break
	}
	if err := p.expectDelim(")"); err != nil {
		return nil, err
	}
	return &CreateTableData{TableName: tblname, Schema: schema}, nil
}

func (p *Parser) parseFieldDef(schema *record.Schema) error {
	fldname, err := p.expectIdent()
	if err != nil {
		return err
	}
	tok, err := p.lex.current()
	if err != nil {
		return err
	}
	switch {
	case tok.kind == tokKeyword && (tok.text == "i32" || tok.text == "int"):
		p.lex.advance()
		schema.AddI32Field(fldname)
		return nil
	case tok.kind == tokKeyword && tok.text == "varchar":
		p.lex.advance()
		if err := p.expectDelim("("); err != nil {
			return err
		}
		length, err := p.expectIntLit()
		if err != nil {
			return err
		}
		if err := p.expectDelim(")"); err != nil {
			return err
		}
		schema.AddStringField(fldname, int(length))
		return nil
	default:
		return common.NewParseError(tok.pos, "expected a type for field %q, got %q", fldname, tok.text)
	}
}

func (p *Parser) parseCreateView() (*CreateViewData, error) {
	if err := p.expectKeyword("view"); err != nil {
		return nil, err
	}
	viewname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	start := p.lex.pos
	if p.lex.peek {
		start = p.lex.tok.pos
	}
	qd, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	defText := p.lex.src[start:]
	return &CreateViewData{ViewName: viewname, Def: qd, DefText: defText}, nil
}

func (p *Parser) parseCreateIndex() (*CreateIndexData, error) {
	if err := p.expectKeyword("index"); err != nil {
		return nil, err
	}
	idxname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("on"); err != nil {
		return nil, err
	}
	tblname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim("("); err != nil {
		return nil, err
	}
	fldname, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelim(")"); err != nil {
		return nil, err
	}
	kind := IndexKindHash
	if ok, _ := p.atKeyword("using"); ok {
		p.lex.advance()
		tok, err := p.lex.current()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.kind == tokKeyword && tok.text == "hash":
			kind = IndexKindHash
		case tok.kind == tokKeyword && tok.text == "btree":
			kind = IndexKindBTree
		default:
			return nil, common.NewParseError(tok.pos, "expected HASH or BTREE, got %q", tok.text)
		}
		p.lex.advance()
	}
	return &CreateIndexData{IndexName: idxname, TableName: tblname, FieldName: fldname, Kind: kind}, nil
}
