package mython

// Parser is a recursive-descent parser consuming a *Lexer's token stream.
// It keeps a registry of classes seen so far because a subclass's parent
// must already have been defined earlier in the source — the same
// top-to-bottom requirement the reference implementation relies on.
type Parser struct {
	lex           *Lexer
	classRegistry map[string]*Class
}

// NewParser tokenizes source and prepares a parser over it.
func NewParser(source string) (*Parser, error) {
	return NewParserWithClasses(source, nil)
}

// NewParserWithClasses is like NewParser but seeds the class registry with
// classes already known from a prior compilation unit — used by the REPL,
// where each line is parsed independently but a class defined on an
// earlier line must still be a valid parent or constructor target later.
func NewParserWithClasses(source string, known map[string]*Class) (*Parser, error) {
	lex, err := NewLexer(source)
	if err != nil {
		return nil, err
	}
	registry := map[string]*Class{}
	for name, class := range known {
		registry[name] = class
	}
	return &Parser{lex: lex, classRegistry: registry}, nil
}

// ClassesInClosure extracts every binding in c whose value is a *Class,
// for seeding a later NewParserWithClasses call.
func ClassesInClosure(c Closure) map[string]*Class {
	classes := map[string]*Class{}
	for name, holder := range c {
		if class, ok := holder.Get().(*Class); ok {
			classes[name] = class
		}
	}
	return classes
}

// ParseProgram parses the whole token stream into a single Compound.
func (p *Parser) ParseProgram() (Node, error) {
	var stmts []Node
	for p.lex.Current().Type != TokenEof {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &Compound{Statements: stmts}, nil
}

func expectChar(l *Lexer, tok Token, ch byte) error {
	if tok.Type != TokenChar || tok.CharVal != ch {
		return &LexerError{Message: "expected '" + string(ch) + "'", Pos: tok.Pos}
	}
	return nil
}

func isChar(tok Token, ch byte) bool {
	return tok.Type == TokenChar && tok.CharVal == ch
}

// parseBlock parses Indent statement* Dedent; Current() must already be
// Indent on entry.
func (p *Parser) parseBlock() (Node, error) {
	l := p.lex
	if err := l.Expect(TokenIndent); err != nil {
		return nil, err
	}
	l.Next()
	var stmts []Node
	for l.Current().Type != TokenDedent {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	l.Next()
	return &Compound{Statements: stmts}, nil
}

func (p *Parser) parseStatement() (Node, error) {
	l := p.lex
	switch l.Current().Type {
	case TokenClass:
		return p.parseClassDef()
	case TokenDef:
		return nil, &LexerError{Message: "methods may only be defined inside a class", Pos: l.Current().Pos}
	case TokenIf:
		return p.parseIfStmt()
	case TokenPrint:
		return p.parsePrintStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenId:
		return p.parseAssignmentOrExprStatement()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := l.Expect(TokenNewline); err != nil {
			return nil, err
		}
		l.Next()
		return expr, nil
	}
}

func (p *Parser) parseAssignmentOrExprStatement() (Node, error) {
	l := p.lex
	mark := l.Mark()
	path, pos, err := p.parseDottedPath()
	if err != nil {
		return nil, err
	}
	eqTok := l.Next()
	if isChar(eqTok, '=') {
		l.Next()
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := l.Expect(TokenNewline); err != nil {
			return nil, err
		}
		l.Next()
		if len(path) == 1 {
			return &Assignment{Var: path[0], Rhs: rhs}, nil
		}
		return &FieldAssignment{ObjectPath: path[:len(path)-1], Field: path[len(path)-1], Rhs: rhs, Pos: pos}, nil
	}

	l.Reset(mark)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := l.Expect(TokenNewline); err != nil {
		return nil, err
	}
	l.Next()
	return expr, nil
}

// parseDottedPath consumes Id ('.' Id)*, leaving Current() on the last Id
// consumed (not yet advanced past it).
func (p *Parser) parseDottedPath() ([]string, Position, error) {
	l := p.lex
	pos := l.Current().Pos
	if err := l.Expect(TokenId); err != nil {
		return nil, pos, err
	}
	path := []string{l.Current().StrVal}
	for {
		mark := l.Mark()
		dot := l.Next()
		if !isChar(dot, '.') {
			l.Reset(mark)
			break
		}
		idTok := l.Next()
		if idTok.Type != TokenId {
			l.Reset(mark)
			break
		}
		path = append(path, idTok.StrVal)
	}
	return path, pos, nil
}

func (p *Parser) parseClassDef() (Node, error) {
	l := p.lex
	if err := l.ExpectNext(TokenId); err != nil {
		return nil, err
	}
	name := l.Current().StrVal
	tok := l.Next()

	var parentName string
	if isChar(tok, '(') {
		if err := l.ExpectNext(TokenId); err != nil {
			return nil, err
		}
		parentName = l.Current().StrVal
		if err := l.ExpectNextChar(')'); err != nil {
			return nil, err
		}
		tok = l.Next()
	}
	if err := expectChar(l, tok, ':'); err != nil {
		return nil, err
	}
	if err := l.ExpectNext(TokenNewline); err != nil {
		return nil, err
	}
	l.Next()
	if err := l.Expect(TokenIndent); err != nil {
		return nil, err
	}
	l.Next()

	var parent *Class
	if parentName != "" {
		parent = p.classRegistry[parentName]
		if parent == nil {
			return nil, &LexerError{Message: "unknown parent class " + parentName, Pos: tok.Pos}
		}
	}

	var methods []Method
	for l.Current().Type != TokenDedent {
		method, err := p.parseMethodDef()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	l.Next()

	class := NewClass(name, methods, parent)
	p.classRegistry[name] = class
	return &ClassDefinition{ClassValue: class}, nil
}

func (p *Parser) parseMethodDef() (Method, error) {
	l := p.lex
	defPos := l.Current().Pos
	if err := l.Expect(TokenDef); err != nil {
		return Method{}, err
	}
	if err := l.ExpectNext(TokenId); err != nil {
		return Method{}, err
	}
	name := l.Current().StrVal
	if err := l.ExpectNextChar('('); err != nil {
		return Method{}, err
	}
	tok := l.Next()

	if err := l.Expect(TokenId); err != nil {
		return Method{}, err
	}
	if l.Current().StrVal != "self" {
		return Method{}, &LexerError{Message: "method's first parameter must be self", Pos: l.Current().Pos}
	}
	tok = l.Next()

	var params []string
	if isChar(tok, ',') {
		tok = l.Next()
		for {
			if err := l.Expect(TokenId); err != nil {
				return Method{}, err
			}
			params = append(params, l.Current().StrVal)
			tok = l.Next()
			if isChar(tok, ',') {
				tok = l.Next()
				continue
			}
			break
		}
	}
	if err := expectChar(l, tok, ')'); err != nil {
		return Method{}, err
	}
	tok = l.Next()
	if err := expectChar(l, tok, ':'); err != nil {
		return Method{}, err
	}
	if err := l.ExpectNext(TokenNewline); err != nil {
		return Method{}, err
	}
	l.Next()
	if err := l.Expect(TokenIndent); err != nil {
		return Method{}, err
	}
	l.Next()

	var stmts []Node
	for l.Current().Type != TokenDedent {
		stmt, err := p.parseStatement()
		if err != nil {
			return Method{}, err
		}
		stmts = append(stmts, stmt)
	}
	l.Next()

	body := &MethodBody{Body: &Compound{Statements: stmts}}
	return Method{Name: name, FormalParams: params, Body: body, Pos: defPos}, nil
}

func (p *Parser) parseIfStmt() (Node, error) {
	l := p.lex
	l.Next()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := expectChar(l, l.Current(), ':'); err != nil {
		return nil, err
	}
	if err := l.ExpectNext(TokenNewline); err != nil {
		return nil, err
	}
	l.Next()
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBlock Node
	if l.Current().Type == TokenElse {
		tok := l.Next()
		if err := expectChar(l, tok, ':'); err != nil {
			return nil, err
		}
		if err := l.ExpectNext(TokenNewline); err != nil {
			return nil, err
		}
		l.Next()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &IfElse{Cond: cond, Then: thenBlock, Else: elseBlock}, nil
}

func (p *Parser) parsePrintStmt() (Node, error) {
	l := p.lex
	l.Next()
	var args []Node
	if l.Current().Type != TokenNewline {
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, expr)
			if isChar(l.Current(), ',') {
				l.Next()
				continue
			}
			break
		}
	}
	if err := l.Expect(TokenNewline); err != nil {
		return nil, err
	}
	l.Next()
	return &Print{Args: args}, nil
}

func (p *Parser) parseReturnStmt() (Node, error) {
	l := p.lex
	l.Next()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := l.Expect(TokenNewline); err != nil {
		return nil, err
	}
	l.Next()
	return &Return{Expr: expr}, nil
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.lex.Current().Type == TokenOr {
		p.lex.Next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalOr{Lhs: left, Rhs: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.lex.Current().Type == TokenAnd {
		p.lex.Next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &LogicalAnd{Lhs: left, Rhs: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Node, error) {
	if p.lex.Current().Type == TokenNot {
		p.lex.Next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &LogicalNot{Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	tok := p.lex.Current()
	var cmp comparator
	switch {
	case tok.Type == TokenEq:
		cmp = Equal
	case tok.Type == TokenNotEq:
		cmp = NotEqual
	case tok.Type == TokenLessOrEq:
		cmp = LessOrEqual
	case tok.Type == TokenGreaterOrEq:
		cmp = GreaterOrEqual
	case isChar(tok, '<'):
		cmp = Less
	case isChar(tok, '>'):
		cmp = Greater
	default:
		return left, nil
	}
	pos := tok.Pos
	p.lex.Next()
	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return &Comparison{Cmp: cmp, Lhs: left, Rhs: right, Pos: pos}, nil
}

func (p *Parser) parseAdd() (Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.lex.Current()
		if isChar(tok, '+') {
			p.lex.Next()
			right, err := p.parseMul()
			if err != nil {
				return nil, err
			}
			left = Add(left, right, tok.Pos)
			continue
		}
		if isChar(tok, '-') {
			p.lex.Next()
			right, err := p.parseMul()
			if err != nil {
				return nil, err
			}
			left = Sub(left, right, tok.Pos)
			continue
		}
		break
	}
	return left, nil
}

func (p *Parser) parseMul() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.lex.Current()
		if isChar(tok, '*') {
			p.lex.Next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Mult(left, right, tok.Pos)
			continue
		}
		if isChar(tok, '/') {
			p.lex.Next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Div(left, right, tok.Pos)
			continue
		}
		break
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	tok := p.lex.Current()
	if isChar(tok, '-') {
		p.lex.Next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Sub(&NumberConst{Value: 0}, operand, tok.Pos), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	l := p.lex
	for {
		tok := l.Current()
		if isChar(tok, '.') {
			idTok := l.Next()
			if idTok.Type != TokenId {
				return nil, &LexerError{Message: "expected identifier after '.'", Pos: idTok.Pos}
			}
			name := idTok.StrVal
			next := l.Next()
			if isChar(next, '(') {
				l.Next()
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				if err := l.ExpectChar(')'); err != nil {
					return nil, err
				}
				l.Next()
				node = &MethodCall{Receiver: node, Method: name, Args: args, Pos: tok.Pos}
				continue
			}
			if vv, ok := node.(*VariableValue); ok {
				vv.Path = append(vv.Path, name)
				continue
			}
			node = &FieldAccess{Receiver: node, Field: name, Pos: tok.Pos}
			continue
		}
		if isChar(tok, '(') {
			vv, ok := node.(*VariableValue)
			if !ok || len(vv.Path) != 1 {
				return nil, &LexerError{Message: "call of a non-class expression", Pos: tok.Pos}
			}
			l.Next()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if err := l.ExpectChar(')'); err != nil {
				return nil, err
			}
			l.Next()
			node = &NewInstance{ClassName: vv.Path[0], Args: args, Pos: vv.Pos}
			continue
		}
		break
	}
	return node, nil
}

func (p *Parser) parseArgList() ([]Node, error) {
	if isChar(p.lex.Current(), ')') {
		return nil, nil
	}
	var args []Node
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		if isChar(p.lex.Current(), ',') {
			p.lex.Next()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	l := p.lex
	tok := l.Current()
	switch tok.Type {
	case TokenNumber:
		l.Next()
		return &NumberConst{Value: tok.NumberVal}, nil
	case TokenString:
		l.Next()
		return &StringConst{Value: tok.StrVal}, nil
	case TokenTrue:
		l.Next()
		return &BoolConst{Value: true}, nil
	case TokenFalse:
		l.Next()
		return &BoolConst{Value: false}, nil
	case TokenNone:
		l.Next()
		return &NoneConst{}, nil
	case TokenId:
		l.Next()
		return &VariableValue{Path: []string{tok.StrVal}, Pos: tok.Pos}, nil
	case TokenChar:
		if tok.CharVal == '(' {
			l.Next()
			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := l.ExpectChar(')'); err != nil {
				return nil, err
			}
			l.Next()
			return inner, nil
		}
	}
	return nil, &LexerError{Message: "unexpected token " + tok.String(), Pos: tok.Pos}
}
