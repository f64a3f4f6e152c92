/*
File   : gday-mate/internal/parser/parser.go
Package parser turns a token stream into a statement list by recursive
descent. It requires the program-start sentinel up front, accumulates one
diagnostic per malformed declaration and resynchronises at the next
likely declaration boundary, and exposes Reset so a REPL can keep reusing
the same Parser across lines.
*/
package parser

import (
	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/diag"
	"github.com/zackradisic/gday-mate/internal/token"
)

// parseError unwinds a single declaration's recursive-descent call stack
// back to declaration()'s recover, where the parser resynchronises and
// moves on to the next one. It carries no payload: the diagnostic is
// already in errs by the time it's thrown.
type parseError struct{}

// Parser consumes a fixed token slice and produces a statement list.
// Two counters, insideBlock and insideIf, track whether '<'/'>' are
// currently plausible as block delimiters so that a failed expression
// parse inside one can report a friendlier diagnostic than "expected an
// expression".
type Parser struct {
	toks        []token.Token
	pos         int
	errs        diag.Bag
	insideBlock int
	insideIf    int
	started     bool // g'day mate! already consumed; survives Reset for REPL reuse
}

// New builds a Parser over a token slice, typically the output of
// lexer.Lex.
func New(toks []token.Token) *Parser {
	p := &Parser{}
	p.Reset(toks)
	return p
}

// Reset rebinds the parser to a new token slice and clears all per-parse
// state except the consumed-start flag, so a REPL can keep reusing one
// Parser across input lines after the first line's greeting.
func (p *Parser) Reset(toks []token.Token) {
	p.toks = toks
	p.pos = 0
	p.errs = diag.Bag{}
	p.insideBlock = 0
	p.insideIf = 0
}

// Errors returns every diagnostic recorded during the most recent Parse.
func (p *Parser) Errors() []*diag.Error { return p.errs.Errors() }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) atEOF() bool { return p.check(token.EOF) }

// fail records a diagnostic at the given line and throws a parseError to
// unwind to the nearest declaration() recover.
func (p *Parser) fail(line int, format string, args ...interface{}) {
	p.errs.Add(line, format, args...)
	panic(parseError{})
}

// expect consumes the current token if it matches k, otherwise fails
// with a diagnostic naming what was wanted.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.fail(p.cur().Line, "expected %s, got %s", what, p.cur().Kind)
	panic(parseError{}) // unreachable: fail already panicked
}

// synchronize recovers from a malformed declaration by discarding tokens
// until a statement terminator or a token that plausibly starts the next
// declaration.
func (p *Parser) synchronize() {
	for !p.atEOF() {
		if p.cur().Kind == token.SEMI {
			p.advance()
			return
		}
		switch p.cur().Kind {
		case token.I_RECKON, token.THE_HARD_YAKKA_FOR, token.YA_RECKON, token.GIMME,
			token.BAIL, token.MATE_FUCK_THIS, token.IMPOHT_ME_FUNC, token.FUCKINPIKER,
			token.CHEERS, token.LT, token.GT:
			return
		}
		p.advance()
	}
}

// Parse scans forward for the program-start sentinel, then parses
// declarations until EOF or a `cheers c***!` farewell. It reports
// whether any diagnostic was recorded.
func (p *Parser) Parse() ([]ast.Stmt, bool) {
	if !p.started {
		for !p.atEOF() {
			if p.check(token.GDAY) {
				p.advance()
				p.started = true
				break
			}
			p.advance()
		}
		if !p.started {
			p.errs.Add(p.cur().Line, "program must begin with g'day mate!")
			return nil, true
		}
	}

	var stmts []ast.Stmt
	for !p.atEOF() && !p.check(token.CHEERS) {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if p.check(token.CHEERS) {
		line := p.cur().Line
		p.advance()
		stmts = append(stmts, &ast.ExitStmt{Hard: false, Ln: line})
	}
	return stmts, p.errs.HasErrors()
}

// declaration parses one declaration, recovering to the next likely
// declaration boundary on a parse error rather than aborting the whole
// parse.
func (p *Parser) declaration() (result ast.Stmt) {
	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				// a token the failed declaration started on and synchronize
				// stopped on (a stray '>' or 'cheers c***!') is dropped so
				// the caller's loop always makes progress
				if p.pos == start {
					p.advance()
				}
				result = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.check(token.I_RECKON):
		return p.parseVarOrLoop()
	case p.check(token.THE_HARD_YAKKA_FOR):
		return p.parseFnDecl()
	default:
		return p.parseStatement()
	}
}

// parseVarOrLoop handles every form introduced by `i reckon`: a plain
// variable declaration (initialised or not) or a for/while loop, named
// or anonymous.
func (p *Parser) parseVarOrLoop() ast.Stmt {
	line := p.cur().Line
	p.expect(token.I_RECKON, "'i reckon'")

	if p.check(token.ILL_HAVE_A) {
		p.advance()
		p.expect(token.WALKABOUT, "'walkabout'")
		return p.parseLoopRest("", line)
	}

	name := p.expect(token.IDENT, "a variable name")
	switch {
	case p.check(token.IS_A):
		p.advance()
		p.expect(token.WALKABOUT, "'walkabout'")
		return p.parseLoopRest(name.Literal, line)
	case p.check(token.ASSIGN):
		p.advance()
		init := p.parseExpr()
		p.expect(token.SEMI, "';'")
		return &ast.VarDeclStmt{Name: name.Literal, Init: init, Ln: line}
	case p.check(token.SEMI):
		p.advance()
		return &ast.VarDeclStmt{Name: name.Literal, Ln: line}
	}
	p.fail(p.cur().Line, "expected '=', ';', or 'is a' after a variable name, got %s", p.cur().Kind)
	return nil
}

// parseLoopRest parses the 'from'/'until' tail shared by both the named
// (`is a walkabout`) and anonymous (`i'll have a walkabout`) introducer
// forms. varName is bound as the loop variable for a for-range and is
// empty for the anonymous form, which only the variable-free until-loop
// accepts; an until-loop carries no variable binding either way.
func (p *Parser) parseLoopRest(varName string, line int) ast.Stmt {
	switch {
	case p.check(token.FROM):
		if varName == "" {
			p.fail(p.cur().Line, "a 'from' range needs a loop variable; use 'i reckon <name> is a walkabout from ...'")
		}
		p.advance()
		startIncl := p.parseRangeOpen()
		startExpr := p.parseExpr()
		p.expect(token.TO, "'to'")
		endExpr := p.parseExpr()
		endIncl := p.parseRangeClose()
		body := p.parseStatement()
		return &ast.ForStmt{
			Var:   varName,
			Start: ast.RangeBound{X: startExpr, Inclusive: startIncl},
			End:   ast.RangeBound{X: endExpr, Inclusive: endIncl},
			Body:  body,
			Ln:    line,
		}
	case p.check(token.UNTIL):
		p.advance()
		p.expect(token.LPAREN, "'('")
		cond := p.parseExpr()
		p.expect(token.RPAREN, "')'")
		body := p.parseStatement()
		return &ast.WhileStmt{Cond: cond, Body: body, Ln: line}
	}
	p.fail(p.cur().Line, "expected 'from' or 'until' after 'walkabout', got %s", p.cur().Kind)
	return nil
}

// parseRangeOpen consumes a range's opening bracket/paren and reports
// whether that end is inclusive ('[') or exclusive ('(').
func (p *Parser) parseRangeOpen() bool {
	if p.check(token.LBRACK) {
		p.advance()
		return true
	}
	if p.check(token.LPAREN) {
		p.advance()
		return false
	}
	p.fail(p.cur().Line, "expected '[' or '(' to open a range, got %s", p.cur().Kind)
	return false
}

func (p *Parser) parseRangeClose() bool {
	if p.check(token.RBRACK) {
		p.advance()
		return true
	}
	if p.check(token.RPAREN) {
		p.advance()
		return false
	}
	p.fail(p.cur().Line, "expected ']' or ')' to close a range, got %s", p.cur().Kind)
	return false
}

func (p *Parser) parseFnDecl() ast.Stmt {
	line := p.cur().Line
	p.expect(token.THE_HARD_YAKKA_FOR, "'the hard yakka for'")
	name := p.expect(token.IDENT, "a function name")
	p.expect(token.IS, "'is'")
	p.expect(token.LPAREN, "'('")

	var params []string
	if !p.check(token.RPAREN) {
		for {
			param := p.expect(token.IDENT, "a parameter name")
			params = append(params, param.Literal)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "')'")
	body := p.parseBlock()
	return &ast.FnDeclStmt{Name: name.Literal, Params: params, Body: body, Ln: line}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	line := p.cur().Line
	p.expect(token.LT, "'<'")
	p.insideBlock++
	var stmts []ast.Stmt
	for !p.check(token.GT) && !p.atEOF() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.insideBlock--
	p.expect(token.GT, "'>'")
	return &ast.BlockStmt{Stmts: stmts, Ln: line}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.check(token.LT):
		return p.parseBlock()
	case p.check(token.YA_RECKON):
		return p.parseYaReckon()
	case p.check(token.GIMME):
		return p.parsePrint()
	case p.check(token.BAIL):
		return p.parseReturn()
	case p.check(token.MATE_FUCK_THIS):
		return p.parseBreak()
	case p.check(token.FUCKINPIKER):
		return p.parseHardExit()
	case p.check(token.IMPOHT_ME_FUNC):
		return p.parseImport()
	case p.check(token.WHATABOUT):
		p.fail(p.cur().Line, "'whatabout' without a preceding 'ya reckon'")
		return nil
	}
	return p.parseExprStmt()
}

// parseYaReckon parses the shared `ya reckon <expr>` prefix and then
// branches on what follows: '?' starts an if, 'is a' starts a match.
func (p *Parser) parseYaReckon() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'ya reckon'
	p.insideIf++
	scrutinee := p.parseExpr()

	if p.check(token.IS_A) {
		p.advance()
		p.insideIf--
		return p.finishMatch(scrutinee, line)
	}

	p.expect(token.QUESTION, "'?'")
	then := p.parseStatement()
	var elseStmt ast.Stmt
	if p.check(token.WHATABOUT) {
		elseStmt = p.parseWhatabout()
	}
	p.insideIf--
	return &ast.IfStmt{Cond: scrutinee, Then: then, Else: elseStmt, Ln: line}
}

// parseWhatabout parses one link of an else-chain. A bare `whatabout ?`
// is the trailing, unconditional else; `whatabout cond ?` chains as an
// else-if by nesting another IfStmt.
func (p *Parser) parseWhatabout() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'whatabout'
	if p.check(token.QUESTION) {
		p.advance()
		return p.parseStatement()
	}
	cond := p.parseExpr()
	p.expect(token.QUESTION, "'?'")
	then := p.parseStatement()
	var elseStmt ast.Stmt
	if p.check(token.WHATABOUT) {
		elseStmt = p.parseWhatabout()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Ln: line}
}

// finishMatch parses the `is a < matchArm* >` tail once the scrutinee has
// already been parsed by parseYaReckon.
func (p *Parser) finishMatch(value ast.Expr, line int) ast.Stmt {
	p.expect(token.LT, "'<'")
	p.insideBlock++
	var arms []ast.MatchArm
	var def *ast.MatchArm
	for !p.check(token.GT) && !p.atEOF() {
		pat := p.parsePattern()
		p.expect(token.TILDE, "'~'")
		body := p.parseStatement()
		arm := ast.MatchArm{Pattern: pat, Body: body}
		if _, isDefault := pat.(ast.VarPattern); isDefault {
			if def != nil {
				p.fail(line, "match may have at most one default arm")
			}
			def = &arm
		} else {
			arms = append(arms, arm)
		}
	}
	p.insideBlock--
	p.expect(token.GT, "'>'")
	return &ast.MatchStmt{Value: value, Arms: arms, Default: def, Ln: line}
}

func (p *Parser) parsePattern() ast.Pattern {
	t := p.cur()
	switch t.Kind {
	case token.NUMBER:
		p.advance()
		return ast.NumberPattern{Value: t.Number}
	case token.STRING:
		p.advance()
		return ast.StringPattern{Value: t.Literal}
	case token.TRUE:
		p.advance()
		return ast.BoolPattern{Value: true}
	case token.FALSE:
		p.advance()
		return ast.BoolPattern{Value: false}
	case token.BUGGER_ALL:
		p.advance()
		return ast.NilPattern{}
	case token.IDENT:
		p.advance()
		return ast.VarPattern{Name: t.Literal}
	}
	p.fail(t.Line, "expected a match pattern, got %s", t.Kind)
	return nil
}

func (p *Parser) parsePrint() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'gimme'
	x := p.parseExpr()
	p.expect(token.SEMI, "';'")
	return &ast.PrintStmt{X: x, Ln: line}
}

func (p *Parser) parseReturn() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'bail'
	var x ast.Expr
	if !p.check(token.SEMI) {
		x = p.parseExpr()
	}
	p.expect(token.SEMI, "';'")
	return &ast.ReturnStmt{X: x, Ln: line}
}

func (p *Parser) parseBreak() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'mate fuck this'
	p.expect(token.SEMI, "';'")
	return &ast.BreakStmt{Ln: line}
}

func (p *Parser) parseHardExit() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'fuckinpiker'
	p.expect(token.SEMI, "';'")
	return &ast.ExitStmt{Hard: true, Ln: line}
}

func (p *Parser) parseImport() ast.Stmt {
	line := p.cur().Line
	p.advance() // 'impoht me func'
	name := p.expect(token.IDENT, "an imported name")
	p.expect(token.SEMI, "';'")
	return &ast.ImportStmt{Name: name.Literal, Ln: line}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	line := p.cur().Line
	x := p.parseExpr()
	p.expect(token.SEMI, "';'")
	return &ast.ExprStmt{X: x, Ln: line}
}

// ---- Expressions, low to high precedence ----

func (p *Parser) parseExpr() ast.Expr { return p.parseAssignment() }

func (p *Parser) parseAssignment() ast.Expr {
	expr := p.parseOr()
	if p.check(token.ASSIGN) {
		line := p.cur().Line
		p.advance()
		value := p.parseAssignment()
		if ve, ok := expr.(*ast.VarExpr); ok {
			return &ast.AssignExpr{V: ve.V, X: value, Ln: line}
		}
		p.fail(line, "invalid assignment target")
	}
	return expr
}

func (p *Parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for p.check(token.OR) {
		line := p.cur().Line
		p.advance()
		right := p.parseAnd()
		expr = &ast.LogicalExpr{L: expr, R: right, Op: "||", Ln: line}
	}
	return expr
}

func (p *Parser) parseAnd() ast.Expr {
	expr := p.parseEquality()
	for p.check(token.AND) {
		line := p.cur().Line
		p.advance()
		right := p.parseEquality()
		expr = &ast.LogicalExpr{L: expr, R: right, Op: "&&", Ln: line}
	}
	return expr
}

func (p *Parser) parseEquality() ast.Expr {
	expr := p.parseComparison()
	for p.check(token.EQ) || p.check(token.NEQ) {
		op := p.advance()
		right := p.parseComparison()
		expr = &ast.BinaryExpr{L: expr, R: right, Op: op.Kind.String(), Ln: op.Line}
	}
	return expr
}

// parseComparison is where the '<'/'>' overload matters most: these
// glyphs double as block delimiters, so a malformed right operand here
// is reported with the insideBlock/insideIf-aware message from
// parsePrimary rather than a bare "expected an expression".
func (p *Parser) parseComparison() ast.Expr {
	expr := p.parseTerm()
	for p.check(token.LT) || p.check(token.GT) || p.check(token.LE) || p.check(token.GE) {
		op := p.advance()
		right := p.parseTerm()
		expr = &ast.BinaryExpr{L: expr, R: right, Op: op.Kind.String(), Ln: op.Line}
	}
	return expr
}

func (p *Parser) parseTerm() ast.Expr {
	expr := p.parseFactor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right := p.parseFactor()
		expr = &ast.BinaryExpr{L: expr, R: right, Op: op.Kind.String(), Ln: op.Line}
	}
	return expr
}

func (p *Parser) parseFactor() ast.Expr {
	expr := p.parseUnary()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right := p.parseUnary()
		expr = &ast.BinaryExpr{L: expr, R: right, Op: op.Kind.String(), Ln: op.Line}
	}
	return expr
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.BANG) || p.check(token.MINUS) {
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Kind.String(), X: x, Ln: op.Line}
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for p.check(token.LPAREN) {
		line := p.cur().Line
		p.advance()
		var args []ast.Expr
		if !p.check(token.RPAREN) {
			for {
				if len(args) >= ast.MaxCallArgs {
					p.fail(p.cur().Line, "too many arguments (max %d)", ast.MaxCallArgs)
				}
				args = append(args, p.parseExpr())
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		p.expect(token.RPAREN, "')'")
		expr = &ast.CallExpr{Callee: expr, Args: args, Ln: line}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.NUMBER:
		p.advance()
		return &ast.LiteralExpr{Value: t.Number, Ln: t.Line}
	case token.STRING:
		p.advance()
		return &ast.LiteralExpr{Value: t.Literal, Ln: t.Line}
	case token.TRUE:
		p.advance()
		return &ast.LiteralExpr{Value: true, Ln: t.Line}
	case token.FALSE:
		p.advance()
		return &ast.LiteralExpr{Value: false, Ln: t.Line}
	case token.BUGGER_ALL:
		p.advance()
		return &ast.LiteralExpr{Value: nil, Ln: t.Line}
	case token.IDENT:
		p.advance()
		return &ast.VarExpr{V: ast.NewVariable(t.Literal), Ln: t.Line}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN, "')'")
		return &ast.GroupingExpr{X: inner, Ln: t.Line}
	}

	if p.insideBlock > 0 || p.insideIf > 0 {
		p.fail(t.Line, "unexpected %s; you likely forgot a semicolon or a block close", t.Kind)
	}
	p.fail(t.Line, "expected an expression, got %s", t.Kind)
	return nil
}
