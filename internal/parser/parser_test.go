/*
File   : gday-mate/internal/parser/parser_test.go
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/lexer"
)

func parse(t *testing.T, src string) []ast.Stmt {
	toks, hadLexErr := lexer.NewFromString(src).Lex()
	require.False(t, hadLexErr, "lex error for %q", src)
	p := New(toks)
	stmts, hadErr := p.Parse()
	require.False(t, hadErr, "parse error for %q: %v", src, p.Errors())
	return stmts
}

func parseErr(t *testing.T, src string) []string {
	toks, hadLexErr := lexer.NewFromString(src).Lex()
	require.False(t, hadLexErr, "lex error for %q", src)
	p := New(toks)
	_, hadErr := p.Parse()
	require.True(t, hadErr, "expected a parse error for %q", src)
	msgs := make([]string, 0, len(p.Errors()))
	for _, e := range p.Errors() {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func TestParser_RequiresProgramStart(t *testing.T) {
	msgs := parseErr(t, "gimme 1;")
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "g'day mate!")
}

func TestParser_SkipsLeadingJunkBeforeStart(t *testing.T) {
	stmts := parse(t, "strewth mate g'day mate! gimme 1;")
	require.Len(t, stmts, 1)
	assert.IsType(t, &ast.PrintStmt{}, stmts[0])
}

func TestParser_VarDecls(t *testing.T) {
	tests := []struct {
		src     string
		name    string
		hasInit bool
	}{
		{"g'day mate! i reckon x;", "x", false},
		{"g'day mate! i reckon y = 5;", "y", true},
		{"g'day mate! i reckon s = \"hi\";", "s", true},
	}
	for _, tt := range tests {
		stmts := parse(t, tt.src)
		require.Len(t, stmts, 1, "src %q", tt.src)
		decl, ok := stmts[0].(*ast.VarDeclStmt)
		require.True(t, ok)
		assert.Equal(t, tt.name, decl.Name)
		assert.Equal(t, tt.hasInit, decl.Init != nil)
	}
}

func TestParser_NamedForLoopBounds(t *testing.T) {
	tests := []struct {
		src                string
		startIncl, endIncl bool
	}{
		{"g'day mate! i reckon x is a walkabout from [1 to 5] gimme x;", true, true},
		{"g'day mate! i reckon x is a walkabout from (1 to 5] gimme x;", false, true},
		{"g'day mate! i reckon x is a walkabout from [1 to 5) gimme x;", true, false},
		{"g'day mate! i reckon x is a walkabout from (1 to 5) gimme x;", false, false},
	}
	for _, tt := range tests {
		stmts := parse(t, tt.src)
		require.Len(t, stmts, 1, "src %q", tt.src)
		loop, ok := stmts[0].(*ast.ForStmt)
		require.True(t, ok)
		assert.Equal(t, "x", loop.Var)
		assert.Equal(t, tt.startIncl, loop.Start.Inclusive, "src %q", tt.src)
		assert.Equal(t, tt.endIncl, loop.End.Inclusive, "src %q", tt.src)
	}
}

func TestParser_AnonymousUntilLoop(t *testing.T) {
	stmts := parse(t, "g'day mate! i reckon i'll have a walkabout until (x == 3) gimme x;")
	require.Len(t, stmts, 1)
	loop, ok := stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	assert.NotNil(t, loop.Cond)
	assert.IsType(t, &ast.PrintStmt{}, loop.Body)
}

func TestParser_NamedUntilLoop(t *testing.T) {
	stmts := parse(t, "g'day mate! i reckon x is a walkabout until (x == 3) gimme x;")
	require.Len(t, stmts, 1)
	assert.IsType(t, &ast.WhileStmt{}, stmts[0])
}

// A 'from' range enumerates values for its loop variable, so the
// anonymous variable-free introducer cannot drive one.
func TestParser_AnonymousFromLoopIsError(t *testing.T) {
	msgs := parseErr(t, "g'day mate! i reckon i'll have a walkabout from [1 to 5] gimme 1;")
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "loop variable")
}

func TestParser_FnDecl(t *testing.T) {
	stmts := parse(t, "g'day mate! the hard yakka for add is (a, b) < bail a + b; >")
	require.Len(t, stmts, 1)
	fn, ok := stmts[0].(*ast.FnDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.NotNil(t, ret.X)
}

func TestParser_BareBail(t *testing.T) {
	stmts := parse(t, "g'day mate! the hard yakka for f is () < bail; >")
	fn := stmts[0].(*ast.FnDeclStmt)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.Nil(t, ret.X)
}

func TestParser_IfElseChain(t *testing.T) {
	src := `g'day mate!
ya reckon a ? gimme "a";
whatabout b ? gimme "b";
whatabout ? gimme "c";`
	stmts := parse(t, src)
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, outer.Else)

	// `whatabout cond ?` nests as another if; the trailing bare
	// `whatabout ?` becomes its unconditional else branch.
	inner, ok := outer.Else.(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, inner.Else)
	assert.IsType(t, &ast.PrintStmt{}, inner.Else)
}

func TestParser_WhataboutWithoutIfIsError(t *testing.T) {
	msgs := parseErr(t, "g'day mate! whatabout ? gimme 1;")
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "whatabout")
}

func TestParser_MatchArmsAndDefault(t *testing.T) {
	src := `g'day mate! ya reckon x is a <
  1 ~ gimme "one";
  "two" ~ gimme "two";
  nah, yeah! ~ gimme "true";
  bugger all ~ gimme "nothing";
  other ~ gimme other;
>`
	stmts := parse(t, src)
	require.Len(t, stmts, 1)
	m, ok := stmts[0].(*ast.MatchStmt)
	require.True(t, ok)
	require.Len(t, m.Arms, 4)
	assert.IsType(t, ast.NumberPattern{}, m.Arms[0].Pattern)
	assert.IsType(t, ast.StringPattern{}, m.Arms[1].Pattern)
	assert.IsType(t, ast.BoolPattern{}, m.Arms[2].Pattern)
	assert.IsType(t, ast.NilPattern{}, m.Arms[3].Pattern)
	require.NotNil(t, m.Default)
	assert.Equal(t, ast.VarPattern{Name: "other"}, m.Default.Pattern)
}

func TestParser_MatchSecondDefaultIsError(t *testing.T) {
	src := `g'day mate! ya reckon x is a <
  a ~ gimme a;
  b ~ gimme b;
>`
	msgs := parseErr(t, src)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "default")
}

func TestParser_InvalidAssignmentTarget(t *testing.T) {
	msgs := parseErr(t, "g'day mate! 1 = 2;")
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "assignment target")
}

func TestParser_TooManyCallArgs(t *testing.T) {
	src := "g'day mate! f("
	for i := 0; i < ast.MaxCallArgs; i++ {
		src += "1, "
	}
	src += "1);"
	msgs := parseErr(t, src)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "too many arguments")
}

func TestParser_PrecedenceLadder(t *testing.T) {
	stmts := parse(t, "g'day mate! gimme 1 + 2 * 3;")
	print := stmts[0].(*ast.PrintStmt)
	add, ok := print.X.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.R.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParser_ComparisonInsideExpression(t *testing.T) {
	// '<' in expression position is the comparison operator, not a block
	stmts := parse(t, "g'day mate! gimme 1 < 2;")
	print := stmts[0].(*ast.PrintStmt)
	cmp, ok := print.X.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "<", cmp.Op)
}

func TestParser_BlockAtStatementPosition(t *testing.T) {
	stmts := parse(t, "g'day mate! < gimme 1; gimme 2; >")
	require.Len(t, stmts, 1)
	block, ok := stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	assert.Len(t, block.Stmts, 2)
}

func TestParser_CheersBecomesSoftExit(t *testing.T) {
	stmts := parse(t, "g'day mate! gimme 1; cheers c***!")
	require.Len(t, stmts, 2)
	exitStmt, ok := stmts[1].(*ast.ExitStmt)
	require.True(t, ok)
	assert.False(t, exitStmt.Hard)
}

func TestParser_HardExit(t *testing.T) {
	stmts := parse(t, "g'day mate! fuckinpiker;")
	exitStmt, ok := stmts[0].(*ast.ExitStmt)
	require.True(t, ok)
	assert.True(t, exitStmt.Hard)
}

func TestParser_ResetKeepsConsumedStart(t *testing.T) {
	lex1, _ := lexer.NewFromString("g'day mate! i reckon x = 1;").Lex()
	p := New(lex1)
	_, hadErr := p.Parse()
	require.False(t, hadErr)

	// the second line carries no greeting; the reused parser remembers
	// it already saw one
	lex2, _ := lexer.NewFromString("gimme x;").Lex()
	p.Reset(lex2)
	stmts, hadErr := p.Parse()
	require.False(t, hadErr, "errors: %v", p.Errors())
	require.Len(t, stmts, 1)
	assert.IsType(t, &ast.PrintStmt{}, stmts[0])
}

func TestParser_RecoversAndReportsPerDeclaration(t *testing.T) {
	// two malformed declarations, each yielding its own diagnostic
	msgs := parseErr(t, "g'day mate! i reckon ; gimme ;")
	assert.GreaterOrEqual(t, len(msgs), 2)
}

func TestParser_ErrorsNameTheLine(t *testing.T) {
	msgs := parseErr(t, "g'day mate!\ngimme ;")
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "[line 2]")
}
