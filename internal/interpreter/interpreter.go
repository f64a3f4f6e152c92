/*
File   : gday-mate/internal/interpreter/interpreter.go
Package interpreter is the tree-walking evaluator: it executes a resolved
statement list against a chain of lexical environments, producing its only
observable effects through `gimme` writes to an io.Writer and the built-in
registry's own side effects (sleep, clock, RNG). Control-flow exits
(`mate fuck this`, `bail`) are modelled as return values from execStmt
rather than Go panics, keeping evaluation deterministic and free of
stack-unwinding machinery.
*/
package interpreter

import (
	"io"
	"os"

	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/builtins"
	"github.com/zackradisic/gday-mate/internal/diag"
	"github.com/zackradisic/gday-mate/internal/env"
	"github.com/zackradisic/gday-mate/internal/value"
)

// signal tags what an exec call is unwinding for, if anything.
type signal int

const (
	sigNone signal = iota
	sigBreak
	sigReturn
)

// exit is the in-band unwind marker execStmt returns instead of nil: a
// bare break, or a return carrying its value. Line is only meaningful for
// sigBreak, which needs it to name where an invalid top-level break
// happened.
type exit struct {
	sig   signal
	value value.Value
	line  int
}

// Interpreter holds the one piece of mutable state that threads through
// every statement: the current environment. gimme output goes to out; the
// zero value is not usable, construct with New.
type Interpreter struct {
	env *env.Environment
	out io.Writer
}

// New builds an Interpreter whose root (global) environment has no
// parent: this is the environment a resolver.Resolver's bottom scope
// (pushed once, never popped) corresponds to, so a Variable the resolver
// couldn't find locally hops exactly here.
func New(out io.Writer) *Interpreter {
	return &Interpreter{env: env.New(nil), out: out}
}

// Run executes a fully resolved statement list. The first runtime
// diagnostic halts execution immediately.
func (i *Interpreter) Run(stmts []ast.Stmt) *diag.Error {
	ex, err := i.execStmts(stmts)
	if err != nil {
		return err
	}
	if ex == nil {
		return nil
	}
	switch ex.sig {
	case sigReturn:
		// a soft `cheers c***!` unwinds the whole run cleanly; nothing
		// after it was even tokenized.
		return nil
	case sigBreak:
		return diag.New(ex.line, "'mate fuck this' used outside a loop")
	}
	return nil
}

// execStmts runs a statement list in the current environment, short-
// circuiting on the first error or unwind signal.
func (i *Interpreter) execStmts(stmts []ast.Stmt) (*exit, *diag.Error) {
	for _, s := range stmts {
		ex, err := i.execStmt(s)
		if err != nil {
			return nil, err
		}
		if ex != nil {
			return ex, nil
		}
	}
	return nil, nil
}

func (i *Interpreter) execStmt(s ast.Stmt) (*exit, *diag.Error) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		_, err := i.evaluate(n.X)
		return nil, err
	case *ast.BlockStmt:
		return i.execBlock(n)
	case *ast.IfStmt:
		return i.execIf(n)
	case *ast.MatchStmt:
		return i.execMatch(n)
	case *ast.VarDeclStmt:
		return nil, i.execVarDecl(n)
	case *ast.FnDeclStmt:
		i.env.Define(n.Name, NewFunction(n, i.env))
		return nil, nil
	case *ast.PrintStmt:
		return nil, i.execPrint(n)
	case *ast.ForStmt:
		return i.execFor(n)
	case *ast.WhileStmt:
		return i.execWhile(n)
	case *ast.BreakStmt:
		return &exit{sig: sigBreak, line: n.Ln}, nil
	case *ast.ReturnStmt:
		return i.execReturn(n)
	case *ast.ImportStmt:
		return nil, i.execImport(n)
	case *ast.ExitStmt:
		return i.execExit(n)
	}
	panic("interpreter: unhandled statement type")
}

func (i *Interpreter) execBlock(n *ast.BlockStmt) (*exit, *diag.Error) {
	prev := i.env
	i.env = env.New(prev)
	defer func() { i.env = prev }()
	return i.execStmts(n.Stmts)
}

func (i *Interpreter) execVarDecl(n *ast.VarDeclStmt) *diag.Error {
	v := value.Value(value.NilValue)
	if n.Init != nil {
		var err *diag.Error
		v, err = i.evaluate(n.Init)
		if err != nil {
			return err
		}
	}
	i.env.Define(n.Name, v)
	return nil
}

func (i *Interpreter) execPrint(n *ast.PrintStmt) *diag.Error {
	v, err := i.evaluate(n.X)
	if err != nil {
		return err
	}
	_, writeErr := io.WriteString(i.out, v.String()+"\n")
	if writeErr != nil {
		return diag.New(n.Ln, "gimme: %s", writeErr)
	}
	return nil
}

func (i *Interpreter) execReturn(n *ast.ReturnStmt) (*exit, *diag.Error) {
	v := value.Value(value.NilValue)
	if n.X != nil {
		var err *diag.Error
		v, err = i.evaluate(n.X)
		if err != nil {
			return nil, err
		}
	}
	return &exit{sig: sigReturn, value: v}, nil
}

func (i *Interpreter) execImport(n *ast.ImportStmt) *diag.Error {
	b, ok := builtins.Lookup(n.Name)
	if !ok {
		return diag.New(n.Ln, "unknown import %q", n.Name)
	}
	i.env.Define(n.Name, b)
	return nil
}

// execExit implements both exit forms: a hard `fuckinpiker` terminates the
// process immediately with no unwinding, a soft `cheers c***!` unwinds as
// a return carrying nil.
func (i *Interpreter) execExit(n *ast.ExitStmt) (*exit, *diag.Error) {
	if n.Hard {
		os.Exit(1)
	}
	return &exit{sig: sigReturn, value: value.NilValue}, nil
}
