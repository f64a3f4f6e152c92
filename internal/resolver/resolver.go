/*
File   : gday-mate/internal/resolver/resolver.go
Package resolver is the static pass that runs between the parser and the
interpreter: it walks the statement tree once, maintaining a stack of scope
maps, and annotates every ast.Variable with the scope distance the
interpreter will later use to hop straight to the right environment instead
of walking the chain by name. It also catches the compile-time errors this
stage owns: redeclaration in the same scope, reading a name before its
initializer has run, assigning to an immutable binding, and `bail` outside
a function.
*/
package resolver

import (
	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/diag"
)

// binding tracks one name's state within a single scope: whether its
// initializer has finished running yet, and whether it was introduced by
// a fn declaration / import (and so may never be reassigned).
type binding struct {
	defined   bool
	immutable bool
}

// Resolver walks a parsed statement list and mutates every ast.Variable it
// finds in place. The scope stack's bottom entry is the program's global
// scope, pushed once at the start of Resolve and never popped, so a name
// resolveLocal can't find anywhere lands on that bottom scope's distance,
// and the interpreter's root environment (the one matching scope-stack
// index zero) is exactly where a true "undefined variable" runtime error
// gets raised on lookup.
type Resolver struct {
	scopes       []map[string]*binding
	errs         diag.Bag
	functionDepth int
}

// New builds a Resolver with no state; call Resolve to run it.
func New() *Resolver { return &Resolver{} }

// Errors returns every diagnostic recorded during the most recent Resolve.
func (r *Resolver) Errors() []*diag.Error { return r.errs.Errors() }

func (r *Resolver) error(line int, format string, args ...interface{}) {
	r.errs.Add(line, format, args...)
}

// Resolve walks stmts, annotating every Variable with its scope distance.
// It reports whether any diagnostic was recorded; a true result means the
// interpreter must not run.
func (r *Resolver) Resolve(stmts []ast.Stmt) bool {
	r.scopes = nil
	r.errs = diag.Bag{}
	r.functionDepth = 0
	r.beginScope() // the program's global scope
	r.resolveStmts(stmts)
	return r.errs.HasErrors()
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]*binding{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name string, line int, immutable bool) {
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name]; ok {
		r.error(line, "%q is already declared in this scope", name)
	}
	scope[name] = &binding{immutable: immutable}
}

func (r *Resolver) define(name string) {
	if b, ok := r.scopes[len(r.scopes)-1][name]; ok {
		b.defined = true
	}
}

// resolveLocal records the hop count for v, searching the scope stack from
// innermost to outermost. A name this search never finds is treated as an
// unresolved global: its distance lands on the bottom (global) scope, and
// the interpreter's own environment lookup there is what actually surfaces
// the "undefined variable" runtime error.
func (r *Resolver) resolveLocal(v *ast.Variable, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			v.Distance = len(r.scopes) - 1 - i
			return
		}
	}
	v.Distance = len(r.scopes) - 1
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(n.X)
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(n.Stmts)
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}
	case *ast.MatchStmt:
		r.resolveExpr(n.Value)
		for _, arm := range n.Arms {
			r.beginScope()
			r.resolveStmt(arm.Body)
			r.endScope()
		}
		if n.Default != nil {
			r.beginScope()
			if vp, ok := n.Default.Pattern.(ast.VarPattern); ok {
				r.declare(vp.Name, n.Ln, false)
				r.define(vp.Name)
			}
			r.resolveStmt(n.Default.Body)
			r.endScope()
		}
	case *ast.VarDeclStmt:
		r.declare(n.Name, n.Ln, false)
		if n.Init != nil {
			r.resolveExpr(n.Init)
		}
		r.define(n.Name)
	case *ast.FnDeclStmt:
		r.declare(n.Name, n.Ln, true)
		r.define(n.Name)
		r.resolveFunction(n.Params, n.Body)
	case *ast.PrintStmt:
		r.resolveExpr(n.X)
	case *ast.ForStmt:
		r.resolveExpr(n.Start.X)
		r.resolveExpr(n.End.X)
		r.beginScope()
		r.declare(n.Var, n.Ln, false)
		r.define(n.Var)
		r.resolveStmt(n.Body)
		r.endScope()
	case *ast.WhileStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Body)
	case *ast.BreakStmt:
		// a break outside any loop is a runtime error, not a static one
	case *ast.ReturnStmt:
		if r.functionDepth == 0 {
			r.error(n.Ln, "'bail' outside a function")
		}
		if n.X != nil {
			r.resolveExpr(n.X)
		}
	case *ast.ImportStmt:
		r.declare(n.Name, n.Ln, true)
		r.define(n.Name)
	case *ast.ExitStmt:
		// no bindings involved
	default:
		panic("resolver: unhandled statement type")
	}
}

// resolveFunction resolves a function body in one scope shared by its
// parameters and top-level statements, not two nested scopes, so the
// interpreter's call frame (one Environment binding params, body executed
// directly in it) and the resolver's distances agree.
func (r *Resolver) resolveFunction(params []string, body *ast.BlockStmt) {
	r.functionDepth++
	r.beginScope()
	for _, p := range params {
		r.declare(p, body.Ln, false)
		r.define(p)
	}
	r.resolveStmts(body.Stmts)
	r.endScope()
	r.functionDepth--
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.UnaryExpr:
		r.resolveExpr(n.X)
	case *ast.BinaryExpr:
		r.resolveExpr(n.L)
		r.resolveExpr(n.R)
	case *ast.LogicalExpr:
		r.resolveExpr(n.L)
		r.resolveExpr(n.R)
	case *ast.GroupingExpr:
		r.resolveExpr(n.X)
	case *ast.LiteralExpr:
		// no bindings involved
	case *ast.VarExpr:
		r.resolveVarRead(n)
	case *ast.AssignExpr:
		r.resolveExpr(n.X)
		r.checkImmutableAssign(n)
		r.resolveLocal(n.V, n.V.Name)
	case *ast.CallExpr:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) resolveVarRead(v *ast.VarExpr) {
	name := v.V.Name
	if b, ok := r.scopes[len(r.scopes)-1][name]; ok && !b.defined {
		r.error(v.Ln, "can't read %q in its own initializer", name)
	}
	r.resolveLocal(v.V, name)
}

func (r *Resolver) checkImmutableAssign(a *ast.AssignExpr) {
	name := a.V.Name
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name]; ok {
			if b.immutable {
				r.error(a.Ln, "cannot assign to immutable binding %q", name)
			}
			return
		}
	}
}
