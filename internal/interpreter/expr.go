/*
File   : gday-mate/internal/interpreter/expr.go
Expression evaluation: operators, variable reads/writes via the
resolver's precomputed scope distances, and calls. evaluate never panics
on a language-level type error: every operand-mismatch case returns a
*diag.Error the caller threads back up to Run.
*/
package interpreter

import (
	"math"

	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/builtins"
	"github.com/zackradisic/gday-mate/internal/diag"
	"github.com/zackradisic/gday-mate/internal/env"
	"github.com/zackradisic/gday-mate/internal/value"
)

func (i *Interpreter) evaluate(e ast.Expr) (value.Value, *diag.Error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return literalValue(n.Value), nil
	case *ast.GroupingExpr:
		return i.evaluate(n.X)
	case *ast.UnaryExpr:
		return i.evalUnary(n)
	case *ast.BinaryExpr:
		return i.evalBinary(n)
	case *ast.LogicalExpr:
		return i.evalLogical(n)
	case *ast.VarExpr:
		return i.evalVar(n)
	case *ast.AssignExpr:
		return i.evalAssign(n)
	case *ast.CallExpr:
		return i.evalCall(n)
	}
	panic("interpreter: unhandled expression type")
}

// literalValue converts a parsed literal payload (float64/string/bool/nil)
// into its runtime value.Value shape.
func literalValue(v interface{}) value.Value {
	switch t := v.(type) {
	case float64:
		return value.Number(t)
	case string:
		return value.String(t)
	case bool:
		return value.Bool(t)
	case nil:
		return value.NilValue
	}
	panic("interpreter: literal of unexpected Go type")
}

func (i *Interpreter) evalUnary(n *ast.UnaryExpr) (value.Value, *diag.Error) {
	x, err := i.evaluate(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		return value.Bool(!value.Truthy(x)), nil
	case "-":
		num, ok := x.(value.Number)
		if !ok {
			return nil, diag.New(n.Ln, "unary '-' requires a number, got %s", x.Kind())
		}
		return -num, nil
	}
	panic("interpreter: unknown unary operator " + n.Op)
}

func (i *Interpreter) evalBinary(n *ast.BinaryExpr) (value.Value, *diag.Error) {
	l, err := i.evaluate(n.L)
	if err != nil {
		return nil, err
	}
	r, err := i.evaluate(n.R)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+":
		return evalAdd(l, r, n.Ln)
	case "-", "*", "/", "%":
		return evalArith(n.Op, l, r, n.Ln)
	case "<", "<=", ">", ">=":
		return evalCompare(n.Op, l, r, n.Ln)
	case "==":
		return value.Bool(value.Equal(l, r)), nil
	case "!=":
		return value.Bool(!value.Equal(l, r)), nil
	}
	panic("interpreter: unknown binary operator " + n.Op)
}

func evalAdd(l, r value.Value, line int) (value.Value, *diag.Error) {
	if ls, ok := l.(value.String); ok {
		return value.String(string(ls) + r.String()), nil
	}
	ln, lok := l.(value.Number)
	rn, rok := r.(value.Number)
	if !lok || !rok {
		return nil, diag.New(line, "'+' requires two numbers or a string left operand, got %s and %s", l.Kind(), r.Kind())
	}
	return ln + rn, nil
}

func evalArith(op string, l, r value.Value, line int) (value.Value, *diag.Error) {
	ln, lok := l.(value.Number)
	rn, rok := r.(value.Number)
	if !lok || !rok {
		return nil, diag.New(line, "'%s' requires two numbers, got %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		return ln / rn, nil
	case "%":
		return value.Number(math.Mod(float64(ln), float64(rn))), nil
	}
	panic("interpreter: unknown arithmetic operator " + op)
}

func evalCompare(op string, l, r value.Value, line int) (value.Value, *diag.Error) {
	ln, lok := l.(value.Number)
	rn, rok := r.(value.Number)
	if !lok || !rok {
		return nil, diag.New(line, "'%s' requires two numbers, got %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case "<":
		return value.Bool(ln < rn), nil
	case "<=":
		return value.Bool(ln <= rn), nil
	case ">":
		return value.Bool(ln > rn), nil
	case ">=":
		return value.Bool(ln >= rn), nil
	}
	panic("interpreter: unknown comparison operator " + op)
}

// evalLogical implements the short-circuit contract: `&&`
// yields the right value only when both sides are truthy (else boolean
// false); `||` yields whichever side is truthy first (else boolean
// false). Neither operator simply returns a plain boolean of the
// combination.
func (i *Interpreter) evalLogical(n *ast.LogicalExpr) (value.Value, *diag.Error) {
	l, err := i.evaluate(n.L)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "&&":
		if !value.Truthy(l) {
			return value.Bool(false), nil
		}
		r, err := i.evaluate(n.R)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(r) {
			return value.Bool(false), nil
		}
		return r, nil
	case "||":
		if value.Truthy(l) {
			return l, nil
		}
		r, err := i.evaluate(n.R)
		if err != nil {
			return nil, err
		}
		if value.Truthy(r) {
			return r, nil
		}
		return value.Bool(false), nil
	}
	panic("interpreter: unknown logical operator " + n.Op)
}

func (i *Interpreter) evalVar(n *ast.VarExpr) (value.Value, *diag.Error) {
	v, ok := i.env.GetAt(n.V.Distance, n.V.Name)
	if !ok {
		return nil, diag.New(n.Ln, "undefined variable %q", n.V.Name)
	}
	return v, nil
}

func (i *Interpreter) evalAssign(n *ast.AssignExpr) (value.Value, *diag.Error) {
	v, err := i.evaluate(n.X)
	if err != nil {
		return nil, err
	}
	if !i.env.AssignAt(n.V.Distance, n.V.Name, v) {
		return nil, diag.New(n.Ln, "undefined variable %q", n.V.Name)
	}
	return v, nil
}

func (i *Interpreter) evalCall(n *ast.CallExpr) (value.Value, *diag.Error) {
	callee, err := i.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(value.Callable)
	if !ok {
		return nil, diag.New(n.Ln, "cannot call a %s value", callee.Kind())
	}

	args := make([]value.Value, len(n.Args))
	for idx, a := range n.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	if len(args) != fn.Arity() {
		return nil, diag.New(n.Ln, "%s expects %d argument(s), got %d", fn.Name(), fn.Arity(), len(args))
	}

	switch f := fn.(type) {
	case *builtins.Builtin:
		res, callErr := f.Call(args)
		if callErr != nil {
			return nil, diag.New(n.Ln, "%s", callErr)
		}
		return res, nil
	case *Function:
		return i.callFunction(f, args, n.Ln)
	}
	return nil, diag.New(n.Ln, "cannot call a %s value", callee.Kind())
}

// callFunction runs a user function's body in a new environment enclosing
// its captured closure, not the caller's environment, binding
// parameters to args. The body's statements execute directly in that one
// environment (no second nested block scope), matching
// resolver.resolveFunction's single-scope treatment of params + body.
func (i *Interpreter) callFunction(f *Function, args []value.Value, line int) (value.Value, *diag.Error) {
	callEnv := env.New(f.closure)
	for idx, param := range f.decl.Params {
		callEnv.Define(param, args[idx])
	}

	prev := i.env
	i.env = callEnv
	defer func() { i.env = prev }()

	ex, err := i.execStmts(f.decl.Body.Stmts)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return value.NilValue, nil
	}
	switch ex.sig {
	case sigReturn:
		return ex.value, nil
	case sigBreak:
		return nil, diag.New(ex.line, "'mate fuck this' used outside a loop")
	}
	return value.NilValue, nil
}
