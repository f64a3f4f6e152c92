/*
File   : gday-mate/internal/interpreter/control.go
Executors for the statements whose job is steering control flow rather
than producing a value: if/whatabout, match, for-range, and until-loops.
Each loop executor consumes a break signal from its own body and
propagates a return signal unchanged.
*/
package interpreter

import (
	"math"

	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/diag"
	"github.com/zackradisic/gday-mate/internal/env"
	"github.com/zackradisic/gday-mate/internal/value"
)

func (i *Interpreter) execIf(n *ast.IfStmt) (*exit, *diag.Error) {
	cond, err := i.evaluate(n.Cond)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return i.execStmt(n.Then)
	}
	if n.Else != nil {
		return i.execStmt(n.Else)
	}
	return nil, nil
}

func (i *Interpreter) execMatch(n *ast.MatchStmt) (*exit, *diag.Error) {
	scrutinee, err := i.evaluate(n.Value)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		if matchesPattern(arm.Pattern, scrutinee) {
			return i.execInFreshScope(arm.Body, nil, value.Value(nil))
		}
	}
	if n.Default != nil {
		name := n.Default.Pattern.(ast.VarPattern).Name
		return i.execInFreshScope(n.Default.Body, &name, scrutinee)
	}
	return nil, nil
}

// execInFreshScope runs body in a new environment enclosing the current
// one, optionally binding bindName to bindValue first (the match default
// arm's scrutinee binding; ordinary arms pass a nil bindName).
func (i *Interpreter) execInFreshScope(body ast.Stmt, bindName *string, bindValue value.Value) (*exit, *diag.Error) {
	prev := i.env
	i.env = env.New(prev)
	defer func() { i.env = prev }()
	if bindName != nil {
		i.env.Define(*bindName, bindValue)
	}
	return i.execStmt(body)
}

func matchesPattern(p ast.Pattern, v value.Value) bool {
	switch pat := p.(type) {
	case ast.NumberPattern:
		nv, ok := v.(value.Number)
		return ok && value.StrictNumberEqual(value.Number(pat.Value), nv)
	case ast.StringPattern:
		sv, ok := v.(value.String)
		return ok && string(sv) == pat.Value
	case ast.BoolPattern:
		bv, ok := v.(value.Bool)
		return ok && bool(bv) == pat.Value
	case ast.NilPattern:
		_, ok := v.(value.Nil)
		return ok
	}
	return false // ast.VarPattern is the default arm, never matched here
}

func (i *Interpreter) execFor(n *ast.ForStmt) (*exit, *diag.Error) {
	start, err := i.evalRangeEndpoint(n.Start.X)
	if err != nil {
		return nil, err
	}
	end, err := i.evalRangeEndpoint(n.End.X)
	if err != nil {
		return nil, err
	}

	prev := i.env
	i.env = env.New(prev)
	defer func() { i.env = prev }()

	var step float64
	switch {
	case start < end:
		step = 1
	case start > end:
		step = -1
	}

	runBody := func(cur float64) (*exit, *diag.Error, bool) {
		i.env.Define(n.Var, value.Number(cur))
		bodyExit, err := i.execStmt(n.Body)
		if err != nil {
			return nil, err, false
		}
		if bodyExit != nil {
			if bodyExit.sig == sigBreak {
				return nil, nil, false // consumed; stop iterating
			}
			return bodyExit, nil, false // return: propagate, stop iterating
		}
		return nil, nil, true // keep going
	}

	if step == 0 {
		if n.Start.Inclusive && n.End.Inclusive {
			ex, err, _ := runBody(start)
			return ex, err
		}
		return nil, nil
	}

	// an exclusive start bound skips its own endpoint: iteration begins
	// one step inside it.
	first := start
	if !n.Start.Inclusive {
		first += step
	}

	for cur := first; inRange(cur, start, n.Start.Inclusive, end, n.End.Inclusive, step); cur += step {
		ex, err, cont := runBody(cur)
		if err != nil {
			return nil, err
		}
		if !cont {
			return ex, nil
		}
	}
	return nil, nil
}

// inRange reports whether cur still lies within a range walked from start
// toward end in the given step direction, honouring each endpoint's own
// inclusivity regardless of which one is numerically larger.
func inRange(cur, start float64, startIncl bool, end float64, endIncl bool, step float64) bool {
	if step > 0 {
		if cur < start || (cur == start && !startIncl) {
			return false
		}
		return cur < end || (cur == end && endIncl)
	}
	if cur > start || (cur == start && !startIncl) {
		return false
	}
	return cur > end || (cur == end && endIncl)
}

func (i *Interpreter) evalRangeEndpoint(e ast.Expr) (float64, *diag.Error) {
	v, err := i.evaluate(e)
	if err != nil {
		return 0, err
	}
	n, ok := v.(value.Number)
	if !ok {
		return 0, diag.New(e.Line(), "range endpoint must be a number, got %s", v.Kind())
	}
	if math.IsNaN(float64(n)) {
		return 0, diag.New(e.Line(), "range endpoint must be a number, got NaN")
	}
	return float64(n), nil
}

// execWhile implements `until`: the body repeats while the condition is
// falsy, the inverse of a conventional while-loop. The loop itself opens
// no environment; only block bodies and for-ranges get one.
func (i *Interpreter) execWhile(n *ast.WhileStmt) (*exit, *diag.Error) {
	for {
		cond, err := i.evaluate(n.Cond)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return nil, nil
		}
		bodyExit, err := i.execStmt(n.Body)
		if err != nil {
			return nil, err
		}
		if bodyExit != nil {
			if bodyExit.sig == sigBreak {
				return nil, nil
			}
			return bodyExit, nil
		}
	}
}
