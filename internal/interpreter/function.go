/*
File   : gday-mate/internal/interpreter/function.go
Function is the interpreter's concrete value.Callable for user-declared
functions (`the hard yakka for`). Builtins implement the same interface
with their own self-contained Call method (see internal/builtins); a
Function instead needs the interpreter's evaluation machinery to run its
body, so its invocation lives on *Interpreter (see expr.go) rather than on
the value itself.
*/
package interpreter

import (
	"fmt"

	"github.com/zackradisic/gday-mate/internal/ast"
	"github.com/zackradisic/gday-mate/internal/env"
	"github.com/zackradisic/gday-mate/internal/value"
)

// Function is a user-declared callable. Closure is the environment chain
// in effect at the point the `the hard yakka for` declaration ran, not
// the caller's environment, so free variables inside the body always
// resolve against where the function was written.
type Function struct {
	decl    *ast.FnDeclStmt
	closure *env.Environment
}

// NewFunction builds a Function capturing closure as its defining
// environment chain.
func NewFunction(decl *ast.FnDeclStmt, closure *env.Environment) *Function {
	return &Function{decl: decl, closure: closure}
}

func (*Function) Kind() value.Kind { return value.CallableKind }
func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name) }
func (f *Function) Name() string   { return f.decl.Name }
func (f *Function) Arity() int     { return len(f.decl.Params) }
