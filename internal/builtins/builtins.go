/*
File   : gday-mate/internal/builtins/builtins.go
Package builtins implements the host functions `impoht me func` can
bring into scope: a sleep, a clock, and a die-roller. Each is a
self-contained Builtin: none of them need interpreter state to run, so
unlike user functions they carry their own Call method.
*/
package builtins

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/zackradisic/gday-mate/internal/value"
)

// Builtin is a host-implemented value.Callable.
type Builtin struct {
	name  string
	arity int
	fn    func(args []value.Value) (value.Value, error)
}

func (*Builtin) Kind() value.Kind { return value.CallableKind }
func (b *Builtin) String() string { return fmt.Sprintf("<built-in %s>", b.name) }
func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Arity() int     { return b.arity }

// Call invokes the builtin. The caller is responsible for arity
// checking beforehand (the interpreter does this uniformly for both
// builtins and user functions).
func (b *Builtin) Call(args []value.Value) (value.Value, error) {
	return b.fn(args)
}

var registry = map[string]*Builtin{}

func register(b *Builtin) { registry[b.name] = b }

// Lookup returns the builtin bound to name, per the `impoht me func`
// registry contract.
func Lookup(name string) (*Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

func init() {
	register(&Builtin{name: "HitTheSack", arity: 1, fn: hitTheSack})
	register(&Builtin{name: "GimmeTime", arity: 0, fn: gimmeTime})
	register(&Builtin{name: "ChuckSomeDice", arity: 2, fn: chuckSomeDice})
}

func hitTheSack(args []value.Value) (value.Value, error) {
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, fmt.Errorf("HitTheSack expects a number of milliseconds")
	}
	if n < 0 {
		return nil, fmt.Errorf("HitTheSack requires a non-negative duration")
	}
	time.Sleep(time.Duration(float64(n)) * time.Millisecond)
	return value.NilValue, nil
}

// melbourne is resolved once; if the host's tzdata lacks the zone, we
// fall back to a fixed AEST offset rather than erroring on every call.
var melbourne = loadMelbourne()

func loadMelbourne() *time.Location {
	if loc, err := time.LoadLocation("Australia/Melbourne"); err == nil {
		return loc
	}
	return time.FixedZone("AEST", 10*60*60)
}

func gimmeTime(args []value.Value) (value.Value, error) {
	now := time.Now().In(melbourne)
	return value.String(now.Format("2006-01-02 15:04:05 MST")), nil
}

func chuckSomeDice(args []value.Value) (value.Value, error) {
	start, ok1 := args[0].(value.Number)
	end, ok2 := args[1].(value.Number)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("ChuckSomeDice expects two numbers")
	}
	if !(start < end) {
		return nil, fmt.Errorf("ChuckSomeDice requires start < end")
	}
	span := int64(end) - int64(start)
	roll := int64(start) + rand.Int63n(span)
	return value.Number(float64(roll)), nil
}
