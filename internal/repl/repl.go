/*
File   : gday-mate/internal/repl/repl.go
Package repl implements the interactive mode: one line of source at a
time, lexed/parsed/resolved/executed against a single persistent
interpreter so variables and functions declared on one line are visible
on the next. The parser instance is reused across lines via Reset.
*/
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/zackradisic/gday-mate/internal/interpreter"
	"github.com/zackradisic/gday-mate/internal/lexer"
	"github.com/zackradisic/gday-mate/internal/parser"
	"github.com/zackradisic/gday-mate/internal/resolver"
)

var (
	redColor   = color.New(color.FgRed)
	cyanColor  = color.New(color.FgCyan)
	greenColor = color.New(color.FgGreen)
)

const Farewell = "CHEERS C***!"

// Repl is one interactive session: its own readline instance, parser, and
// interpreter, all scoped to one run of Start.
type Repl struct {
	Prompt string
}

// New builds a Repl with the given prompt string.
func New(prompt string) *Repl {
	return &Repl{Prompt: prompt}
}

// Start runs the read-eval-print loop, reading lines via readline from in
// (nil means the process's stdin) and writing gimme output and diagnostics
// to writer. It returns when the input stream ends (Ctrl+D or a closed
// connection), after printing the farewell.
func (r *Repl) Start(in io.ReadCloser, writer io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: r.Prompt,
		Stdin:  in,
		Stdout: writer,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	greenColor.Fprintln(writer, "G'DAY MATE!: gday-mate interactive mode. Ctrl+D to finish up.")

	interp := interpreter.New(writer)
	p := parser.New(nil)

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl+D, or readline.ErrInterrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)
		r.runLine(writer, p, interp, line)
	}

	cyanColor.Fprintln(writer, Farewell)
	return nil
}

// runLine drives one line through the full pipeline, reporting whichever
// stage's diagnostics fire first. A lex, parse, or resolve error means the
// line is not run at all; a runtime error stops it after any earlier
// statements of the line have already taken effect.
func (r *Repl) runLine(writer io.Writer, p *parser.Parser, interp *interpreter.Interpreter, line string) {
	lx := lexer.NewFromString(line)
	toks, hadLexErr := lx.Lex()
	if hadLexErr {
		for _, e := range lx.Errors() {
			redColor.Fprintln(writer, e.Error())
		}
		return
	}

	p.Reset(toks)
	stmts, hadParseErr := p.Parse()
	if hadParseErr {
		for _, e := range p.Errors() {
			redColor.Fprintln(writer, e.Error())
		}
		return
	}

	res := resolver.New()
	if res.Resolve(stmts) {
		for _, e := range res.Errors() {
			redColor.Fprintln(writer, e.Error())
		}
		return
	}

	if rtErr := interp.Run(stmts); rtErr != nil {
		redColor.Fprintln(writer, rtErr.Error())
	}
}
