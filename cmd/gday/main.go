/*
File   : gday-mate/cmd/gday/main.go
Package main is the gday-mate CLI entry point: file mode, REPL mode, and a
one-REPL-per-connection TCP server mode. The pipeline packages themselves
(lexer, parser, resolver, interpreter) stay plain and colour-free; only
this boundary and internal/repl reach for github.com/fatih/color.
*/
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/zackradisic/gday-mate/internal/interpreter"
	"github.com/zackradisic/gday-mate/internal/lexer"
	"github.com/zackradisic/gday-mate/internal/parser"
	"github.com/zackradisic/gday-mate/internal/repl"
	"github.com/zackradisic/gday-mate/internal/resolver"
	"github.com/zackradisic/gday-mate/internal/source"
)

const (
	version = "v1.0.0"
	prompt  = "gday-mate> "
)

var (
	redColor  = color.New(color.FgRed)
	cyanColor = color.New(color.FgCyan)
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		runREPL()
		return
	}

	switch args[0] {
	case "--help", "-h":
		showHelp()
	case "--version", "-v":
		cyanColor.Printf("gday-mate %s\n", version)
	case "server":
		if len(args) < 2 {
			redColor.Fprintln(os.Stderr, "[USAGE ERROR] missing port: gday server <port>")
			os.Exit(1)
		}
		runServer(args[1])
	case "--reversed", "-r":
		if len(args) < 2 {
			redColor.Fprintln(os.Stderr, "[USAGE ERROR] missing file: gday --reversed <file>")
			os.Exit(1)
		}
		runFile(args[1], true)
	default:
		runFile(args[0], false)
	}
}

func showHelp() {
	cyanColor.Println("gday-mate - an interpreter for the G'DAY MATE! scripting language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	fmt.Println("  gday                    start interactive REPL mode")
	fmt.Println("  gday <path>             run a .gday source file")
	fmt.Println("  gday --reversed <path>  run a file authored reversed-and-upside-down")
	fmt.Println("  gday server <port>      start a REPL server, one session per connection")
	fmt.Println("  gday --help             show this message")
	fmt.Println("  gday --version          show the interpreter version")
}

// runFile reads, resolves, and runs one source file end to end. Any
// diagnostic from any stage is printed and the process exits non-zero.
func runFile(path string, reversed bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read %q: %v\n", path, err)
		os.Exit(1)
	}

	var rdr source.Reader
	if reversed {
		rdr = source.NewReversed(string(raw))
	} else {
		rdr = source.NewDirect(string(raw))
	}

	if !runSource(rdr, os.Stdout) {
		os.Exit(1)
	}
	cyanColor.Println(repl.Farewell)
}

// runSource drives one program through the full lexer -> parser ->
// resolver -> interpreter pipeline, reporting whichever stage's
// diagnostics fire first. It returns whether the run succeeded.
func runSource(rdr source.Reader, out *os.File) bool {
	lx := lexer.New(rdr)
	toks, hadLexErr := lx.Lex()
	if hadLexErr {
		for _, e := range lx.Errors() {
			redColor.Fprintln(os.Stderr, e.Error())
		}
		return false
	}

	p := parser.New(toks)
	stmts, hadParseErr := p.Parse()
	if hadParseErr {
		for _, e := range p.Errors() {
			redColor.Fprintln(os.Stderr, e.Error())
		}
		return false
	}

	res := resolver.New()
	if res.Resolve(stmts) {
		for _, e := range res.Errors() {
			redColor.Fprintln(os.Stderr, e.Error())
		}
		return false
	}

	interp := interpreter.New(out)
	if rtErr := interp.Run(stmts); rtErr != nil {
		redColor.Fprintln(os.Stderr, rtErr.Error())
		return false
	}
	return true
}

func runREPL() {
	r := repl.New(prompt)
	if err := r.Start(nil, os.Stdout); err != nil {
		redColor.Fprintf(os.Stderr, "[REPL ERROR] %v\n", err)
		os.Exit(1)
	}
}

// runServer listens on port and hands each connection its own REPL
// session: one goroutine per net.Conn, the connection itself standing in
// for stdin/stdout.
func runServer(port string) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] could not listen on :%s: %v\n", port, err)
		os.Exit(1)
	}
	defer ln.Close()
	cyanColor.Printf("gday-mate REPL server listening on :%s\n", port)

	for {
		conn, err := ln.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] accept failed: %v\n", err)
			continue
		}
		go handleConn(conn)
	}
}

func handleConn(conn net.Conn) {
	defer conn.Close()
	r := repl.New(prompt)
	r.Start(conn, conn)
}
