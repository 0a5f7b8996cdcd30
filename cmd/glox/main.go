// Command glox is the Lox interpreter's command-line entry point: it
// selects between running a script file and a REPL, and optionally prints
// the parsed AST instead of running it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/munen/glox/internal/lox"
	"github.com/munen/glox/internal/printer"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func main() {
	printAst := flag.Bool("print", false, "print the parsed AST instead of running it")
	flag.BoolVar(printAst, "p", false, "shorthand for -print")
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: glox [-p] [script]")
		os.Exit(64)
	}

	reporter := lox.NewSimpleReporter(os.Stderr)
	interpreter := lox.NewInterpreter(os.Stdout, reporter)

	if len(args) == 1 {
		runFile(args[0], interpreter, reporter, *printAst)
		return
	}
	runPrompt(interpreter, reporter, *printAst)
}

// run drives one pass of the pipeline over script, halting after any
// stage that reports an error so later stages never see a malformed tree.
func run(script string, interpreter *lox.Interpreter, reporter lox.Reporter, printAst bool) {
	scanner := lox.NewScanner([]rune(script), reporter)
	tokens := scanner.Scan()

	parser := lox.NewParser(tokens, reporter)
	stmts := parser.Parse()
	if reporter.HadError() {
		return
	}

	if printAst {
		p := &printer.AstPrinter{}
		for _, stmt := range stmts {
			fmt.Println(p.Print(stmt))
		}
		return
	}

	resolver := lox.NewResolver(interpreter, reporter)
	resolver.Resolve(stmts)
	if reporter.HadError() {
		return
	}

	interpreter.Interpret(stmts)
}

func runFile(fpath string, interpreter *lox.Interpreter, reporter lox.Reporter, printAst bool) {
	src, err := os.ReadFile(fpath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	run(string(src), interpreter, reporter, printAst)
	if reporter.HadError() {
		os.Exit(64)
	}
	if reporter.HadRuntimeError() {
		os.Exit(70)
	}
}

func runPrompt(interpreter *lox.Interpreter, reporter lox.Reporter, printAst bool) {
	fmt.Println(bannerStyle.Render("glox REPL — Ctrl+D to exit"))

	s := bufio.NewScanner(os.Stdin)
	s.Split(bufio.ScanLines)
	for {
		fmt.Print(promptStyle.Render("> "))
		if !s.Scan() {
			break
		}
		run(s.Text(), interpreter, reporter, printAst)
		if reporter.HadError() || reporter.HadRuntimeError() {
			// Errors were already written to stderr by the reporter;
			// Reset lets the session keep going on the next line.
			reporter.Reset()
		}
	}
	if err := s.Err(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	os.Exit(0)
}
