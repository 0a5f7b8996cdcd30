// Command ast_printer scans, parses and prints the AST of a Lox script
// passed on stdin, one parenthesized line per top-level statement. It is
// the standalone form of the glox CLI's -p/--print flag.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/munen/glox/internal/lox"
	"github.com/munen/glox/internal/printer"
)

func main() {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reporter := lox.NewSimpleReporter(os.Stderr)
	scanner := lox.NewScanner([]rune(string(src)), reporter)
	tokens := scanner.Scan()
	parser := lox.NewParser(tokens, reporter)
	stmts := parser.Parse()
	if reporter.HadError() {
		os.Exit(64)
	}

	p := &printer.AstPrinter{}
	for _, stmt := range stmts {
		fmt.Println(p.Print(stmt))
	}
}
