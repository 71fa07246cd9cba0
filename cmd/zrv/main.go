// Command zrv is the CLI entry point: a hand-rolled flag parser (no
// parser-combinator or stdlib flag use fits this grammar — see
// DESIGN.md), a file runner and a REPL, grounded on
// original_source/lox.cpp's Config/run/runFile/runPrompt.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/color"

	"zrv/internal/checker"
	"zrv/internal/diag"
	"zrv/internal/interp"
	"zrv/internal/parser"
	"zrv/internal/printer"
	"zrv/internal/scanner"
	"zrv/internal/token"
)

// config mirrors the original's Config: flags disable interpretation,
// one positional argument selects a source file (absent -> REPL).
type config struct {
	file string

	printAST      bool
	printHelp     bool
	printIDTable  bool
	printLexTable bool

	interpret bool
}

var flagKeys = map[string]func(*config){
	"--ast":       func(c *config) { c.printAST = true },
	"-a":          func(c *config) { c.printAST = true },
	"--help":      func(c *config) { c.printHelp = true },
	"-h":          func(c *config) { c.printHelp = true },
	"--id-table":  func(c *config) { c.printIDTable = true },
	"-i":          func(c *config) { c.printIDTable = true },
	"--lex-table": func(c *config) { c.printLexTable = true },
	"-l":          func(c *config) { c.printLexTable = true },
}

func parseArgs(args []string) *config {
	c := &config{interpret: true}

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			if c.file != "" {
				fmt.Fprintln(os.Stderr, color.Red("encounter several src files; should be only one"))
				os.Exit(64)
			}
			c.file = arg
			continue
		}

		set, ok := flagKeys[arg]
		if !ok {
			fmt.Fprintln(os.Stderr, color.Red("unknown argument: "+arg))
			os.Exit(64)
		}
		set(c)
		c.interpret = false
	}
	return c
}

func main() {
	cfg := parseArgs(os.Args[1:])

	switch {
	case cfg.printHelp:
		printHelp()
	case cfg.file == "":
		runPrompt(cfg)
	default:
		runFile(cfg)
	}
}

func printHelp() {
	fmt.Println("Usage: zrv [keys] [script]")
	fmt.Println("Any flag will turn interpretation off. Can be combined together.")
	fmt.Println("Available keys:")
	fmt.Println("\t-h\t--help\t\tprints this message")
	fmt.Println("\t-a\t--ast\t\tprints abstract syntax tree")
	fmt.Println("\t-i\t--id-table\tprints table of identifiers")
	fmt.Println("\t-l\t--lex-table\tprints table of lexemes types")
}

// run scans, parses, checks and (conditionally) evaluates source,
// writing results to out and diagnostics through sink.
func run(source string, cfg *config, sink *diag.Sink, out io.Writer) {
	toks := scanner.New(source, sink).Scan()

	if cfg.printLexTable {
		printLexTable(toks, out)
	}

	stmts := parser.New(toks, sink).Parse()

	checker.New(sink).Check(stmts)
	if sink.HadError {
		return
	}

	if cfg.printAST {
		printer.NewAST(out).Print(stmts)
	}
	if cfg.printIDTable {
		printer.NewIDTable(out).Print(stmts)
	}

	if cfg.interpret {
		interp.New(sink, out).Run(stmts)
	}
}

func printLexTable(toks []*token.Token, out io.Writer) {
	line := 0
	for _, tok := range toks {
		for line != tok.Line {
			line++
			fmt.Fprintf(out, "\n[%d]\t", line)
		}
		fmt.Fprintf(out, "%s ", tok.Kind)
	}
	fmt.Fprintln(out)
}

func runFile(cfg *config) {
	b, err := os.ReadFile(cfg.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red(err.Error()))
		os.Exit(64)
	}

	source := strings.TrimSuffix(string(b), "\n")

	sink := diag.Default()
	run(source, cfg, sink, os.Stdout)

	if sink.HadRuntimeError {
		os.Exit(70)
	}
	if sink.HadError {
		os.Exit(64)
	}
}

func runPrompt(cfg *config) {
	reader := bufio.NewReader(os.Stdin)
	sink := diag.Default()

	fmt.Print(color.Yellow(">> "))
	for {
		var b strings.Builder
		braceCount := 0

		for {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return
			}
			for _, ch := range line {
				switch ch {
				case '{':
					braceCount++
				case '}':
					braceCount--
				}
			}
			b.WriteString(strings.TrimRight(line, "\n"))
			if braceCount <= 0 {
				break
			}
			fmt.Print(color.Yellow("... "))
		}

		source := b.String()
		if strings.TrimSpace(source) == "" {
			return
		}

		run(source, cfg, sink, os.Stdout)
		sink.Reset()

		fmt.Print("\n" + color.Yellow(">> "))
	}
}
