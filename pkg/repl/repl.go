// Package repl implements an interactive loop for building operand
// matrices and inspecting the IR and instruction stream they lower to.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Nomnomaki/pim-compiler/pkg/compiler"
	"github.com/Nomnomaki/pim-compiler/pkg/ir"
	"github.com/Nomnomaki/pim-compiler/pkg/isa"
	"github.com/Nomnomaki/pim-compiler/pkg/listing"
	"github.com/Nomnomaki/pim-compiler/pkg/loader"
)

const (
	prompt     = "pim> "
	promptCont = "...> "
)

var (
	errNoStatement  = errors.New("expected matrix_a = {{...}} or matrix_b = {{...}}")
	errUnterminated = errors.New("unterminated initializer at end of input")
)

// REPL provides an interactive Read-Eval-Print Loop.
type REPL struct {
	opts      []compiler.Option
	a, b      ir.Matrix
	history   []string
	multiline strings.Builder
	depth     int
	done      bool
}

// New creates a new REPL instance. The options are applied to every
// compile command.
func New(opts ...compiler.Option) *REPL {
	return &REPL{
		opts:    opts,
		history: []string{},
	}
}

// SetMatrices sets both operands.
func (r *REPL) SetMatrices(a, b ir.Matrix) {
	r.a, r.b = a, b
}

// Start runs the loop until in is exhausted or a quit command is read.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "PIM compiler REPL - matrix multiply to PIM instructions")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for !r.done {
		if r.depth > 0 {
			fmt.Fprint(out, promptCont)
		} else {
			fmt.Fprint(out, prompt)
		}

		if !scanner.Scan() {
			if r.depth > 0 {
				fmt.Fprintf(out, "\nError: %v\n", errUnterminated)
				r.depth = 0
				r.multiline.Reset()
			}
			break
		}

		line := scanner.Text()

		// An initializer stays open until its braces balance.
		if r.depth > 0 {
			r.multiline.WriteString(line)
			r.multiline.WriteString("\n")
			r.depth += braceDelta(line)
			if r.depth <= 0 {
				r.depth = 0
				input := r.multiline.String()
				r.multiline.Reset()
				r.eval(input, out)
			}
			continue
		}

		if handled := r.handleCommand(line, out); handled {
			continue
		}

		if d := braceDelta(line); d > 0 {
			r.depth = d
			r.multiline.WriteString(line)
			r.multiline.WriteString("\n")
			continue
		}

		r.eval(line, out)
	}
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

func (r *REPL) handleCommand(line string, out io.Writer) bool {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)

	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		r.done = true
		return true

	case "help", "h", "?":
		r.printHelp(out)
		return true

	case "show":
		r.record(trimmed)
		r.show(out)
		return true

	case "ir":
		r.record(trimmed)
		r.printIR(out)
		return true

	case "compile":
		r.record(trimmed)
		r.compile(out)
		return true

	case "decode":
		r.record(trimmed)
		if len(parts) < 2 {
			fmt.Fprintln(out, "Usage: decode <hex>...")
			return true
		}
		for _, word := range parts[1:] {
			instr, err := isa.ParseInstruction(word)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "%s  %s\n", instr.Hex(), instr)
		}
		return true

	case "load":
		r.record(trimmed)
		if len(parts) != 3 || (parts[1] != "a" && parts[1] != "b") {
			fmt.Fprintln(out, "Usage: load a|b <path>")
			return true
		}
		r.load(parts[1], parts[2], out)
		return true

	case "clear":
		r.a, r.b = nil, nil
		fmt.Fprintln(out, "Matrices cleared")
		return true

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}
		return true
	}

	return false
}

func (r *REPL) record(input string) {
	r.history = append(r.history, input)
}

func (r *REPL) eval(input string, out io.Writer) {
	if strings.TrimSpace(input) == "" {
		return
	}

	r.record(strings.TrimSpace(input))

	defs, err := loader.ParseAssignments(input)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	if len(defs) == 0 {
		fmt.Fprintf(out, "Error: %v\n", errNoStatement)
		return
	}

	if m, ok := defs[loader.NameA]; ok {
		r.a = m
		fmt.Fprintf(out, "%s: %dx%d\n", loader.NameA, m.Rows(), m.Cols())
	}
	if m, ok := defs[loader.NameB]; ok {
		r.b = m
		fmt.Fprintf(out, "%s: %dx%d\n", loader.NameB, m.Rows(), m.Cols())
	}
}

func (r *REPL) load(which, path string, out io.Writer) {
	m, err := loader.LoadMatrix(path)
	if err != nil {
		fmt.Fprintf(out, "Error loading %s: %v\n", path, err)
		return
	}

	name := loader.NameA
	if which == "b" {
		name = loader.NameB
		r.b = m
	} else {
		r.a = m
	}
	fmt.Fprintf(out, "Loaded %s from %s (%dx%d)\n", name, path, m.Rows(), m.Cols())
}

func (r *REPL) show(out io.Writer) {
	printMatrix(out, loader.NameA, r.a)
	printMatrix(out, loader.NameB, r.b)
}

func printMatrix(out io.Writer, name string, m ir.Matrix) {
	if m == nil {
		fmt.Fprintf(out, "%s: not set\n", name)
		return
	}
	fmt.Fprintf(out, "%s: %dx%d\n", name, m.Rows(), m.Cols())
	for _, row := range m {
		fmt.Fprintf(out, "  %v\n", row)
	}
}

func (r *REPL) operands() (ir.Matrix, ir.Matrix, error) {
	if r.a == nil || r.b == nil {
		return nil, nil, errors.New("both matrix_a and matrix_b must be set")
	}
	return r.a, r.b, nil
}

func (r *REPL) printIR(out io.Writer) {
	a, b, err := r.operands()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	ops, err := ir.Generate(a, b)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	for i, op := range ops {
		fmt.Fprintf(out, "%4d: %s\n", i, op)
	}
}

func (r *REPL) compile(out io.Writer) {
	a, b, err := r.operands()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	program, err := compiler.Compile(a, b, r.opts...)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	listing.WriteTable(out, program.Code)
	fmt.Fprintf(out, "%d instructions\n", len(program.Code))
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
PIM REPL Commands:
  help, h, ?        Show this help message
  quit, exit, q     Exit the REPL
  show              Print both operands
  ir                Print the IR for A * B
  compile           Print the encoded instruction table
  decode <hex>...   Decode instruction words
  load a|b <path>   Load an operand from CSV, JSON or Parquet
  clear             Clear both operands
  history           Show input history

Statements:
  matrix_a = {{1, 2}, {3, 4}}
  matrix_b = {
      {5, 6},
      {7, 8}
  }

Tips:
  - An initializer continues across lines until its braces close
`
	fmt.Fprint(out, help)
}
