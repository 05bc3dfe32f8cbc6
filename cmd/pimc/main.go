// Package main provides the CLI entry point for pimc, the PIM matrix
// multiplication compiler.
//
// Usage:
//
//	pimc run input.cpp                  # Compile and print the instruction table
//	pimc run a.csv b.csv                # Same, one matrix per file
//	pimc compile input.cpp -o out.pimb  # Write encoded program
//	pimc disasm out.pimb                # Disassemble encoded program
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomnomaki/pim-compiler/pkg/compiler"
	"github.com/Nomnomaki/pim-compiler/pkg/embed"
	"github.com/Nomnomaki/pim-compiler/pkg/ir"
	"github.com/Nomnomaki/pim-compiler/pkg/isa"
	"github.com/Nomnomaki/pim-compiler/pkg/listing"
	"github.com/Nomnomaki/pim-compiler/pkg/loader"
	"github.com/Nomnomaki/pim-compiler/pkg/repl"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return printUsage()
	}

	cmd := os.Args[1]

	switch cmd {
	case "run":
		return runCommand(os.Args[2:])
	case "compile":
		return compileCommand(os.Args[2:])
	case "disasm":
		return disasmCommand(os.Args[2:])
	case "ir":
		return irCommand(os.Args[2:])
	case "decode":
		return decodeCommand(os.Args[2:])
	case "export":
		return exportCommand(os.Args[2:])
	case "extract":
		return extractCommand(os.Args[2:])
	case "repl":
		return replCommand(os.Args[2:])
	case "version":
		fmt.Printf("pimc version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Printf("  built:  %s\n", date)
		}
		return nil
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// parseArgs parses fs, allowing flags before, between and after
// positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// compileFlags are shared by every command that compiles.
type compileFlags struct {
	verbose *bool
	strict  *bool
	verify  *bool
	format  *string
}

func addCompileFlags(fs *flag.FlagSet) *compileFlags {
	return &compileFlags{
		verbose: fs.Bool("v", false, "verbose output (debug logging on stderr)"),
		strict:  fs.Bool("strict", false, "reject programs whose addresses exceed the 9-bit row field"),
		verify:  fs.Bool("verify", false, "check IR lifecycle before encoding"),
		format:  fs.String("format", "", "matrix file format (csv, json, parquet); default by extension"),
	}
}

func (f *compileFlags) logger() *slog.Logger {
	level := slog.LevelWarn
	if *f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (f *compileFlags) options() []embed.Option {
	copts := []compiler.Option{compiler.WithLogger(f.logger())}
	if *f.strict {
		copts = append(copts, compiler.WithStrictAddressing())
	}
	if *f.verify {
		copts = append(copts, compiler.WithVerify())
	}
	return []embed.Option{
		embed.WithCompilerOptions(copts...),
		embed.WithFormat(*f.format),
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cf := addCompileFlags(fs)

	paths, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(paths) < 1 || len(paths) > 2 {
		return fmt.Errorf("usage: pimc run <input.cpp> | <a.csv> <b.csv>")
	}

	fmt.Printf("Parsing matrices from %s...\n", strings.Join(paths, ", "))
	a, b, err := embed.LoadOperands(paths, cf.options()...)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed Matrix A: %dx%d\n", a.Rows(), a.Cols())
	fmt.Printf("Parsed Matrix B: %dx%d\n\n", b.Rows(), b.Cols())

	fmt.Println("Compiling matrix multiplication...")
	program, err := embed.Compile(a, b, cf.options()...)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d instructions (%d-bit format packed in uint32)\n\n", len(program.Code), isa.WordBits)

	listing.WriteTable(os.Stdout, program.Code)
	return nil
}

func compileCommand(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: input with .pimb extension)")
	cf := addCompileFlags(fs)

	paths, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(paths) < 1 || len(paths) > 2 {
		return fmt.Errorf("usage: pimc compile <input.cpp> | <a.csv> <b.csv> [-o output.pimb]")
	}

	outputPath := *output
	if outputPath == "" {
		ext := filepath.Ext(paths[0])
		outputPath = strings.TrimSuffix(paths[0], ext) + ".pimb"
	}

	if *cf.verbose {
		fmt.Printf("Compiling: %s -> %s\n", strings.Join(paths, ", "), outputPath)
	}

	program, err := embed.CompilePaths(paths, cf.options()...)
	if err != nil {
		return fmt.Errorf("compiling: %w", err)
	}

	bytecode, err := isa.SerializeProgram(program)
	if err != nil {
		return fmt.Errorf("serializing: %w", err)
	}

	if err := os.WriteFile(outputPath, bytecode, 0644); err != nil {
		return fmt.Errorf("writing bytecode: %w", err)
	}

	if *cf.verbose {
		fmt.Printf("Compiled %d instructions for %s\n", len(program.Code),
			ir.Dims{Rows: program.Rows, Inner: program.Inner, Cols: program.Cols})
		fmt.Printf("Output: %s (%d bytes)\n", outputPath, len(bytecode))
	} else {
		fmt.Printf("Compiled: %s\n", outputPath)
	}

	return nil
}

func disasmCommand(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: stdout)")
	table := fs.Bool("table", false, "print as an instruction table")

	paths, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(paths) != 1 {
		return fmt.Errorf("usage: pimc disasm <file.pimb> [-o output.txt]")
	}

	bytecode, err := os.ReadFile(paths[0])
	if err != nil {
		return fmt.Errorf("reading bytecode: %w", err)
	}

	program, err := isa.DeserializeProgram(bytecode)
	if err != nil {
		return fmt.Errorf("deserializing: %w", err)
	}

	var sb strings.Builder
	if *table {
		listing.WriteTable(&sb, program.Code)
	} else {
		sb.WriteString(isa.Disassemble(program))
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Disassembled to: %s\n", *output)
	} else {
		fmt.Print(sb.String())
	}

	return nil
}

func irCommand(args []string) error {
	fs := flag.NewFlagSet("ir", flag.ExitOnError)
	format := fs.String("format", "", "matrix file format (csv, json, parquet); default by extension")

	paths, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(paths) < 1 || len(paths) > 2 {
		return fmt.Errorf("usage: pimc ir <input.cpp> | <a.csv> <b.csv>")
	}

	a, b, err := embed.LoadOperands(paths, embed.WithFormat(*format))
	if err != nil {
		return err
	}

	ops, err := ir.Generate(a, b)
	if err != nil {
		return err
	}

	for i, op := range ops {
		fmt.Printf("%4d: %s\n", i, op)
	}
	return nil
}

func decodeCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pimc decode <hex>...")
	}

	for _, word := range args {
		instr, err := isa.ParseInstruction(word)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", instr.Hex(), instr)
	}
	return nil
}

func exportCommand(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: stdout)")
	to := fs.String("to", "csv", "export format: csv, json or parquet")
	cf := addCompileFlags(fs)

	paths, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(paths) < 1 || len(paths) > 2 {
		return fmt.Errorf("usage: pimc export <input.cpp> | <a.csv> <b.csv> [-to csv|json|parquet] [-o file]")
	}

	var export func(context.Context, io.Writer, []isa.Instruction) error
	switch *to {
	case "csv":
		export = listing.ExportCSV
	case "json":
		export = listing.ExportJSON
	case "parquet":
		export = listing.ExportParquet
	default:
		return fmt.Errorf("unknown export format: %s", *to)
	}

	program, err := embed.CompilePaths(paths, cf.options()...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *output == "" {
		if *to == "parquet" {
			return fmt.Errorf("parquet export needs an output file (-o)")
		}
		return export(ctx, os.Stdout, program.Code)
	}

	return loader.WriteFile(*output, func(w io.Writer) error {
		return export(ctx, w, program.Code)
	})
}

func extractCommand(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	dir := fs.String("dir", ".", "output directory")
	to := fs.String("to", "csv", "matrix file format: csv, json or parquet")

	paths, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(paths) != 1 {
		return fmt.Errorf("usage: pimc extract <input.cpp> [-to csv|json|parquet] [-dir out]")
	}

	a, b, err := loader.LoadSourceFile(paths[0])
	if err != nil {
		return err
	}

	for _, m := range []struct {
		name   string
		matrix ir.Matrix
	}{
		{loader.NameA, a},
		{loader.NameB, b},
	} {
		path := filepath.Join(*dir, m.name+"."+*to)
		if err := loader.SaveMatrix(path, m.matrix); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
		fmt.Printf("Wrote %s (%dx%d)\n", path, m.matrix.Rows(), m.matrix.Cols())
	}
	return nil
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	strict := fs.Bool("strict", false, "reject programs whose addresses exceed the 9-bit row field")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []compiler.Option
	if *strict {
		opts = append(opts, compiler.WithStrictAddressing())
	}

	r := repl.New(opts...)
	r.Start(os.Stdin, os.Stdout)
	return nil
}

func printUsage() error {
	fmt.Println(`pimc - compiles integer matrix multiplication to 19-bit PIM instructions

Usage:
  pimc <command> [arguments]

Inputs are either one source file defining matrix_a and matrix_b, or two
matrix files (CSV, JSON or Parquet), A first.

Commands:
  run <inputs>          Compile and print the instruction table
  compile <inputs>      Compile to an encoded program (.pimb)
  disasm <file.pimb>    Disassemble an encoded program
  ir <inputs>           Print the IR operation sequence
  decode <hex>...       Decode instruction words
  export <inputs>       Export decoded instructions as CSV, JSON or Parquet
  extract <input.cpp>   Write matrix_a and matrix_b to matrix files
  repl                  Start interactive REPL
  version               Print version information
  help                  Show this help message

Compile Options (run, compile, export):
  -v                    Verbose output (debug logging on stderr)
  -strict               Reject address overflow instead of masking
  -verify               Check IR lifecycle before encoding
  -format <fmt>         Matrix file format (default: by extension)

Compile Options:
  -o <file>             Output file (default: input with .pimb extension)

Disasm Options:
  -o <file>             Output file (default: stdout)
  -table                Print as an instruction table

Export Options:
  -to <fmt>             csv, json or parquet (default: csv)
  -o <file>             Output file (default: stdout; required for parquet)

Extract Options:
  -to <fmt>             csv, json or parquet (default: csv)
  -dir <dir>            Output directory (default: .)

REPL Options:
  -strict               Reject address overflow instead of masking

Examples:
  pimc run input_matrices.cpp
  pimc run a.csv b.csv
  pimc compile input_matrices.cpp -o program.pimb
  pimc disasm program.pimb
  pimc decode 0x40000 0x00c64
  pimc export input_matrices.cpp -to json
  pimc extract input_matrices.cpp -to parquet -dir data
  pimc repl`)
	return nil
}
