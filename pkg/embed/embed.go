// Package embed provides the Go embedding API for the PIM compiler.
//
// Pass matrices, source text or file paths, get an encoded program.
//
// Basic usage:
//
//	program, err := embed.CompileSource(`
//	    std::vector<std::vector<int>> matrix_a = {{1, 2}, {3, 4}};
//	    std::vector<std::vector<int>> matrix_b = {{5, 6}, {7, 8}};
//	`)
//
// From two matrix files, with compiler options:
//
//	program, err := embed.CompileFiles("a.csv", "b.parquet",
//	    embed.WithCompilerOptions(compiler.WithStrictAddressing()),
//	)
package embed

import (
	"errors"
	"fmt"

	"github.com/Nomnomaki/pim-compiler/pkg/compiler"
	"github.com/Nomnomaki/pim-compiler/pkg/ir"
	"github.com/Nomnomaki/pim-compiler/pkg/isa"
	"github.com/Nomnomaki/pim-compiler/pkg/loader"
)

// Common errors
var (
	ErrInputCount = errors.New("expected one source file or two matrix files")
)

// Options configures how inputs are read and compiled.
type Options struct {
	// Compiler holds options passed through to the encoder.
	Compiler []compiler.Option

	// Format forces the reader used for matrix files (csv, json, parquet).
	// Empty means choose by file extension.
	Format string
}

// Option is a functional option for configuring compilation.
type Option func(*Options)

// WithCompilerOptions appends encoder options.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(o *Options) {
		o.Compiler = append(o.Compiler, opts...)
	}
}

// WithFormat forces the matrix file reader.
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

func buildOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Compile encodes the product of two in-memory matrices.
func Compile(a, b ir.Matrix, opts ...Option) (*isa.Program, error) {
	options := buildOptions(opts)
	return compiler.Compile(a, b, options.Compiler...)
}

// CompileSource parses matrix_a and matrix_b from source text and
// encodes their product.
func CompileSource(src string, opts ...Option) (*isa.Program, error) {
	a, b, err := loader.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return Compile(a, b, opts...)
}

// CompileFile reads a source file and encodes the product it defines.
func CompileFile(path string, opts ...Option) (*isa.Program, error) {
	return CompilePaths([]string{path}, opts...)
}

// CompileFiles reads each operand from its own matrix file.
func CompileFiles(pathA, pathB string, opts ...Option) (*isa.Program, error) {
	return CompilePaths([]string{pathA, pathB}, opts...)
}

// CompilePaths accepts either form: one source file or two matrix files.
func CompilePaths(paths []string, opts ...Option) (*isa.Program, error) {
	a, b, err := LoadOperands(paths, opts...)
	if err != nil {
		return nil, err
	}
	return Compile(a, b, opts...)
}

// LoadOperands reads both operands without compiling them.
func LoadOperands(paths []string, opts ...Option) (a, b ir.Matrix, err error) {
	options := buildOptions(opts)

	switch len(paths) {
	case 1:
		return loader.LoadSourceFile(paths[0])
	case 2:
		a, err = loadMatrix(paths[0], options.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("matrix A: %w", err)
		}
		b, err = loadMatrix(paths[1], options.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("matrix B: %w", err)
		}
		return a, b, nil
	default:
		return nil, nil, fmt.Errorf("%w: got %d", ErrInputCount, len(paths))
	}
}

func loadMatrix(path, format string) (ir.Matrix, error) {
	if format == "" {
		return loader.LoadMatrix(path)
	}
	return loader.LoadMatrixFormat(path, format)
}
