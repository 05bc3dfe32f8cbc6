// Package compiler lowers a matrix multiplication to PIM instruction words:
// it generates the IR and translates each operation to one packed word.
package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
	"github.com/Nomnomaki/pim-compiler/pkg/isa"
)

// ErrAddressOverflow is returned in strict mode when a matrix does not fit
// the 9-bit address space or two matrices share addresses.
var ErrAddressOverflow = errors.New("address space overflow")

// Compiler translates IR to instruction words.
type Compiler struct {
	logger *slog.Logger
	layout Layout
	strict bool
	verify bool
}

// Option is a functional option for the Compiler.
type Option func(*Compiler)

// WithLogger sets the logger that receives translation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLayout overrides the matrix base addresses.
func WithLayout(l Layout) Option {
	return func(c *Compiler) {
		c.layout = l
	}
}

// WithStrictAddressing rejects shapes whose addresses would be truncated
// or aliased instead of masking them.
func WithStrictAddressing() Option {
	return func(c *Compiler) {
		c.strict = true
	}
}

// WithVerify checks the generated IR before it is translated.
func WithVerify() Option {
	return func(c *Compiler) {
		c.verify = true
	}
}

// New creates a new Compiler with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger: slog.Default(),
		layout: DefaultLayout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile compiles C = A·B to a program.
func Compile(a, b ir.Matrix, opts ...Option) (*isa.Program, error) {
	return New(opts...).Compile(a, b)
}

// Translate translates IR to instruction words with a default Compiler.
func Translate(ops []ir.Operation, dims ir.Dims, opts ...Option) []isa.Instruction {
	return New(opts...).Translate(ops, dims)
}

// Compile generates the IR for A·B and translates it.
func (c *Compiler) Compile(a, b ir.Matrix) (*isa.Program, error) {
	dims, err := ir.DimsOf(a, b)
	if err != nil {
		return nil, err
	}

	if c.strict {
		if err := c.layout.Check(dims); err != nil {
			return nil, err
		}
	}

	ops := ir.GenerateDims(dims)
	if c.verify {
		if err := ir.Verify(ops, dims); err != nil {
			return nil, fmt.Errorf("verifying IR: %w", err)
		}
	}

	code := c.Translate(ops, dims)
	c.logger.Debug("compiled matrix multiplication",
		"dims", dims.String(),
		"ir_ops", len(ops),
		"instructions", len(code),
		"max_addr", c.layout.MaxAddress(dims))

	return &isa.Program{
		Rows:  dims.Rows,
		Inner: dims.Inner,
		Cols:  dims.Cols,
		Code:  code,
	}, nil
}

// Translate maps each IR operation to one instruction word. Operations of
// an unrecognized kind are logged and skipped.
func (c *Compiler) Translate(ops []ir.Operation, dims ir.Dims) []isa.Instruction {
	code := make([]isa.Instruction, 0, len(ops))

	for idx, op := range ops {
		inst, ok := c.translateOperation(op, dims)
		if !ok {
			c.logger.Warn("skipping unrecognized IR operation",
				"index", idx,
				"kind", uint8(op.Kind))
			continue
		}
		code = append(code, inst)
	}

	return code
}

func (c *Compiler) translateOperation(op ir.Operation, d ir.Dims) (isa.Instruction, bool) {
	switch op.Kind {
	case ir.KindResetAcc:
		return isa.Pack(isa.OpComputeSetup, 0, false, false, 0), true

	case ir.KindLoadA:
		return isa.Pack(isa.OpMemLoad, uint32(op.Buffer), true, false, c.layout.AddrA(d, op.I, op.K)), true

	case ir.KindLoadB:
		return isa.Pack(isa.OpMemLoad, uint32(op.Buffer), true, false, c.layout.AddrB(d, op.K, op.J)), true

	case ir.KindExecMAC:
		return isa.Pack(isa.OpComputeExec, 0, false, false, 0), true

	case ir.KindStoreC:
		return isa.Pack(isa.OpMemStore, 0, false, true, c.layout.AddrC(d, op.I, op.J)), true

	default:
		return 0, false
	}
}
