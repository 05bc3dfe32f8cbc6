package isa

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Bytecode file format:
// - Magic: "PIMB" (4 bytes)
// - Version: uint16
// - Rows, Inner, Cols: uint32 each
// - NumInstructions: uint32
// - Instructions: []uint32

const (
	BytecodeMagic   = "PIMB"
	BytecodeVersion = 1
)

var (
	ErrInvalidMagic   = errors.New("invalid bytecode magic")
	ErrInvalidVersion = errors.New("unsupported bytecode version")
	ErrReservedBits   = errors.New("instruction has reserved bits set")
)

// Program is a compiled matrix multiplication: the shape it was compiled
// for and the instruction stream.
type Program struct {
	Rows  int // rows of A and C
	Inner int // cols of A, rows of B
	Cols  int // cols of B and C
	Code  []Instruction
}

// SerializeProgram serializes a Program to bytecode format.
func SerializeProgram(p *Program) ([]byte, error) {
	buf := new(bytes.Buffer)

	buf.WriteString(BytecodeMagic)

	if err := binary.Write(buf, binary.LittleEndian, uint16(BytecodeVersion)); err != nil {
		return nil, fmt.Errorf("writing version: %w", err)
	}

	dims := [3]uint32{uint32(p.Rows), uint32(p.Inner), uint32(p.Cols)}
	if err := binary.Write(buf, binary.LittleEndian, dims); err != nil {
		return nil, fmt.Errorf("writing dimensions: %w", err)
	}

	if err := binary.Write(buf, binary.LittleEndian, uint32(len(p.Code))); err != nil {
		return nil, fmt.Errorf("writing instruction count: %w", err)
	}
	for _, inst := range p.Code {
		if err := binary.Write(buf, binary.LittleEndian, uint32(inst)); err != nil {
			return nil, fmt.Errorf("writing instruction: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// DeserializeProgram deserializes bytecode to a Program.
func DeserializeProgram(data []byte) (*Program, error) {
	buf := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(buf, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != BytecodeMagic {
		return nil, ErrInvalidMagic
	}

	var version uint16
	if err := binary.Read(buf, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != BytecodeVersion {
		return nil, ErrInvalidVersion
	}

	var dims [3]uint32
	if err := binary.Read(buf, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("reading dimensions: %w", err)
	}

	var numInst uint32
	if err := binary.Read(buf, binary.LittleEndian, &numInst); err != nil {
		return nil, fmt.Errorf("reading instruction count: %w", err)
	}
	if int64(numInst)*4 > int64(buf.Len()) {
		return nil, fmt.Errorf("reading instructions: %w", io.ErrUnexpectedEOF)
	}
	code := make([]Instruction, numInst)
	for i := range code {
		var inst uint32
		if err := binary.Read(buf, binary.LittleEndian, &inst); err != nil {
			return nil, fmt.Errorf("reading instruction %d: %w", i, err)
		}
		code[i] = Instruction(inst)
	}

	return &Program{
		Rows:  int(dims[0]),
		Inner: int(dims[1]),
		Cols:  int(dims[2]),
		Code:  code,
	}, nil
}

// ParseInstruction parses a raw word written in hex, with or without a
// 0x prefix.
func ParseInstruction(s string) (Instruction, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q: %w", s, err)
	}
	if v>>WordBits != 0 {
		return 0, fmt.Errorf("%w: %08x", ErrReservedBits, v)
	}
	return Instruction(v), nil
}

// Disassemble renders a Program one instruction per line.
func Disassemble(p *Program) string {
	var buf bytes.Buffer

	buf.WriteString("; Disassembled from PIM bytecode\n")
	buf.WriteString(fmt.Sprintf("; A: %dx%d, B: %dx%d, %d instructions\n\n",
		p.Rows, p.Inner, p.Inner, p.Cols, len(p.Code)))

	for i, inst := range p.Code {
		buf.WriteString(fmt.Sprintf("%04d: %s\n", i, disassembleInstruction(inst)))
	}

	return buf.String()
}

func disassembleInstruction(inst Instruction) string {
	f := Unpack(inst)
	opName := f.Opcode.String()

	switch f.Opcode {
	case OpComputeSetup, OpComputeExec:
		return fmt.Sprintf("%-14s %-24s ; %s", opName, "", inst.Hex())

	case OpMemLoad:
		operands := fmt.Sprintf("buf%d, [%d]", f.CorePtr, f.RowAddr)
		return fmt.Sprintf("%-14s %-24s ; %s", opName, operands, inst.Hex())

	case OpMemStore:
		operands := fmt.Sprintf("[%d]", f.RowAddr)
		return fmt.Sprintf("%-14s %-24s ; %s", opName, operands, inst.Hex())

	default:
		return fmt.Sprintf("%-14s 0x%08X", opName, uint32(inst))
	}
}
