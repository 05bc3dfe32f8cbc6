package isa

import (
	"errors"
	"strings"
	"testing"
)

func sampleProgram() *Program {
	return &Program{
		Rows:  1,
		Inner: 1,
		Cols:  1,
		Code: []Instruction{
			Pack(OpComputeSetup, 0, false, false, 0),
			Pack(OpMemLoad, 0, true, false, 0),
			Pack(OpMemLoad, 1, true, false, 100),
			Pack(OpComputeExec, 0, false, false, 0),
			Pack(OpMemStore, 0, false, true, 200),
		},
	}
}

func TestSerializeDeserialize_Simple(t *testing.T) {
	program := sampleProgram()

	data, err := SerializeProgram(program)
	if err != nil {
		t.Fatalf("SerializeProgram failed: %v", err)
	}

	if string(data[:4]) != BytecodeMagic {
		t.Errorf("expected magic %q, got %q", BytecodeMagic, string(data[:4]))
	}
	// magic + version + dims + count + words
	if want := 4 + 2 + 12 + 4 + 4*len(program.Code); len(data) != want {
		t.Errorf("expected %d bytes, got %d", want, len(data))
	}

	restored, err := DeserializeProgram(data)
	if err != nil {
		t.Fatalf("DeserializeProgram failed: %v", err)
	}

	if restored.Rows != 1 || restored.Inner != 1 || restored.Cols != 1 {
		t.Errorf("expected dims 1x1x1, got %dx%dx%d", restored.Rows, restored.Inner, restored.Cols)
	}
	if len(restored.Code) != len(program.Code) {
		t.Fatalf("expected %d instructions, got %d", len(program.Code), len(restored.Code))
	}
	for i, inst := range program.Code {
		if restored.Code[i] != inst {
			t.Errorf("instruction %d: expected %s, got %s", i, inst.Hex(), restored.Code[i].Hex())
		}
	}
}

func TestSerializeDeserialize_EmptyProgram(t *testing.T) {
	program := &Program{Code: []Instruction{}}

	data, err := SerializeProgram(program)
	if err != nil {
		t.Fatalf("SerializeProgram failed: %v", err)
	}

	restored, err := DeserializeProgram(data)
	if err != nil {
		t.Fatalf("DeserializeProgram failed: %v", err)
	}

	if len(restored.Code) != 0 {
		t.Errorf("expected 0 instructions, got %d", len(restored.Code))
	}
}

func TestDeserialize_InvalidMagic(t *testing.T) {
	data := []byte("BAAD" + "\x01\x00")
	_, err := DeserializeProgram(data)
	if err != ErrInvalidMagic {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestDeserialize_InvalidVersion(t *testing.T) {
	data := []byte("PIMB" + "\xFF\x00")
	_, err := DeserializeProgram(data)
	if err != ErrInvalidVersion {
		t.Errorf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestDeserialize_TruncatedData(t *testing.T) {
	data, err := SerializeProgram(sampleProgram())
	if err != nil {
		t.Fatalf("SerializeProgram failed: %v", err)
	}

	for _, n := range []int{4, 6, 10, 22, len(data) - 1} {
		if _, err := DeserializeProgram(data[:n]); err == nil {
			t.Errorf("expected error for data truncated to %d bytes", n)
		}
	}
}

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		input string
		want  Instruction
	}{
		{"00040000", Pack(OpComputeSetup, 0, false, false, 0)},
		{"0x000202c8", Pack(OpMemStore, 0, false, true, 200)},
		{"0X00000C64", Pack(OpMemLoad, 1, true, false, 100)},
		{" 400 ", Pack(OpMemLoad, 0, true, false, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInstruction(tt.input)
			if err != nil {
				t.Fatalf("ParseInstruction failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want.Hex(), got.Hex())
			}
		})
	}
}

func TestParseInstruction_Errors(t *testing.T) {
	if _, err := ParseInstruction("zz"); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := ParseInstruction("100000000"); err == nil {
		t.Error("expected error for word wider than 32 bits")
	}
	_, err := ParseInstruction("00080000")
	if !errors.Is(err, ErrReservedBits) {
		t.Errorf("expected ErrReservedBits, got %v", err)
	}
}

func TestDisassemble(t *testing.T) {
	asm := Disassemble(sampleProgram())

	for _, want := range []string{
		"A: 1x1, B: 1x1, 5 instructions",
		"0000: COMPUTE_SETUP",
		"0001: MEM_LOAD       buf0, [0]",
		"0002: MEM_LOAD       buf1, [100]",
		"0003: COMPUTE_EXEC",
		"0004: MEM_STORE      [200]",
		"; 000202c8",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected disassembly to contain %q, got:\n%s", want, asm)
		}
	}
}
