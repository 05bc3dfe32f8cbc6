package isa

import (
	"testing"
)

func TestPack_KnownWords(t *testing.T) {
	tests := []struct {
		name    string
		op      Opcode
		corePtr uint32
		rd, wr  bool
		addr    uint32
		want    Instruction
	}{
		{"ComputeSetup", OpComputeSetup, 0, false, false, 0, 0x00040000},
		{"ComputeExec", OpComputeExec, 0, false, false, 0, 0x00060000},
		{"LoadA", OpMemLoad, 0, true, false, 0, 0x00000400},
		{"LoadB", OpMemLoad, 1, true, false, 100, 0x00000C64},
		{"StoreC", OpMemStore, 0, false, true, 200, 0x000202C8},
		{"AllOnes", OpComputeExec, 63, true, true, 511, 0x0007FFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pack(tt.op, tt.corePtr, tt.rd, tt.wr, tt.addr)
			if got != tt.want {
				t.Errorf("expected 0x%08X, got 0x%08X", uint32(tt.want), uint32(got))
			}
		})
	}
}

func TestPack_RoundTripAllFields(t *testing.T) {
	for op := Opcode(0); op <= OpComputeExec; op++ {
		for ptr := uint32(0); ptr < 64; ptr++ {
			for _, rd := range []bool{false, true} {
				for _, wr := range []bool{false, true} {
					for addr := uint32(0); addr < AddressSpace; addr++ {
						want := Fields{Opcode: op, CorePtr: ptr, Rd: rd, Wr: wr, RowAddr: addr}
						got := Unpack(Pack(op, ptr, rd, wr, addr))
						if got != want {
							t.Fatalf("round trip: expected %+v, got %+v", want, got)
						}
					}
				}
			}
		}
	}
}

func TestPack_MasksOverflow(t *testing.T) {
	inst := Pack(OpMemLoad, 64+5, true, false, 512+17)

	if inst.CorePtr() != 5 {
		t.Errorf("expected core_ptr 5, got %d", inst.CorePtr())
	}
	if inst.RowAddr() != 17 {
		t.Errorf("expected row_addr 17, got %d", inst.RowAddr())
	}
	if inst.Opcode() != OpMemLoad {
		t.Errorf("overflow leaked into opcode: got %v", inst.Opcode())
	}
	if !inst.Rd() || inst.Wr() {
		t.Errorf("overflow leaked into flags: rd=%v wr=%v", inst.Rd(), inst.Wr())
	}
}

func TestPack_OpcodeMasked(t *testing.T) {
	inst := Pack(Opcode(0xFE), 0, false, false, 0)
	if inst.Opcode() != OpComputeSetup {
		t.Errorf("expected opcode masked to COMPUTE_SETUP, got %v", inst.Opcode())
	}
}

func TestPack_UpperBitsZero(t *testing.T) {
	inst := Pack(Opcode(0xFF), 0xFFFFFFFF, true, true, 0xFFFFFFFF)
	if uint32(inst)>>WordBits != 0 {
		t.Errorf("expected bits 31-19 clear, got 0x%08X", uint32(inst))
	}
}

func TestFields_Pack(t *testing.T) {
	f := Fields{Opcode: OpMemStore, CorePtr: 0, Wr: true, RowAddr: 203}
	if got := Unpack(f.Pack()); got != f {
		t.Errorf("expected %+v, got %+v", f, got)
	}
}

func TestInstruction_Hex(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{0, "00000000"},
		{Pack(OpComputeSetup, 0, false, false, 0), "00040000"},
		{Pack(OpMemStore, 0, false, true, 200), "000202c8"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.inst.Hex(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInstruction_String(t *testing.T) {
	inst := Pack(OpMemLoad, 1, true, false, 103)
	want := "MEM_LOAD core=1 rd=1 wr=0 addr=103"
	if got := inst.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		opcode   Opcode
		expected string
	}{
		{OpMemLoad, "MEM_LOAD"},
		{OpMemStore, "MEM_STORE"},
		{OpComputeSetup, "COMPUTE_SETUP"},
		{OpComputeExec, "COMPUTE_EXEC"},
		{Opcode(9), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.opcode.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestOpcodeFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Opcode
		ok       bool
	}{
		{"MEM_LOAD", OpMemLoad, true},
		{"MEM_STORE", OpMemStore, true},
		{"COMPUTE_SETUP", OpComputeSetup, true},
		{"COMPUTE_EXEC", OpComputeExec, true},
		{"mem_load", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := OpcodeFromString(tt.input)
			if ok != tt.ok {
				t.Errorf("ok: expected %v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("opcode: expected %v, got %v", tt.expected, got)
			}
		})
	}
}
