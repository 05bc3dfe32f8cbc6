package isa

// Opcode is the 2-bit operation class of an instruction word.
type Opcode uint8

const (
	OpMemLoad      Opcode = 0 // buffer[core_ptr] = mem[row_addr]
	OpMemStore     Opcode = 1 // mem[row_addr] = acc
	OpComputeSetup Opcode = 2 // acc = 0
	OpComputeExec  Opcode = 3 // acc += buffer0 * buffer1
)

// String returns the string representation of an opcode.
func (o Opcode) String() string {
	switch o {
	case OpMemLoad:
		return "MEM_LOAD"
	case OpMemStore:
		return "MEM_STORE"
	case OpComputeSetup:
		return "COMPUTE_SETUP"
	case OpComputeExec:
		return "COMPUTE_EXEC"
	default:
		return "UNKNOWN"
	}
}

// OpcodeFromString returns the opcode for the given string.
func OpcodeFromString(s string) (Opcode, bool) {
	switch s {
	case "MEM_LOAD":
		return OpMemLoad, true
	case "MEM_STORE":
		return OpMemStore, true
	case "COMPUTE_SETUP":
		return OpComputeSetup, true
	case "COMPUTE_EXEC":
		return OpComputeExec, true
	default:
		return 0, false
	}
}
