// Package ir defines the intermediate representation of a matrix
// multiplication: a flat sequence of accumulator, load and store operations
// over an implicit accumulator and two single-element staging buffers.
package ir

import (
	"errors"
	"fmt"
)

// Error definitions
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrLifecycle    = errors.New("accumulator lifecycle violated")
)

// Matrix is a rectangular grid of signed integers. The IR never reads or
// modifies element values; only the shape matters.
type Matrix [][]int64

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the width of the first row, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Empty reports whether the matrix has no rows or a zero-width first row.
func (m Matrix) Empty() bool {
	return m.Rows() == 0 || m.Cols() == 0
}

// Dims is the shape of C = A·B where A is Rows×Inner and B is Inner×Cols.
type Dims struct {
	Rows  int
	Inner int
	Cols  int
}

// Len returns the number of IR operations a program of this shape has.
func (d Dims) Len() int {
	return d.Rows * d.Cols * (3*d.Inner + 2)
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%d * %dx%d", d.Rows, d.Inner, d.Inner, d.Cols)
}

// Kind identifies the variant of an Operation.
type Kind uint8

const (
	KindResetAcc Kind = iota // acc = 0 before computing C[i][j]
	KindLoadA                // buffer <- A[i][k]
	KindLoadB                // buffer <- B[k][j]
	KindExecMAC              // acc += buffer0 * buffer1
	KindStoreC               // C[i][j] <- acc
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindResetAcc:
		return "RESET_ACC"
	case KindLoadA:
		return "LOAD_A"
	case KindLoadB:
		return "LOAD_B"
	case KindExecMAC:
		return "EXEC_MAC"
	case KindStoreC:
		return "STORE_C"
	default:
		return fmt.Sprintf("KIND(%d)", uint8(k))
	}
}

// Role selects which operand matrix a load reads from.
type Role uint8

const (
	RoleA Role = iota
	RoleB
)

// Operation is one IR step. Which payload fields are meaningful depends on
// Kind:
//
//	ResetAcc, StoreC: I, J
//	LoadA:            I, K, Buffer
//	LoadB:            K, J, Buffer
//	ExecMAC:          none
type Operation struct {
	Kind   Kind
	I      int   // row of A or C
	J      int   // column of B or C
	K      int   // inner index
	Buffer uint8 // staging buffer for loads (0 or 1)
}

// ResetAccumulator starts the computation of C[i][j].
func ResetAccumulator(i, j int) Operation {
	return Operation{Kind: KindResetAcc, I: i, J: j}
}

// LoadOperand loads A[rowOrK][kOrCol] (RoleA) or B[rowOrK][kOrCol] (RoleB)
// into the given buffer.
func LoadOperand(role Role, rowOrK, kOrCol int, buffer uint8) Operation {
	if role == RoleA {
		return Operation{Kind: KindLoadA, I: rowOrK, K: kOrCol, Buffer: buffer}
	}
	return Operation{Kind: KindLoadB, K: rowOrK, J: kOrCol, Buffer: buffer}
}

// ExecuteMultiplyAccumulate adds buffer0 * buffer1 to the accumulator.
func ExecuteMultiplyAccumulate() Operation {
	return Operation{Kind: KindExecMAC}
}

// StoreResult writes the accumulator to C[i][j].
func StoreResult(i, j int) Operation {
	return Operation{Kind: KindStoreC, I: i, J: j}
}

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op.Kind {
	case KindResetAcc:
		return fmt.Sprintf("%s C[%d][%d]", op.Kind, op.I, op.J)
	case KindLoadA:
		return fmt.Sprintf("%s A[%d][%d] -> buf%d", op.Kind, op.I, op.K, op.Buffer)
	case KindLoadB:
		return fmt.Sprintf("%s B[%d][%d] -> buf%d", op.Kind, op.K, op.J, op.Buffer)
	case KindExecMAC:
		return op.Kind.String()
	case KindStoreC:
		return fmt.Sprintf("%s C[%d][%d]", op.Kind, op.I, op.J)
	default:
		return op.Kind.String()
	}
}
