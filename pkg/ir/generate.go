package ir

import "fmt"

// Buffers used by the generated loads.
const (
	BufferA uint8 = 0
	BufferB uint8 = 1
)

// DimsOf checks that a and b can be multiplied and returns the shape of
// the product.
func DimsOf(a, b Matrix) (Dims, error) {
	if a.Empty() {
		return Dims{}, fmt.Errorf("%w: matrix A is empty", ErrInvalidInput)
	}
	if b.Empty() {
		return Dims{}, fmt.Errorf("%w: matrix B is empty", ErrInvalidInput)
	}
	if a.Cols() != b.Rows() {
		return Dims{}, fmt.Errorf("%w: dimension mismatch: A is %dx%d, B is %dx%d",
			ErrInvalidInput, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	return Dims{Rows: a.Rows(), Inner: a.Cols(), Cols: b.Cols()}, nil
}

// Generate lowers C = A·B to IR. For every output element C[i][j], in
// row-major order, it emits one reset, K load-A/load-B/execute triples and
// one store, so accumulation windows never interleave.
func Generate(a, b Matrix) ([]Operation, error) {
	dims, err := DimsOf(a, b)
	if err != nil {
		return nil, err
	}
	return GenerateDims(dims), nil
}

// GenerateDims emits the IR for an already validated shape.
func GenerateDims(d Dims) []Operation {
	ops := make([]Operation, 0, d.Len())

	for i := 0; i < d.Rows; i++ {
		for j := 0; j < d.Cols; j++ {
			ops = append(ops, ResetAccumulator(i, j))
			for k := 0; k < d.Inner; k++ {
				ops = append(ops,
					LoadOperand(RoleA, i, k, BufferA),
					LoadOperand(RoleB, k, j, BufferB),
					ExecuteMultiplyAccumulate(),
				)
			}
			ops = append(ops, StoreResult(i, j))
		}
	}

	return ops
}
