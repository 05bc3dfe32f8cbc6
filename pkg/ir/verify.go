package ir

import "fmt"

// Verify checks that ops is a well-formed program for the given shape:
// every output element C[i][j] is computed exactly once, by a reset, K
// load-A/load-B/execute triples with k ascending, and a store, and no two
// accumulation windows overlap.
func Verify(ops []Operation, d Dims) error {
	seen := make(map[[2]int]bool, d.Rows*d.Cols)

	pos := 0
	next := func() (Operation, int, bool) {
		if pos >= len(ops) {
			return Operation{}, pos, false
		}
		pos++
		return ops[pos-1], pos - 1, true
	}
	fail := func(idx int, op Operation, format string, args ...any) error {
		return fmt.Errorf("%w: op %d (%s): %s", ErrLifecycle, idx, op, fmt.Sprintf(format, args...))
	}

	for pos < len(ops) {
		op, idx, _ := next()
		if op.Kind != KindResetAcc {
			return fail(idx, op, "expected %s", KindResetAcc)
		}
		i, j := op.I, op.J
		if i < 0 || i >= d.Rows || j < 0 || j >= d.Cols {
			return fail(idx, op, "C[%d][%d] outside %dx%d", i, j, d.Rows, d.Cols)
		}
		if seen[[2]int{i, j}] {
			return fail(idx, op, "C[%d][%d] computed twice", i, j)
		}
		seen[[2]int{i, j}] = true

		for k := 0; k < d.Inner; k++ {
			loadA, idx, ok := next()
			if !ok {
				return fmt.Errorf("%w: window for C[%d][%d] ends after %d of %d steps", ErrLifecycle, i, j, k, d.Inner)
			}
			if loadA.Kind != KindLoadA || loadA.I != i || loadA.K != k {
				return fail(idx, loadA, "expected %s A[%d][%d]", KindLoadA, i, k)
			}

			loadB, idx, ok := next()
			if !ok {
				return fmt.Errorf("%w: window for C[%d][%d] ends inside step %d", ErrLifecycle, i, j, k)
			}
			if loadB.Kind != KindLoadB || loadB.K != k || loadB.J != j {
				return fail(idx, loadB, "expected %s B[%d][%d]", KindLoadB, k, j)
			}
			if loadA.Buffer == loadB.Buffer {
				return fail(idx, loadB, "both operands staged in buf%d", loadB.Buffer)
			}

			exec, idx, ok := next()
			if !ok {
				return fmt.Errorf("%w: window for C[%d][%d] ends inside step %d", ErrLifecycle, i, j, k)
			}
			if exec.Kind != KindExecMAC {
				return fail(idx, exec, "expected %s", KindExecMAC)
			}
		}

		store, idx, ok := next()
		if !ok {
			return fmt.Errorf("%w: window for C[%d][%d] is never stored", ErrLifecycle, i, j)
		}
		if store.Kind != KindStoreC || store.I != i || store.J != j {
			return fail(idx, store, "expected %s C[%d][%d]", KindStoreC, i, j)
		}
	}

	if want := d.Rows * d.Cols; len(seen) != want {
		return fmt.Errorf("%w: %d of %d output elements computed", ErrLifecycle, len(seen), want)
	}
	return nil
}
