package compiler

import (
	"fmt"
	"sort"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
	"github.com/Nomnomaki/pim-compiler/pkg/isa"
)

// Base addresses of the three matrices in simulated PIM memory.
const (
	MatrixABase = 0
	MatrixBBase = 100
	MatrixCBase = 200
)

// Layout places A, B and C in the linear address space. Element (r, c) of
// a matrix lives at base + r*stride + c, where stride is its column count.
type Layout struct {
	A, B, C uint32
}

// DefaultLayout is the fixed A=0, B=100, C=200 placement.
var DefaultLayout = Layout{A: MatrixABase, B: MatrixBBase, C: MatrixCBase}

// Region is the half-open address range [Start, End) occupied by a matrix.
type Region struct {
	Name       string
	Start, End uint64
}

// AddrA returns the unmasked address of A[i][k].
func (l Layout) AddrA(d ir.Dims, i, k int) uint32 {
	return uint32(uint64(l.A) + uint64(i)*uint64(d.Inner) + uint64(k))
}

// AddrB returns the unmasked address of B[k][j].
func (l Layout) AddrB(d ir.Dims, k, j int) uint32 {
	return uint32(uint64(l.B) + uint64(k)*uint64(d.Cols) + uint64(j))
}

// AddrC returns the unmasked address of C[i][j].
func (l Layout) AddrC(d ir.Dims, i, j int) uint32 {
	return uint32(uint64(l.C) + uint64(i)*uint64(d.Cols) + uint64(j))
}

// Regions returns the address ranges of A, B and C for the given shape.
func (l Layout) Regions(d ir.Dims) []Region {
	return []Region{
		{Name: "A", Start: uint64(l.A), End: uint64(l.A) + uint64(d.Rows*d.Inner)},
		{Name: "B", Start: uint64(l.B), End: uint64(l.B) + uint64(d.Inner*d.Cols)},
		{Name: "C", Start: uint64(l.C), End: uint64(l.C) + uint64(d.Rows*d.Cols)},
	}
}

// MaxAddress returns the highest address any of the three matrices uses.
func (l Layout) MaxAddress(d ir.Dims) uint64 {
	var hi uint64
	for _, r := range l.Regions(d) {
		if r.End > r.Start && r.End-1 > hi {
			hi = r.End - 1
		}
	}
	return hi
}

// Check reports whether every address fits the 9-bit row field and the
// three regions are disjoint. Without it, addresses wrap silently.
func (l Layout) Check(d ir.Dims) error {
	regions := l.Regions(d)

	for _, r := range regions {
		if r.End > isa.AddressSpace {
			return fmt.Errorf("%w: matrix %s needs addresses [%d, %d), limit is %d",
				ErrAddressOverflow, r.Name, r.Start, r.End, isa.AddressSpace)
		}
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].Start < regions[j].Start })
	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		if cur.Start < prev.End {
			return fmt.Errorf("%w: matrix %s [%d, %d) overlaps matrix %s [%d, %d)",
				ErrAddressOverflow, prev.Name, prev.Start, prev.End, cur.Name, cur.Start, cur.End)
		}
	}

	return nil
}
