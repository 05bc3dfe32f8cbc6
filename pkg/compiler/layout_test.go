package compiler

import (
	"errors"
	"testing"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

func TestLayout_Addresses(t *testing.T) {
	d := ir.Dims{Rows: 3, Inner: 4, Cols: 5}
	l := DefaultLayout

	if got := l.AddrA(d, 2, 3); got != 2*4+3 {
		t.Errorf("AddrA: expected %d, got %d", 2*4+3, got)
	}
	if got := l.AddrB(d, 3, 4); got != 100+3*5+4 {
		t.Errorf("AddrB: expected %d, got %d", 100+3*5+4, got)
	}
	if got := l.AddrC(d, 2, 4); got != 200+2*5+4 {
		t.Errorf("AddrC: expected %d, got %d", 200+2*5+4, got)
	}
}

func TestLayout_MaxAddress(t *testing.T) {
	tests := []struct {
		d    ir.Dims
		want uint64
	}{
		{ir.Dims{Rows: 2, Inner: 2, Cols: 2}, 203},
		{ir.Dims{Rows: 10, Inner: 10, Cols: 10}, 299},
		{ir.Dims{Rows: 1, Inner: 1, Cols: 400}, 599},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := DefaultLayout.MaxAddress(tt.d); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLayout_Check(t *testing.T) {
	if err := DefaultLayout.Check(ir.Dims{Rows: 10, Inner: 10, Cols: 10}); err != nil {
		t.Errorf("expected 10x10 to fit, got %v", err)
	}

	err := DefaultLayout.Check(ir.Dims{Rows: 1, Inner: 101, Cols: 1})
	if !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("expected overlap error, got %v", err)
	}

	// Non-default layout with regions out of address order.
	l := Layout{A: 300, B: 0, C: 100}
	if err := l.Check(ir.Dims{Rows: 2, Inner: 2, Cols: 2}); err != nil {
		t.Errorf("expected reordered layout to fit, got %v", err)
	}
}
