package listing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Nomnomaki/pim-compiler/pkg/isa"
)

// One reset, two loads, one MAC and a store: C[0][0] for a 1x1 product.
var sample = []isa.Instruction{
	isa.Pack(isa.OpComputeSetup, 0, false, false, 0),
	isa.Pack(isa.OpMemLoad, 0, true, false, 0),
	isa.Pack(isa.OpMemLoad, 1, true, false, 100),
	isa.Pack(isa.OpComputeExec, 0, false, false, 0),
	isa.Pack(isa.OpMemStore, 0, false, true, 200),
}

func TestRows(t *testing.T) {
	rows := Rows(sample)

	if len(rows) != len(sample) {
		t.Fatalf("expected %d rows, got %d", len(sample), len(rows))
	}

	loadB := rows[2]
	if loadB.Idx != 2 || loadB.Opcode != isa.OpMemLoad || loadB.CorePtr != 1 ||
		!loadB.Rd || loadB.Wr || loadB.RowAddr != 100 || loadB.Hex != "00000c64" {
		t.Errorf("row 2: unexpected %+v", loadB)
	}

	store := rows[4]
	if !store.Wr || store.Rd || store.RowAddr != 200 || store.Hex != "000202c8" {
		t.Errorf("row 4: unexpected %+v", store)
	}
}

func TestRows_Empty(t *testing.T) {
	if rows := Rows(nil); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sample)
	out := buf.String()

	for _, want := range []string{"Idx", "Opcode", "CorePtr", "Row Addr", "PackedHex",
		"COMPUTE_SETUP", "COMPUTE_EXEC", "MEM_STORE", "00040000", "00060000", "000202c8"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}

	// Header, two rules and a border line around the body.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(sample)+4 {
		t.Errorf("expected %d lines, got %d:\n%s", len(sample)+4, len(lines), out)
	}
}

func TestFrame(t *testing.T) {
	df := Frame(sample)

	if df.NRows() != len(sample) {
		t.Fatalf("expected %d rows, got %d", len(sample), df.NRows())
	}

	names := df.Names()
	want := []string{"idx", "opcode", "core_ptr", "rd", "wr", "row_addr", "hex"}
	if len(names) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("column %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	if v := df.Series[3].Value(1); v != int64(1) {
		t.Errorf("expected rd[1] = 1, got %v", v)
	}
	if v := df.Series[1].Value(4); v != "MEM_STORE" {
		t.Errorf("expected opcode[4] = MEM_STORE, got %v", v)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(context.Background(), &buf, sample); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sample)+1 {
		t.Fatalf("expected %d lines, got %d", len(sample)+1, len(lines))
	}
	if lines[0] != "idx,opcode,core_ptr,rd,wr,row_addr,hex" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[3] != "2,MEM_LOAD,1,1,0,100,00000c64" {
		t.Errorf("unexpected row: %s", lines[3])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(context.Background(), &buf, sample); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sample) {
		t.Fatalf("expected %d lines, got %d", len(sample), len(lines))
	}
	if !strings.Contains(lines[0], `"opcode":"COMPUTE_SETUP"`) {
		t.Errorf("expected first object to carry the opcode, got %s", lines[0])
	}
	if !strings.Contains(lines[4], `"row_addr":200`) {
		t.Errorf("expected store address 200, got %s", lines[4])
	}
}

func TestExportParquet(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportParquet(context.Background(), &buf, sample); err != nil {
		t.Fatalf("ExportParquet failed: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("PAR1")) {
		t.Error("expected Parquet magic at start of output")
	}
}
