// Package listing renders encoded instruction streams for people and for
// downstream tools: an aligned table, and CSV, JSON Lines or Parquet via a
// DataFrame.
package listing

import (
	"context"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"

	"github.com/Nomnomaki/pim-compiler/pkg/isa"
)

// Row is one decoded instruction word.
type Row struct {
	Idx     int
	Opcode  isa.Opcode
	CorePtr uint32
	Rd      bool
	Wr      bool
	RowAddr uint32
	Hex     string
}

// Header names the table columns.
var Header = []string{"Idx", "Opcode", "CorePtr", "Rd", "Wr", "Row Addr", "PackedHex"}

// Rows decodes every word of code.
func Rows(code []isa.Instruction) []Row {
	rows := make([]Row, len(code))
	for i, instr := range code {
		f := isa.Unpack(instr)
		rows[i] = Row{
			Idx:     i,
			Opcode:  f.Opcode,
			CorePtr: f.CorePtr,
			Rd:      f.Rd,
			Wr:      f.Wr,
			RowAddr: f.RowAddr,
			Hex:     instr.Hex(),
		}
	}
	return rows
}

// WriteTable writes code as an aligned table: index and mnemonic on the
// left, numeric fields right-aligned.
func WriteTable(w io.Writer, code []isa.Instruction) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, r := range Rows(code) {
		table.Append([]string{
			strconv.Itoa(r.Idx),
			r.Opcode.String(),
			strconv.FormatUint(uint64(r.CorePtr), 10),
			bit(r.Rd),
			bit(r.Wr),
			strconv.FormatUint(uint64(r.RowAddr), 10),
			r.Hex,
		})
	}

	table.Render()
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Frame returns the decoded rows as a DataFrame with columns idx, opcode,
// core_ptr, rd, wr, row_addr and hex.
func Frame(code []isa.Instruction) *dataframe.DataFrame {
	n := len(code)
	idx := make([]interface{}, n)
	ops := make([]interface{}, n)
	cores := make([]interface{}, n)
	rds := make([]interface{}, n)
	wrs := make([]interface{}, n)
	addrs := make([]interface{}, n)
	hexes := make([]interface{}, n)

	for i, r := range Rows(code) {
		idx[i] = int64(r.Idx)
		ops[i] = r.Opcode.String()
		cores[i] = int64(r.CorePtr)
		rds[i] = r.Rd
		wrs[i] = r.Wr
		addrs[i] = int64(r.RowAddr)
		hexes[i] = r.Hex
	}

	return dataframe.NewDataFrame(
		dataframe.NewSeriesInt64("idx", nil, idx...),
		dataframe.NewSeriesString("opcode", nil, ops...),
		dataframe.NewSeriesInt64("core_ptr", nil, cores...),
		dataframe.NewSeriesInt64("rd", nil, rds...),
		dataframe.NewSeriesInt64("wr", nil, wrs...),
		dataframe.NewSeriesInt64("row_addr", nil, addrs...),
		dataframe.NewSeriesString("hex", nil, hexes...),
	)
}

// ExportCSV writes the decoded rows as CSV with a header line.
func ExportCSV(ctx context.Context, w io.Writer, code []isa.Instruction) error {
	return exports.ExportToCSV(ctx, w, Frame(code))
}

// ExportJSON writes one JSON object per decoded row.
func ExportJSON(ctx context.Context, w io.Writer, code []isa.Instruction) error {
	return exports.ExportToJSON(ctx, w, Frame(code))
}

// ExportParquet writes the decoded rows as a Parquet file.
func ExportParquet(ctx context.Context, w io.Writer, code []isa.Instruction) error {
	return exports.ExportToParquet(ctx, w, Frame(code))
}
