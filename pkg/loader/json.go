package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// LoadJSON reads a matrix from a JSON file holding one object per row,
// either as JSON Lines or as a top-level array:
//
//	[{"c0": 1, "c1": 2}, {"c0": 3, "c1": 4}]
//
// Columns are ordered by key name, comparing trailing digits numerically.
// Keys missing from a row are rejected; keys absent from the first row
// are ignored.
func LoadJSON(path string) (ir.Matrix, error) {
	df, err := LoadJSONFrame(path)
	if err != nil {
		return nil, err
	}
	sortColumnsByName(df)
	return FromFrame(df)
}

// LoadJSONFrame reads JSON row objects into a DataFrame of string series.
func LoadJSONFrame(path string) (*dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	if data[0] == '[' {
		data, err = arrayToLines(data)
		if err != nil {
			return nil, err
		}
	}

	reader := bytes.NewReader(data)
	ctx := context.Background()

	df, err := imports.LoadFromJSON(ctx, reader)
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyFile
	}

	return df, nil
}

// arrayToLines rewrites a JSON array of objects as newline-separated
// objects, the layout the dataframe importer streams.
func arrayToLines(data []byte) ([]byte, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	var buf bytes.Buffer
	for i, row := range rows {
		row = bytes.TrimSpace(row)
		if len(row) == 0 || row[0] != '{' {
			return nil, fmt.Errorf("row %d: expected a JSON object", i)
		}
		buf.Write(row)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
