package loader

import (
	"context"
	"os"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// LoadCSV reads a matrix from a CSV file.
// - First row is a header (column names); it is not part of the matrix
// - Columns are taken in file order
// - Every cell must be an integer; empty cells are rejected
func LoadCSV(path string) (ir.Matrix, error) {
	df, err := LoadCSVFrame(path)
	if err != nil {
		return nil, err
	}
	return FromFrame(df)
}

// LoadCSVFrame reads a CSV file into a DataFrame with inferred types.
func LoadCSVFrame(path string) (*dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	ctx := context.Background()
	df, err := imports.LoadFromCSV(ctx, file, imports.CSVLoadOptions{
		InferDataTypes:   true,
		TrimLeadingSpace: true,
	})
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyFile
	}

	return df, nil
}
