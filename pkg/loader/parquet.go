package loader

import (
	"context"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/xitongsys/parquet-go-source/local"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// LoadParquet reads a matrix from a Parquet file. Each integer column is
// a matrix column, ordered by column name.
func LoadParquet(path string) (ir.Matrix, error) {
	df, err := LoadParquetFrame(path)
	if err != nil {
		return nil, err
	}
	sortColumnsByName(df)
	return FromFrame(df)
}

// LoadParquetFrame reads a Parquet file into a DataFrame.
func LoadParquetFrame(path string) (*dataframe.DataFrame, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	ctx := context.Background()

	df, err := imports.LoadFromParquet(ctx, fr)
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyFile
	}

	return df, nil
}
