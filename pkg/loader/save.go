package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/xitongsys/parquet-go/parquet"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// ToFrame converts a matrix to a DataFrame with one int64 series per
// column, named c0, c1, ... The matrix must be non-empty and rectangular.
func ToFrame(m ir.Matrix) (*dataframe.DataFrame, error) {
	if m.Empty() {
		return nil, ErrEmptyFile
	}
	if err := CheckRectangular(m); err != nil {
		return nil, err
	}

	series := make([]dataframe.Series, m.Cols())
	for c := range series {
		vals := make([]interface{}, len(m))
		for r := range m {
			vals[r] = m[r][c]
		}
		series[c] = dataframe.NewSeriesInt64("c"+strconv.Itoa(c), nil, vals...)
	}
	return dataframe.NewDataFrame(series...), nil
}

// SaveMatrix writes m to path in the format named by its extension, in a
// layout LoadMatrix reads back.
func SaveMatrix(path string, m ir.Matrix) error {
	df, err := ToFrame(m)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var write func(io.Writer) error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = func(w io.Writer) error { return exports.ExportToCSV(ctx, w, df) }
	case ".json":
		write = func(w io.Writer) error { return exports.ExportToJSON(ctx, w, df) }
	case ".parquet":
		codec := parquet.CompressionCodec_SNAPPY
		write = func(w io.Writer) error {
			return exports.ExportToParquet(ctx, w, df, exports.ParquetExportOptions{
				CompressionType: &codec,
			})
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return WriteFile(path, write)
}

// WriteFile creates path and fills it with write. If write or the final
// close fails, the partial file is removed.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
