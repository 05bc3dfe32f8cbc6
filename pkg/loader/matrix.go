// Package loader reads operand matrices from source files and from
// tabular formats (CSV, JSON, Parquet) via dataframe-go.
package loader

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// Error definitions
var (
	ErrEmptyFile         = errors.New("empty file")
	ErrRaggedMatrix      = errors.New("matrix rows have different lengths")
	ErrNonInteger        = errors.New("matrix element is not an integer")
	ErrMatrixNotFound    = errors.New("matrix definition not found")
	ErrUnsupportedFormat = errors.New("unsupported matrix file format")
)

// LoadMatrix loads a single matrix, choosing the reader by file extension.
func LoadMatrix(path string) (ir.Matrix, error) {
	return LoadMatrixFormat(path, strings.TrimPrefix(filepath.Ext(path), "."))
}

// LoadMatrixFormat loads a single matrix with the named reader: csv, json
// or parquet.
func LoadMatrixFormat(path, format string) (ir.Matrix, error) {
	switch strings.ToLower(format) {
	case "csv":
		return LoadCSV(path)
	case "json", "jsonl":
		return LoadJSON(path)
	case "parquet":
		return LoadParquet(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// CheckRectangular verifies that every row has the length of the first.
func CheckRectangular(m ir.Matrix) error {
	for i, row := range m {
		if len(row) != len(m[0]) {
			return fmt.Errorf("%w: row 0 has %d elements, row %d has %d",
				ErrRaggedMatrix, len(m[0]), i, len(row))
		}
	}
	return nil
}

// FromFrame converts a DataFrame to a matrix: each series is a column,
// taken in frame order. Every cell must hold an integral value. A frame
// with columns but no rows is reported as ErrEmptyFile.
func FromFrame(df *dataframe.DataFrame) (ir.Matrix, error) {
	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyFile
	}

	nRows := df.NRows()
	if nRows == 0 {
		return nil, ErrEmptyFile
	}
	m := make(ir.Matrix, nRows)
	for r := range m {
		m[r] = make([]int64, len(df.Series))
	}

	for c, s := range df.Series {
		if s.NRows() != nRows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrRaggedMatrix, s.Name(), s.NRows(), nRows)
		}
		for r := 0; r < nRows; r++ {
			v, err := toInt64(s.Value(r))
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", r, s.Name(), err)
			}
			m[r][c] = v
		}
	}

	return m, nil
}

// sortColumnsByName reorders the frame's series by name, comparing any
// trailing digits numerically so that c2 sorts before c10.
func sortColumnsByName(df *dataframe.DataFrame) {
	sort.SliceStable(df.Series, func(i, j int) bool {
		pi, ni := splitTrailingNumber(df.Series[i].Name())
		pj, nj := splitTrailingNumber(df.Series[j].Name())
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})
}

func splitTrailingNumber(name string) (string, int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return name, -1
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return name, -1
	}
	return name[:i], n
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: null", ErrNonInteger)
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case *int64:
		if x == nil {
			return 0, fmt.Errorf("%w: null", ErrNonInteger)
		}
		return *x, nil
	case float64:
		return floatToInt64(x)
	case float32:
		return floatToInt64(float64(x))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonInteger, x)
		}
		return n, nil
	case interface{ Int64() (int64, error) }:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrNonInteger, x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrNonInteger, v, v)
	}
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v", ErrNonInteger, f)
	}
	return int64(f), nil
}
