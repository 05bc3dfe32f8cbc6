// Package testutil provides testing utilities for PIM compiler tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// TempFile creates a temporary file with the given content and extension.
// The file is automatically cleaned up when the test finishes.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	return TempNamed(t, "test"+ext, content)
}

// TempNamed creates a temporary file with the given base name.
func TempNamed(t *testing.T, name, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// TempSource writes a matrix source file and returns its path.
func TempSource(t *testing.T, content string) string {
	t.Helper()
	return TempFile(t, content, ".cpp")
}

// SquareSource returns source text defining the 2x2 operands used across
// tests: A = {{1,2},{3,4}}, B = {{5,6},{7,8}}.
func SquareSource() string {
	return `#include <vector>

std::vector<std::vector<int>> matrix_a = {{1, 2}, {3, 4}};
std::vector<std::vector<int>> matrix_b = {{5, 6}, {7, 8}};
`
}

// SquareA returns the left operand of SquareSource.
func SquareA() ir.Matrix {
	return ir.Matrix{{1, 2}, {3, 4}}
}

// SquareB returns the right operand of SquareSource.
func SquareB() ir.Matrix {
	return ir.Matrix{{5, 6}, {7, 8}}
}

// SquareACSV returns SquareA as CSV with a header row.
func SquareACSV() string {
	return `c0,c1
1,2
3,4`
}

// SquareBCSV returns SquareB as CSV with a header row.
func SquareBCSV() string {
	return `c0,c1
5,6
7,8`
}

// AssertMatrixEqual reports a diff when two matrices differ in shape or
// values.
func AssertMatrixEqual(t *testing.T, expected, actual ir.Matrix) {
	t.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("matrix mismatch (-expected +got):\n%s", diff)
	}
}
