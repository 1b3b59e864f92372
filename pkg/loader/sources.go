// Package loader moves vector unit state in and out of tabular files.
//
// A seed frame has a "target" column naming a register ($v0-$v31 or
// v0-v31), an accumulator slice (acc.hi, acc.md, acc.lo), a control
// register (vco, vcc, vce) or a divider field (div.in, div.out, div.dp),
// followed by lane columns l0-l7. Control registers and divider fields
// take their value from l0.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/xitongsys/parquet-go-source/local"
)

// Error definitions
var (
	ErrEmptyFile         = errors.New("empty seed file")
	ErrUnsupportedFormat = errors.New("unsupported seed file format")
)

// LoadSeeds reads a seed frame, choosing the reader by file extension.
func LoadSeeds(path string) (*dataframe.DataFrame, error) {
	switch lowerExt(path) {
	case ".csv":
		return LoadCSV(path)
	case ".json", ".jsonl":
		return LoadJSON(path)
	case ".parquet":
		return LoadParquet(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadCSV reads a CSV seed file. The first row is the header.
func LoadCSV(path string) (*dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ctx := context.Background()
	df, err := imports.LoadFromCSV(ctx, file, imports.CSVLoadOptions{
		InferDataTypes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return nonEmpty(df)
}

// LoadJSON reads a JSON seed file of row objects.
func LoadJSON(path string) (*dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	ctx := context.Background()
	df, err := imports.LoadFromJSON(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return nonEmpty(df)
}

// LoadParquet reads a Parquet seed file.
func LoadParquet(path string) (*dataframe.DataFrame, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	ctx := context.Background()
	df, err := imports.LoadFromParquet(ctx, fr)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return nonEmpty(df)
}

func lowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func nonEmpty(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if df == nil || len(df.Series) == 0 || df.NRows() == 0 {
		return nil, ErrEmptyFile
	}
	return df, nil
}
