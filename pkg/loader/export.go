package loader

import (
	"context"
	"fmt"
	"os"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/xitongsys/parquet-go-source/local"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// ExportCSV writes a frame to path as CSV with a header row.
func ExportCSV(ctx context.Context, df *dataframe.DataFrame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := exports.ExportToCSV(ctx, file, df); err != nil {
		file.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return file.Close()
}

// ExportParquet writes a frame to path as Parquet.
func ExportParquet(ctx context.Context, df *dataframe.DataFrame, path string) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}

	if err := exports.ExportToParquet(ctx, fw, df); err != nil {
		fw.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return fw.Close()
}

// SaveState writes st to path as a seed frame. The format follows the
// file extension, as in LoadSeeds.
func SaveState(ctx context.Context, st vu.State, path string) error {
	df := StateFrame(st)
	switch lowerExt(path) {
	case ".csv":
		return ExportCSV(ctx, df, path)
	case ".parquet":
		return ExportParquet(ctx, df, path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
