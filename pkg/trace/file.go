package trace

import (
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// LoadCases reads a JSON array of cases. Files ending in .zst are
// decompressed first.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, err
		}
	}

	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	return cases, nil
}

// SaveCases writes cases as indented JSON, compressed if path ends in .zst.
func SaveCases(path string, cases []Case) error {
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	return os.WriteFile(path, data, 0644)
}
