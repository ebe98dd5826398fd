package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

// loadParquet reads a parquet corpus snapshot with the same flat row schema
// as the JSON-lines format.
func loadParquet(path string) ([]domain.ClientRecord, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat corpus: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[row](pf)
	defer func() { _ = reader.Close() }()

	records := make([]domain.ClientRecord, 0, pf.NumRows())
	buf := make([]row, 1000)
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			records = append(records, buf[i].toRecord())
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}

	return records, nil
}
