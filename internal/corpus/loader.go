// Package corpus loads reference corpus snapshots from disk. The snapshot
// format (JSON-lines or parquet, one flat row per historical client) is
// owned by this loader; the scoring core only ever sees ClientRecords.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

// row is the flat on-disk schema of one corpus record.
type row struct {
	ID              string  `json:"id" parquet:"id"`
	PostalCode      string  `json:"postal_code" parquet:"postal_code"`
	Brand           string  `json:"brand" parquet:"brand"`
	Model           string  `json:"model" parquet:"model"`
	MarketValue     float64 `json:"market_value" parquet:"market_value"`
	Category        string  `json:"category" parquet:"category"`
	FuelType        string  `json:"fuel_type" parquet:"fuel_type"`
	ManufactureYear int     `json:"manufacture_year" parquet:"manufacture_year"`
	ModelYear       int     `json:"model_year" parquet:"model_year"`
	Claims12M       int     `json:"claims_12m" parquet:"claims_12m"`
	Claims24M       int     `json:"claims_24m" parquet:"claims_24m"`
	TotalAmount12M  float64 `json:"total_amount_12m" parquet:"total_amount_12m"`
	AvgClaimAmount  float64 `json:"avg_claim_amount" parquet:"avg_claim_amount"`
	PredominantType string  `json:"predominant_type" parquet:"predominant_type,optional"`
	AnnualFrequency float64 `json:"annual_frequency" parquet:"annual_frequency"`
	DaysSinceLast   int     `json:"days_since_last_claim" parquet:"days_since_last_claim"`
}

func (r row) toRecord() domain.ClientRecord {
	return domain.ClientRecord{
		ID:       r.ID,
		Location: domain.Location{PostalCode: r.PostalCode},
		Vehicle: domain.Vehicle{
			Brand:           r.Brand,
			Model:           r.Model,
			MarketValue:     r.MarketValue,
			Category:        r.Category,
			FuelType:        r.FuelType,
			ManufactureYear: r.ManufactureYear,
			ModelYear:       r.ModelYear,
		},
		Claims: domain.ClaimHistory{
			Count12M:        r.Claims12M,
			Count24M:        r.Claims24M,
			TotalAmount12M:  r.TotalAmount12M,
			AvgAmount:       r.AvgClaimAmount,
			PredominantType: r.PredominantType,
			AnnualFrequency: r.AnnualFrequency,
			DaysSinceLast:   r.DaysSinceLast,
		},
	}.Normalized()
}

// Load reads a corpus snapshot, dispatching on the file extension
// (.jsonl/.ndjson vs .parquet). A malformed row aborts the load: corpus
// problems must surface at startup, before the index can be built.
func Load(path string) ([]domain.ClientRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return loadJSONL(path)
	case ".parquet":
		return loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q (want .jsonl, .ndjson or .parquet)", filepath.Ext(path))
	}
}

func loadJSONL(path string) ([]domain.ClientRecord, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []domain.ClientRecord

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var r row
		if err := json.Unmarshal([]byte(text), &r); err != nil {
			return nil, domain.NewVectorizationError(
				fmt.Sprintf("line %d", line), fmt.Errorf("decode corpus row: %w", err),
			)
		}
		records = append(records, r.toRecord())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	return records, nil
}
