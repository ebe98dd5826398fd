package domain

import (
	"strings"
	"time"
)

// PostalCodeLen is the fixed length of a normalized postal code (CEP).
const PostalCodeLen = 8

// RegionPrefixLen is the number of leading postal digits that identify a region.
const RegionPrefixLen = 5

// Enumerated vehicle categories. Unknown values one-hot encode to all zeros.
var VehicleCategories = []string{"Passeio", "SUV", "Pickup", "Moto", "Caminhão"}

// Enumerated fuel types. Unknown values one-hot encode to all zeros.
var FuelTypes = []string{"Flex", "Gasolina", "Diesel", "Elétrico", "Híbrido"}

// ClientRecord is one applicant/vehicle record, the unit of scoring.
type ClientRecord struct {
	ID       string       `json:"id"`
	Location Location     `json:"location"`
	Vehicle  Vehicle      `json:"vehicle"`
	Claims   ClaimHistory `json:"claims"`
}

// Location holds the applicant's postal code.
type Location struct {
	PostalCode string `json:"postal_code"`
}

// Vehicle holds the insured vehicle attributes.
type Vehicle struct {
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	MarketValue     float64 `json:"market_value"`
	Category        string  `json:"category"`
	FuelType        string  `json:"fuel_type"`
	ManufactureYear int     `json:"manufacture_year"`
	ModelYear       int     `json:"model_year"`
}

// ClaimHistory holds the applicant's claim track record.
type ClaimHistory struct {
	Count12M        int     `json:"count_12m"`
	Count24M        int     `json:"count_24m"`
	TotalAmount12M  float64 `json:"total_amount_12m"`
	AvgAmount       float64 `json:"avg_amount"`
	PredominantType string  `json:"predominant_type"`
	AnnualFrequency float64 `json:"annual_frequency"`
	DaysSinceLast   int     `json:"days_since_last"`
}

// Normalized returns a deterministic canonical copy of the record.
// Postal code is digit-only, truncated/zero-padded to PostalCodeLen;
// monetary fields and counts are clamped to >= 0; missing years default
// to the current year; missing days-since-last-claim defaults to 365.
// Cache keys and corpus vectors are computed over normalized records only.
func (r ClientRecord) Normalized() ClientRecord {
	out := r
	out.Location.PostalCode = NormalizePostalCode(r.Location.PostalCode)
	out.Vehicle.Brand = strings.TrimSpace(r.Vehicle.Brand)
	out.Vehicle.Model = strings.TrimSpace(r.Vehicle.Model)
	out.Vehicle.MarketValue = max(0, r.Vehicle.MarketValue)

	year := time.Now().Year()
	if out.Vehicle.ManufactureYear <= 0 {
		out.Vehicle.ManufactureYear = year
	}
	if out.Vehicle.ModelYear <= 0 {
		out.Vehicle.ModelYear = out.Vehicle.ManufactureYear
	}

	out.Claims.Count12M = max(0, r.Claims.Count12M)
	out.Claims.Count24M = max(0, r.Claims.Count24M)
	out.Claims.TotalAmount12M = max(0, r.Claims.TotalAmount12M)
	out.Claims.AvgAmount = max(0, r.Claims.AvgAmount)
	out.Claims.AnnualFrequency = max(0, r.Claims.AnnualFrequency)
	if out.Claims.DaysSinceLast <= 0 {
		out.Claims.DaysSinceLast = 365
	}
	return out
}

// RegionPrefix returns the leading RegionPrefixLen digits of the postal code.
func (r ClientRecord) RegionPrefix() string {
	return NormalizePostalCode(r.Location.PostalCode)[:RegionPrefixLen]
}

// HasClaims reports whether the record saw any claim in the last 12 months.
func (r ClientRecord) HasClaims() bool {
	return r.Claims.Count12M > 0
}

// NormalizePostalCode reduces a postal code to exactly PostalCodeLen digits.
// Non-digits are stripped, the remainder is truncated and right-padded with
// zeros. Malformed input is never rejected, only canonicalized.
func NormalizePostalCode(cep string) string {
	var b strings.Builder
	b.Grow(PostalCodeLen)
	for _, c := range cep {
		if c >= '0' && c <= '9' {
			b.WriteByte(byte(c))
			if b.Len() == PostalCodeLen {
				break
			}
		}
	}
	out := b.String()
	if len(out) < PostalCodeLen {
		out += strings.Repeat("0", PostalCodeLen-len(out))
	}
	return out
}
