// Package listings loads the price-tagged point dataset.
package listings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("listings: missing required column")

// Listing is one cleaned data point. Constructed only from rows that pass
// validation: positive price and non-zero coordinates (a zero coordinate is
// the dataset's missing-value sentinel).
type Listing struct {
	Price float64
	Lon   float64
	Lat   float64
}

// priceCleaner strips currency symbols and group separators so strings like
// "$1,250.00" parse as plain floats.
var priceCleaner = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "")

// Load reads a CSV dataset with a header row providing at least price,
// latitude and longitude columns (extra columns ignored, any order). Rows
// that fail validation are skipped silently; their total is debug-logged.
func Load(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	priceIdx, latIdx, lonIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))) {
		case "price":
			priceIdx = i
		case "latitude":
			latIdx = i
		case "longitude":
			lonIdx = i
		}
	}
	if priceIdx < 0 || latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("%w in %s: need price, latitude, longitude", ErrMissingColumn, path)
	}

	var out []Listing
	skipped := 0

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		l, ok := parseRow(row, priceIdx, latIdx, lonIdx)
		if !ok {
			skipped++
			continue
		}
		out = append(out, l)
	}

	log.Debug().
		Str("path", path).
		Int("accepted", len(out)).
		Int("skipped", skipped).
		Msg("Listings loaded")

	return out, nil
}

func parseRow(row []string, priceIdx, latIdx, lonIdx int) (Listing, bool) {
	maxIdx := max(priceIdx, max(latIdx, lonIdx))
	if len(row) <= maxIdx {
		return Listing{}, false
	}

	price, err := strconv.ParseFloat(priceCleaner.Replace(row[priceIdx]), 64)
	if err != nil || price <= 0 {
		return Listing{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
	if err != nil || lat == 0 {
		return Listing{}, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
	if err != nil || lon == 0 {
		return Listing{}, false
	}

	return Listing{Price: price, Lon: lon, Lat: lat}, true
}
