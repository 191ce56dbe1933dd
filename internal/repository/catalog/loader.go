// Package catalog loads the head-office reference catalog from CSV.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/listcheck/internal/domain"
	domcat "github.com/kailas-cloud/listcheck/internal/domain/catalog"
)

// Expected header columns. Matching is case-insensitive.
const (
	colName     = "ProductName"
	colCategory = "Category"
	colPrice    = "PriceGBP"
	colAgeFlag  = "AgeVerificationRequired"
)

// Load reads the reference catalog from a CSV file. A missing file, a
// missing column or an empty catalog fail with domain.ErrCatalogData;
// malformed cell values degrade to absent fields instead of failing.
func Load(path string) (domcat.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrCatalogData, path, err)
	}
	defer f.Close()

	cat, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cat, nil
}

// LoadReader reads the reference catalog from CSV data.
func LoadReader(r io.Reader) (domcat.Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", domain.ErrCatalogData)
		}
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrCatalogData, err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var cat domcat.Catalog
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row %d: %w", domain.ErrCatalogData, len(cat)+2, err)
		}
		cat = append(cat, parseEntry(record, cols))
	}

	if len(cat) == 0 {
		return nil, fmt.Errorf("%w: catalog has no rows", domain.ErrCatalogData)
	}
	return cat, nil
}

// columns holds the resolved header indices.
type columns struct {
	name     int
	category int
	price    int
	ageFlag  int
}

// resolveColumns maps the required column names to indices. A missing column
// is an operator-facing load failure, never silently invented.
func resolveColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := columns{}
	for _, req := range []struct {
		name string
		dst  *int
	}{
		{colName, &cols.name},
		{colCategory, &cols.category},
		{colPrice, &cols.price},
		{colAgeFlag, &cols.ageFlag},
	} {
		i, ok := idx[strings.ToLower(req.name)]
		if !ok {
			return columns{}, fmt.Errorf("%w: missing column %q", domain.ErrCatalogData, req.name)
		}
		*req.dst = i
	}
	return cols, nil
}

func parseEntry(record []string, cols columns) domcat.Entry {
	entry := domcat.New(field(record, cols.name), field(record, cols.category))

	if price, err := strconv.ParseFloat(field(record, cols.price), 64); err == nil {
		entry = entry.WithPrice(price)
	}

	switch strings.ToLower(field(record, cols.ageFlag)) {
	case "yes":
		entry = entry.WithAgeVerification(true)
	case "no":
		entry = entry.WithAgeVerification(false)
	}

	return entry
}

// field returns the trimmed cell value, tolerating short records.
func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
