package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// Expected headers: id, name, description, basePrice, salePrice, sizes.
// sizes is a ';'-separated list. A row with an empty id continues the
// previous product and only contributes sizes.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logger,
	}
}

type csvRow struct {
	line      int
	ID        string
	Name      string
	Desc      string
	BasePrice string
	SalePrice string
	Sizes     []string
}

// Run parses CSV rows and upserts one product per id.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"id", "name", "basePrice"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing %q column", required)
		}
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.ID != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (sizes) belong to the current product.
		if current != nil {
			current.Sizes = append(current.Sizes, row.Sizes...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Info("catalog import finished", zap.Int("products", imported))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	p, err := row.product()
	if err != nil {
		return fmt.Errorf("row %d (%s): %w", row.line, row.ID, err)
	}
	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.ID, err)
	}
	i.logger.Debug("imported product", zap.String("id", p.ID), zap.Int("sizes", len(p.Sizes)))
	return nil
}

func (r *csvRow) product() (domain.Product, error) {
	if r.Name == "" || r.BasePrice == "" {
		return domain.Product{}, fmt.Errorf("%w: name and basePrice are required", domain.ErrInvalidInput)
	}
	base, err := decimal.NewFromString(r.BasePrice)
	if err != nil || !base.IsPositive() {
		return domain.Product{}, fmt.Errorf("%w: basePrice %q", domain.ErrInvalidInput, r.BasePrice)
	}
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Desc,
		BasePrice:   base.Round(2),
		Sizes:       dedupe(r.Sizes),
	}
	if r.SalePrice != "" {
		sale, err := decimal.NewFromString(r.SalePrice)
		if err != nil || !sale.IsPositive() || !sale.LessThan(base) {
			return domain.Product{}, fmt.Errorf("%w: salePrice %q must be positive and below basePrice", domain.ErrInvalidInput, r.SalePrice)
		}
		sale = sale.Round(2)
		p.SalePrice = &sale
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		ID:        pick(record, index, "id"),
		Name:      pick(record, index, "name"),
		Desc:      pick(record, index, "description"),
		BasePrice: pick(record, index, "basePrice"),
		SalePrice: pick(record, index, "salePrice"),
		Sizes:     splitSizes(pick(record, index, "sizes")),
	}
	if row.ID == "" && len(row.Sizes) == 0 {
		return nil
	}
	return row
}

func splitSizes(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(sizes []string) []string {
	seen := make(map[string]bool, len(sizes))
	var out []string
	for _, s := range sizes {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
