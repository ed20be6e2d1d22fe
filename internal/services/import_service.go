package services

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/lariosa/stockroom-be/internal/models"
)

// ImportServiceProvider defines the interface for bulk product import.
type ImportServiceProvider interface {
	ImportProducts(path string) (int, error)
}

// ImportService bulk-inserts products parsed from an uploaded file.
type ImportService struct {
	db *sql.DB
}

// NewImportService creates a new ImportService.
func NewImportService(db *sql.DB) *ImportService {
	return &ImportService{db: db}
}

// ImportProducts parses the file at path (.xlsx, or CSV for anything else)
// and inserts each record independently. Inserts run concurrently and are
// joined before the count is computed, so the returned count is exact.
// Individual row failures are skipped, not collected.
func (s *ImportService) ImportProducts(path string) (int, error) {
	var (
		records []models.Product
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = parseXLSX(path)
	} else {
		records, err = parseCSV(path)
	}
	if err != nil {
		return 0, err
	}

	var added atomic.Int64
	var wg sync.WaitGroup
	for _, rec := range records {
		wg.Add(1)
		go func(p models.Product) {
			defer wg.Done()
			_, insertErr := s.db.Exec(
				"INSERT INTO products (name, unit, category, brand, stock, status, image) VALUES (?, ?, ?, ?, ?, ?, ?)",
				p.Name, p.Unit, p.Category, p.Brand, p.Stock, p.Status, p.Image,
			)
			if insertErr != nil {
				log.Debug().Err(insertErr).Str("name", p.Name).Msg("Skipping import row")
				return
			}
			added.Add(1)
		}(rec)
	}
	wg.Wait()

	return int(added.Load()), nil
}

// mapColumns builds a column index from a header row. Header names must
// match the product field names (name, unit, category, brand, stock,
// status, image); matching is case-insensitive.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return columns
}

func rowToProduct(row []string, columns map[string]int) (models.Product, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var p models.Product
	p.Name = cell("name")
	if p.Name == "" {
		return models.Product{}, fmt.Errorf("missing name")
	}
	p.Unit = cell("unit")
	p.Category = cell("category")
	p.Brand = cell("brand")
	p.Status = cell("status")
	if img := cell("image"); img != "" {
		p.Image = &img
	}

	stockStr := cell("stock")
	if stockStr != "" {
		stock, err := strconv.ParseFloat(stockStr, 64)
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid stock %q", stockStr)
		}
		p.Stock = int64(stock)
	}
	return p, nil
}

func parseCSV(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := mapColumns(header)

	var records []models.Product
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Debug().Err(err).Msg("Skipping unparseable CSV row")
			continue
		}
		p, err := rowToProduct(row, columns)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping invalid CSV row")
			continue
		}
		records = append(records, p)
	}
	return records, nil
}

func parseXLSX(path string) ([]models.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx file is empty")
	}

	columns := mapColumns(rows[0])

	var records []models.Product
	for _, row := range rows[1:] {
		p, err := rowToProduct(row, columns)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping invalid xlsx row")
			continue
		}
		records = append(records, p)
	}
	return records, nil
}
