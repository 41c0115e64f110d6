// Package export renders catalog data for offline use: CSV round-trips and
// spreadsheet, PDF and word-compatible documents.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"b2b-catalog/models"
)

// CSVHeader is the first row of a product CSV file.
var CSVHeader = []string{"ID", "Name", "Code", "Price", "Image", "CategoryID", "Details"}

// ImageSeparator joins multiple image references in the Image column.
const ImageSeparator = "|"

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func writeQuotedRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

// WriteProductsCSV writes products with every field double quoted and embedded
// quotes doubled. Details are written as JSON.
func WriteProductsCSV(w io.Writer, products []models.Product) error {
	bw := bufio.NewWriter(w)
	if err := writeQuotedRow(bw, CSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		details, err := json.Marshal(p.Details)
		if err != nil {
			return fmt.Errorf("product %s: encode details: %w", p.ID, err)
		}
		row := []string{
			p.ID,
			p.Name,
			p.Code,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strings.Join(p.Images, ImageSeparator),
			p.CategoryID,
			string(details),
		}
		if err := writeQuotedRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadProductsCSV parses a file written by WriteProductsCSV. Rows may leave
// the ID empty; the caller assigns one. The header row is required.
func ReadProductsCSV(r io.Reader) ([]models.Product, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = len(CSVHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty CSV file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !strings.EqualFold(strings.TrimPrefix(header[0], "\ufeff"), CSVHeader[0]) {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	var products []models.Product
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func parseRow(record []string) (models.Product, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid price %q", record[3])
	}
	p := models.Product{
		ID:         strings.TrimSpace(record[0]),
		Name:       strings.TrimSpace(record[1]),
		Code:       strings.TrimSpace(record[2]),
		Price:      price,
		Images:     []string{},
		CategoryID: strings.TrimSpace(record[5]),
	}
	for _, img := range strings.Split(record[4], ImageSeparator) {
		if img = strings.TrimSpace(img); img != "" {
			p.Images = append(p.Images, img)
		}
	}
	if details := strings.TrimSpace(record[6]); details != "" {
		if err := json.Unmarshal([]byte(details), &p.Details); err != nil {
			return models.Product{}, fmt.Errorf("invalid details: %w", err)
		}
	}
	return p, nil
}
