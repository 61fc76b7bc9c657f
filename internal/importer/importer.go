// internal/importer/importer.go
package importer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"bookhive/internal/catalog"
)

//go:embed books.json
var bundledBooks []byte

// Record is a single entry of a bulk import file.
type Record struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url"`
}

// Adder is the catalog write side the importer feeds. Satisfied by
// catalog.Service.
type Adder interface {
	AddBook(ctx context.Context, title, author, coverURL string) (*catalog.Book, error)
}

// Report summarizes one import run. Invalid records are non-fatal and listed
// by index; store failures abort the run.
type Report struct {
	Added  int
	Errors []string
}

// Parse decodes a bulk import file.
func Parse(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse import data: %w", err)
	}
	return records, nil
}

// Run writes each valid record as a new catalog entry. Records missing a
// title or author are skipped and reported by index.
func Run(ctx context.Context, adder Adder, records []Record) (Report, error) {
	report := Report{}
	for i, record := range records {
		if record.Title == "" || record.Author == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("invalid book at index %d", i))
			continue
		}
		if _, err := adder.AddBook(ctx, record.Title, record.Author, record.CoverURL); err != nil {
			return report, fmt.Errorf("add %q: %w", record.Title, err)
		}
		report.Added++
	}
	return report, nil
}

// RunBundled imports the book list bundled with the binary.
func RunBundled(ctx context.Context, adder Adder) (Report, error) {
	records, err := Parse(bundledBooks)
	if err != nil {
		return Report{}, err
	}
	return Run(ctx, adder, records)
}
