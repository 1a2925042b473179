package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"restaurant-catalog/models"
)

// WriteRecords writes the batch to path as a UTF-8 JSON array, replacing
// any previous file. Intermediate directories are created automatically.
// Unknown values are written as "N/A".
func WriteRecords(path string, records []models.ListingRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}
	if records == nil {
		records = []models.ListingRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("json: encode records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("json: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("json: close %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("json: rename into %q: %w", path, err)
	}
	return nil
}

// ReadRecords loads a batch written by WriteRecords, or by any producer of
// the same array-of-objects format, preserving order.
func ReadRecords(path string) ([]models.ListingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}
	var records []models.ListingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("json: decode %q: %w", path, err)
	}
	return records, nil
}
