package centroids

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/UnknownOlympus/labelmap/internal/models"
)

// RecordFile collects base records in memory and writes them back to a JSON file.
// It is safe for concurrent use.
type RecordFile struct {
	path    string
	mu      sync.Mutex
	records map[string]models.CentroidRecord
}

// OpenRecordFile loads the records stored at path. A missing file starts empty.
func OpenRecordFile(path string) (*RecordFile, error) {
	rf := &RecordFile{path: path, records: make(map[string]models.CentroidRecord)}

	records, err := LoadRecords(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rf, nil
		}
		return nil, err
	}
	for _, rec := range records {
		rf.records[rec.Name] = rec
	}
	return rf, nil
}

// UpsertBaseRecord adds record or replaces the anchor of the stored record with
// the same name. Stored text coordinates survive unless record sets them.
func (rf *RecordFile) UpsertBaseRecord(_ context.Context, record models.CentroidRecord) error {
	if record.Latitude == nil || record.Longitude == nil {
		return &models.ConfigError{Source: rf.path, Key: record.Name, Err: errMissingAnchor}
	}

	rf.mu.Lock()
	defer rf.mu.Unlock()

	if existing, ok := rf.records[record.Name]; ok {
		record = combine(existing, record)
	}
	rf.records[record.Name] = record
	return nil
}

// Len returns the number of records held.
func (rf *RecordFile) Len() int {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return len(rf.records)
}

// Records returns a snapshot of the held records sorted by name.
func (rf *RecordFile) Records() []models.CentroidRecord {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	records := make([]models.CentroidRecord, 0, len(rf.records))
	for _, rec := range rf.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}

// Flush writes every record to the file.
func (rf *RecordFile) Flush() error {
	if err := WriteRecords(rf.path, rf.Records()); err != nil {
		return fmt.Errorf("failed to flush %s: %w", rf.path, err)
	}
	return nil
}
