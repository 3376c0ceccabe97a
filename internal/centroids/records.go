package centroids

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/UnknownOlympus/labelmap/internal/models"
)

// Source provides base and override record sets.
type Source interface {
	BaseRecords(ctx context.Context) ([]models.CentroidRecord, error)
	OverrideRecords(ctx context.Context) ([]models.CentroidRecord, error)
}

// Load reads both record sets from src and builds a Store.
func Load(ctx context.Context, src Source) (*Store, error) {
	base, err := src.BaseRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load base records: %w", err)
	}
	overrides, err := src.OverrideRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load override records: %w", err)
	}
	return Build(base, overrides)
}

// FileSource reads record sets from JSON files. An empty OverridesPath means no overrides.
type FileSource struct {
	BasePath      string
	OverridesPath string
}

// BaseRecords decodes the base record file.
func (fs FileSource) BaseRecords(_ context.Context) ([]models.CentroidRecord, error) {
	return LoadRecords(fs.BasePath)
}

// OverrideRecords decodes the override record file, if configured.
func (fs FileSource) OverrideRecords(_ context.Context) ([]models.CentroidRecord, error) {
	if fs.OverridesPath == "" {
		return nil, nil
	}
	return LoadRecords(fs.OverridesPath)
}

// LoadRecords reads a JSON array of records from path.
func LoadRecords(path string) ([]models.CentroidRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &models.ConfigError{Source: path, Err: err}
	}
	defer file.Close()

	return DecodeRecords(file, path)
}

// DecodeRecords reads a JSON array of records. Any malformed value, such as a
// coordinate given as a string, is reported as a *models.ConfigError.
func DecodeRecords(r io.Reader, source string) ([]models.CentroidRecord, error) {
	var records []models.CentroidRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, &models.ConfigError{Source: source, Err: fmt.Errorf("failed to decode records: %w", err)}
	}
	for _, rec := range records {
		if err := checkRecord(source, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// WriteRecords stores records as an indented JSON array sorted by name.
func WriteRecords(path string, records []models.CentroidRecord) error {
	sorted := make([]models.CentroidRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create record file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(sorted); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
